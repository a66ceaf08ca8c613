package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ggwave-go/ggwave/codec"
	"github.com/ggwave-go/ggwave/utils"
)

func checkCodecParameterValues() error {

	if v := viper.GetInt("codec.volume"); v < codec.MinVolume || v > codec.MaxVolume {
		return &parmError{
			parm: "codec.volume",
			msg:  fmt.Sprintf("allowed values are [%d...%d]", codec.MinVolume, codec.MaxVolume),
		}
	}

	if viper.GetFloat64("codec.sample-rate") <= 0 {
		return &parmError{
			parm: "codec.sample-rate",
			msg:  "value must be > 0",
		}
	}

	if _, err := codec.ProtocolByName(viper.GetString("codec.protocol")); err != nil {
		return &parmError{
			parm: "codec.protocol",
			msg:  "unknown protocol; run 'ggwave protocols' for the catalog",
		}
	}

	format := viper.GetString("codec.sample-format")
	if !utils.StringInSlice(strings.ToLower(format), []string{"u8", "i16", "f32"}) {
		return &parmError{
			parm: "codec.sample-format",
			msg:  "allowed values are u8, i16, f32",
		}
	}

	if n := viper.GetInt("codec.fixed-length"); n < 0 || n > codec.MaxLengthFixed {
		return &parmError{
			parm: "codec.fixed-length",
			msg:  fmt.Sprintf("allowed values are [0...%d]", codec.MaxLengthFixed),
		}
	}

	return nil
}

type parmError struct {
	parm string
	msg  string
}

func (p *parmError) Error() string {
	return fmt.Sprintf("%v: %v\n", p.parm, p.msg)
}

// getSampleFormat returns the codec representation of a sample format
// value string (typically read from application settings)
func getSampleFormat(name string) (codec.SampleFormat, error) {
	switch strings.ToLower(name) {
	case "u8":
		return codec.FormatU8, nil
	case "i16":
		return codec.FormatI16, nil
	case "f32":
		return codec.FormatF32, nil
	}
	return codec.FormatUndefined, errors.New("unknown sample format value")
}
