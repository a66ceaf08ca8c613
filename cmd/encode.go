package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ggwave-go/ggwave/codec"
	"github.com/ggwave-go/ggwave/wavfile"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode [message]",
	Short: "Encode a message into a WAV file",
	Long: `Encode a message into a WAV file

The message is taken from the arguments, or from stdin when no arguments are
given. The resulting file contains the audio transmission; playing it back
near a receiver delivers the message.

Available protocols can be listed with:

$ ggwave protocols
`,
	Run: encodeMessage,
}

func init() {
	RootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("protocol", "p", "audible-fast", "transmission protocol")
	encodeCmd.Flags().IntP("volume", "v", codec.DefaultVolume, "transmission volume [0...100]")
	encodeCmd.Flags().StringP("output", "o", "message.wav", "output WAV file")
	encodeCmd.Flags().Float64P("sample-rate", "r", float64(codec.DefaultSampleRate), "output sample rate in Hz")
	encodeCmd.Flags().StringP("sample-format", "f", "f32", "output sample format [u8, i16, f32]")
	encodeCmd.Flags().Int("fixed-length", 0, "fixed payload length, 0 selects variable length")
}

func encodeMessage(cmd *cobra.Command, args []string) {

	// bind the pflags to viper settings
	viper.BindPFlag("codec.protocol", cmd.Flags().Lookup("protocol"))
	viper.BindPFlag("codec.volume", cmd.Flags().Lookup("volume"))
	viper.BindPFlag("codec.sample-rate", cmd.Flags().Lookup("sample-rate"))
	viper.BindPFlag("codec.sample-format", cmd.Flags().Lookup("sample-format"))
	viper.BindPFlag("codec.fixed-length", cmd.Flags().Lookup("fixed-length"))
	viper.BindPFlag("encode.output", cmd.Flags().Lookup("output"))

	// check if values from config file / pflags are valid
	if err := checkCodecParameterValues(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	message := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		message = strings.TrimRight(string(data), "\n")
	}

	// values checked before
	protocol, _ := codec.ProtocolByName(viper.GetString("codec.protocol"))
	format, _ := getSampleFormat(viper.GetString("codec.sample-format"))

	volume := viper.GetInt("codec.volume")
	sampleRate := viper.GetFloat64("codec.sample-rate")
	fixedLength := viper.GetInt("codec.fixed-length")
	output := viper.GetString("encode.output")

	opts := []codec.Option{
		codec.WithOperatingMode(codec.ModeTx),
		codec.WithSampleRate(float32(sampleRate)),
		codec.WithSampleFormats(codec.FormatF32, format),
	}
	if fixedLength > 0 {
		opts = append(opts, codec.WithFixedPayloadLength(fixedLength))
	}

	inst, err := codec.New(opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer inst.Close()

	if err := wavfile.EncodeToWAVFile(output, inst, []byte(message), protocol, volume); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d byte payload, %v protocol, %v Hz)\n",
		output, len(message), protocol, sampleRate)
}
