package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ggwave-go/ggwave/codec"
	"github.com/ggwave-go/ggwave/wavfile"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [file.wav]",
	Short: "Decode a message from a WAV recording",
	Long: `Decode a message from a WAV recording

The recording is read completely and searched for a transmission. All
transmission protocols are tried; the recording's own sample rate is used,
so recordings made at rates other than 48kHz work as well.
`,
	Args: cobra.ExactArgs(1),
	Run:  decodeFile,
}

func init() {
	RootCmd.AddCommand(decodeCmd)
}

func decodeFile(cmd *cobra.Command, args []string) {

	samples, sampleRate, err := wavfile.ReadFloat32File(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	inst, err := codec.New(
		codec.WithOperatingMode(codec.ModeRx),
		codec.WithSampleRate(float32(sampleRate)),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer inst.Close()

	message, err := inst.DecodeToString(codec.Float32Bytes(samples))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if message == "" {
		fmt.Fprintln(os.Stderr, "no message found in", args[0])
		os.Exit(1)
	}

	fmt.Println(message)
}
