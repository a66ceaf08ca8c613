package wavfile

import (
	"bytes"
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

// readFrames is the number of samples pulled from the decoder per iteration.
const readFrames = 4096

// ReadFloat32 reads a WAV stream into normalized float32 samples, the layout
// the codec's default receive configuration expects. Multi-channel
// recordings are downmixed to mono by averaging the channels. The second
// return value is the recording's sample rate.
//
// The RIFF chunk walk needs random access, so the stream is buffered in
// memory first; recordings carrying short codec transmissions are small.
func ReadFloat32(r io.Reader) ([]float32, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	reader := wav.NewReader(bytes.NewReader(data))

	format, err := reader.Format()
	if err != nil {
		return nil, 0, err
	}
	chans := int(format.NumChannels)

	samples := []float32{}

	for {
		frame, err := reader.ReadSamples(readFrames)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		for _, sample := range frame {
			sum := float64(0)
			for ch := 0; ch < chans; ch++ {
				sum += reader.FloatValue(sample, uint(ch))
			}
			samples = append(samples, float32(sum/float64(chans)))
		}
	}

	return samples, int(format.SampleRate), nil
}

// ReadFloat32File reads the WAV file at path into float32 samples.
func ReadFloat32File(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadFloat32(f)
}
