// Package wavfile writes encoded waveforms into WAV containers and reads
// captured WAV recordings back into samples the codec can decode.
package wavfile

import (
	"fmt"
	"io"
	"os"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"

	"github.com/ggwave-go/ggwave/codec"
)

// WAV "fmt" chunk audio format tags.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// channels is fixed to mono; the engine neither produces nor consumes
// multi-channel waveforms.
const channels = 1

// UnsupportedFormatError is returned when a waveform's sample format has no
// WAV representation the writer supports.
type UnsupportedFormatError struct {
	Format codec.SampleFormat
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("wavfile: no WAV representation for sample format %v", e.Format)
}

// Write stores a raw waveform as a mono WAV file on ws. The waveform bytes
// must be samples in the given format; U8 becomes 8-bit PCM, I16 becomes
// 16-bit PCM and F32 becomes 32-bit IEEE float. Other formats are rejected
// with an *UnsupportedFormatError.
func Write(ws io.WriteSeeker, waveform []byte, sampleRate int, format codec.SampleFormat) error {
	bps := format.BytesPerSample()

	var bitDepth, audioFormat int
	switch format {
	case codec.FormatU8:
		bitDepth, audioFormat = 8, formatPCM
	case codec.FormatI16:
		bitDepth, audioFormat = 16, formatPCM
	case codec.FormatF32:
		bitDepth, audioFormat = 32, formatIEEEFloat
	default:
		return &UnsupportedFormatError{Format: format}
	}

	if len(waveform)%bps != 0 {
		return fmt.Errorf("wavfile: waveform length %d is not a multiple of the %d-byte sample size",
			len(waveform), bps)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("wavfile: sample rate must be > 0 (got %d)", sampleRate)
	}

	buf := ga.IntBuffer{
		Format: &ga.Format{
			SampleRate:  sampleRate,
			NumChannels: channels,
		},
		Data: make([]int, 0, len(waveform)/bps),
	}

	// The encoder writes each int verbatim at the declared bit depth, so
	// every branch hands it the exact on-disk representation: unsigned
	// bytes, little-endian int16s, or raw float32 bit patterns.
	switch format {
	case codec.FormatU8:
		for _, b := range waveform {
			buf.Data = append(buf.Data, int(b))
		}
	case codec.FormatI16:
		for i := 0; i+1 < len(waveform); i += 2 {
			s := int16(uint16(waveform[i]) | uint16(waveform[i+1])<<8)
			buf.Data = append(buf.Data, int(s))
		}
	case codec.FormatF32:
		for i := 0; i+3 < len(waveform); i += 4 {
			bits := uint32(waveform[i]) | uint32(waveform[i+1])<<8 |
				uint32(waveform[i+2])<<16 | uint32(waveform[i+3])<<24
			buf.Data = append(buf.Data, int(int32(bits)))
		}
	}

	enc := wav.NewEncoder(ws, sampleRate, bitDepth, channels, audioFormat)
	if err := enc.Write(&buf); err != nil {
		enc.Close()
		return fmt.Errorf("wavfile: writing samples: %v", err)
	}
	return enc.Close()
}

// WriteFile stores a raw waveform as a mono WAV file at path.
func WriteFile(path string, waveform []byte, sampleRate int, format codec.SampleFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, waveform, sampleRate, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Bytes renders a waveform into an in-memory WAV container.
func Bytes(waveform []byte, sampleRate int, format codec.SampleFormat) ([]byte, error) {
	var ws memWriteSeeker
	if err := Write(&ws, waveform, sampleRate, format); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// EncodeToWAV encodes a payload on the given instance and stores the
// resulting waveform as a WAV file on ws. Container metadata (rate and
// sample format) comes from the instance's output configuration.
func EncodeToWAV(ws io.WriteSeeker, inst *codec.Instance, payload []byte, protocol codec.ProtocolID, volume int) error {
	waveform, err := inst.Encode(payload, protocol, volume)
	if err != nil {
		return err
	}
	p := inst.Parameters()
	return Write(ws, waveform, int(p.SampleRateOut), p.SampleFormatOut)
}

// EncodeToWAVFile encodes a payload and stores the waveform at path.
func EncodeToWAVFile(path string, inst *codec.Instance, payload []byte, protocol codec.ProtocolID, volume int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeToWAV(f, inst, payload, protocol, volume); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// memWriteSeeker adapts a byte slice to io.WriteSeeker so the encoder can
// patch up chunk sizes after writing the samples.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		grown := make([]byte, need)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(m.pos) + offset
	case io.SeekEnd:
		pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("wavfile: invalid seek whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("wavfile: seek to negative position %d", pos)
	}
	m.pos = int(pos)
	return pos, nil
}
