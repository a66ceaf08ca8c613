package codec

import "fmt"

// SampleFormat identifies the in-memory representation of a single audio
// sample exchanged with the engine.
type SampleFormat int32

const (
	FormatUndefined SampleFormat = iota
	FormatU8
	FormatI8
	FormatU16
	FormatI16
	FormatF32
)

// BytesPerSample returns the size of one sample in the given format, or 0
// for unrecognized formats.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatU8, FormatI8:
		return 1
	case FormatU16, FormatI16:
		return 2
	case FormatF32:
		return 4
	}
	return 0
}

func (f SampleFormat) String() string {
	switch f {
	case FormatUndefined:
		return "undefined"
	case FormatU8:
		return "u8"
	case FormatI8:
		return "i8"
	case FormatU16:
		return "u16"
	case FormatI16:
		return "i16"
	case FormatF32:
		return "f32"
	}
	return fmt.Sprintf("unknown(%d)", int32(f))
}

// OperatingMode selects which halves of the codec an instance may use.
// The values form a bitmask matching the engine's configuration word.
type OperatingMode int32

const (
	ModeRx OperatingMode = 1 << (iota + 1)
	ModeTx
	ModeTxOnlyTones
	ModeUseDSS
)

// ModeRxAndTx enables both reception and transmission.
const ModeRxAndTx = ModeRx | ModeTx

// modeKnownBits is the set of mode bits the engine understands.
const modeKnownBits = ModeRx | ModeTx | ModeTxOnlyTones | ModeUseDSS

func (m OperatingMode) String() string {
	switch m {
	case ModeRx:
		return "rx"
	case ModeTx:
		return "tx"
	case ModeRxAndTx:
		return "rx+tx"
	}
	return fmt.Sprintf("mode(%d)", int32(m))
}

// Engine limits. The engine refuses payloads beyond these, so the wrapper
// enforces them up front and never forwards an oversized request.
const (
	// MaxLengthVariable is the payload ceiling for variable-length encoding.
	MaxLengthVariable = 140
	// MaxLengthFixed is the payload ceiling for fixed-length encoding.
	MaxLengthFixed = 64
	// MaxDataSize is the engine's internal message buffer size and therefore
	// the largest payload a decode can ever produce.
	MaxDataSize = 256
)

// DefaultSampleRate is the engine-recommended capture and playback rate.
const DefaultSampleRate float32 = 48000

// Parameters mirrors the engine's configuration record. A Parameters value
// is pure data; it only takes effect when an Instance is created from it.
type Parameters struct {
	// PayloadLength selects fixed-length encoding when positive; any
	// negative value selects variable-length encoding.
	PayloadLength int

	SampleRateInp float32 // rate of samples fed into Decode
	SampleRateOut float32 // rate of samples produced by Encode
	SampleRate    float32 // internal capture (processing) rate

	SamplesPerFrame      int
	SoundMarkerThreshold float32

	SampleFormatInp SampleFormat
	SampleFormatOut SampleFormat

	OperatingMode OperatingMode
}

// DefaultParameters returns the engine-recommended defaults: variable-length
// payloads, 48 kHz throughout, float32 samples in and out, both directions
// enabled.
func DefaultParameters() Parameters {
	return Parameters{
		PayloadLength:        -1,
		SampleRateInp:        DefaultSampleRate,
		SampleRateOut:        DefaultSampleRate,
		SampleRate:           DefaultSampleRate,
		SamplesPerFrame:      1024,
		SoundMarkerThreshold: 3,
		SampleFormatInp:      FormatF32,
		SampleFormatOut:      FormatF32,
		OperatingMode:        ModeRxAndTx,
	}
}

// Validate reports whether the parameters describe a configuration the
// engine can be asked to allocate. It returns an error wrapping
// ErrInvalidParameters describing the first problem found.
func (p Parameters) Validate() error {
	if p.SampleRateInp <= 0 || p.SampleRateOut <= 0 || p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rates must be > 0 (inp=%v out=%v capture=%v)",
			ErrInvalidParameters, p.SampleRateInp, p.SampleRateOut, p.SampleRate)
	}
	if p.SamplesPerFrame <= 0 {
		return fmt.Errorf("%w: samples per frame must be > 0 (got %d)",
			ErrInvalidParameters, p.SamplesPerFrame)
	}
	if p.SampleFormatInp.BytesPerSample() == 0 {
		return fmt.Errorf("%w: unrecognized input sample format %v",
			ErrInvalidParameters, p.SampleFormatInp)
	}
	if p.SampleFormatOut.BytesPerSample() == 0 {
		return fmt.Errorf("%w: unrecognized output sample format %v",
			ErrInvalidParameters, p.SampleFormatOut)
	}
	if p.OperatingMode == 0 || p.OperatingMode&^modeKnownBits != 0 {
		return fmt.Errorf("%w: unrecognized operating mode %d",
			ErrInvalidParameters, int32(p.OperatingMode))
	}
	if p.PayloadLength > MaxLengthFixed {
		return fmt.Errorf("%w: fixed payload length %d exceeds maximum of %d",
			ErrInvalidParameters, p.PayloadLength, MaxLengthFixed)
	}
	return nil
}

// MaxPayloadLength returns the largest payload an instance created from
// these parameters will accept.
func (p Parameters) MaxPayloadLength() int {
	if p.PayloadLength > 0 {
		return p.PayloadLength
	}
	return MaxLengthVariable
}
