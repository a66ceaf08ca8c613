package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Volume range accepted by the engine. Encode clamps out-of-range values
// instead of rejecting them; the clamp is the documented policy, not an
// accident.
const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 50
)

// Encode turns a payload into a waveform using the given protocol and
// volume. The returned bytes are audio samples in the configured output
// sample format at the configured output rate.
//
// The required buffer size is queried from the engine first and is the
// single source of truth for the allocation; the engine then fills a buffer
// of exactly that size, so partial writes cannot occur. An empty payload is
// valid and produces a minimal marker-only waveform.
func (in *Instance) Encode(payload []byte, protocol ProtocolID, volume int) ([]byte, error) {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return nil, ErrClosed
	}
	if in.params.OperatingMode&ModeTx == 0 {
		return nil, ErrTxDisabled
	}
	if max := in.params.MaxPayloadLength(); len(payload) > max {
		return nil, &PayloadTooLargeError{Size: len(payload), Max: max}
	}

	if volume < MinVolume {
		volume = MinVolume
	} else if volume > MaxVolume {
		volume = MaxVolume
	}

	size := in.eng.Encode(in.id, payload, protocol, volume, nil, true)
	if size <= 0 {
		return nil, fmt.Errorf("%w: size query returned %d", ErrEncodeFailed, size)
	}

	waveform := make([]byte, size)
	n := in.eng.Encode(in.id, payload, protocol, volume, waveform, false)
	if n <= 0 || n > size {
		return nil, fmt.Errorf("%w: engine wrote %d of %d bytes", ErrEncodeFailed, n, size)
	}
	return waveform[:n], nil
}

// Decode feeds captured waveform bytes to the receiver and writes any
// decoded payload into dst. The waveform must be raw samples in the
// configured input format and rate, never container-file bytes.
//
// The return value is the number of payload bytes written. (0, nil) means
// no complete message was found in the waveform yet; streaming callers
// should keep feeding audio. A dst too small for the decoded message yields
// a *BufferTooSmallError carrying the exact required size.
func (in *Instance) Decode(waveform, dst []byte) (int, error) {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return 0, ErrClosed
	}
	if in.params.OperatingMode&ModeRx == 0 {
		return 0, ErrRxDisabled
	}

	n := in.eng.Decode(in.id, waveform, dst)
	switch {
	case n >= 0:
		return n, nil
	case n == decodeShortBuffer:
		return 0, &BufferTooSmallError{
			Required: in.requiredDecodeSize(waveform),
			Provided: len(dst),
		}
	default:
		return 0, fmt.Errorf("%w: engine returned %d", ErrDecodeFailed, n)
	}
}

// requiredDecodeSize learns the exact length of the message in waveform by
// re-running the decode into an engine-max scratch buffer. The waveform is
// self-contained, so feeding it again is deterministic. Called with the
// instance lock held.
func (in *Instance) requiredDecodeSize(waveform []byte) int {
	scratch := make([]byte, MaxDataSize)
	if n := in.eng.Decode(in.id, waveform, scratch); n > 0 {
		return n
	}
	return MaxDataSize
}

// DecodeToString decodes a waveform into a string using an engine-max
// scratch buffer. It returns ("", nil) when the waveform holds no complete
// message yet.
func (in *Instance) DecodeToString(waveform []byte) (string, error) {
	buf := make([]byte, MaxDataSize)
	n, err := in.Decode(waveform, buf)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// Float32Bytes converts float32 samples into the little-endian byte layout
// Decode expects for FormatF32 input.
func Float32Bytes(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

// BytesFloat32 converts a FormatF32 waveform back into float32 samples.
// The byte length must be a multiple of four.
func BytesFloat32(waveform []byte) ([]float32, error) {
	if len(waveform)%4 != 0 {
		return nil, fmt.Errorf("codec: waveform length %d is not a multiple of 4", len(waveform))
	}
	samples := make([]float32, len(waveform)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(waveform[i*4:]))
	}
	return samples, nil
}
