package codec

// Engine is the fixed function-table contract of the underlying signal
// processing engine. The default implementation binds the C library (see
// engine_cgo.go); tests substitute a simulator through WithEngine.
//
// The contract keeps the engine's C-style sentinel conventions, and the
// Instance methods classify every return value before any other logic runs;
// no raw sentinel escapes this package.
type Engine interface {
	// Init allocates engine state for the given configuration and returns
	// an instance id. Any value <= 0 means the engine refused.
	Init(p Parameters) int

	// Free releases the state behind an instance id. Called exactly once
	// per successful Init.
	Free(instance int)

	// Encode synthesizes a waveform for payload using the given protocol
	// and volume. With sizeOnly set, dst is ignored and the return value is
	// the required output buffer size in bytes. Otherwise the waveform is
	// written into dst and the number of bytes written is returned. Any
	// value <= 0 means failure (for a size query, a zero-size answer is
	// also failure: even an empty payload produces sound markers).
	Encode(instance int, payload []byte, protocol ProtocolID, volume int, dst []byte, sizeOnly bool) int

	// Decode feeds captured waveform bytes to the receiver. It returns the
	// number of payload bytes written into dst (0 = nothing decoded yet),
	// decodeShortBuffer when dst cannot hold the decoded message, or any
	// other negative value on unrecoverable failure.
	Decode(instance int, waveform []byte, dst []byte) int

	// ToggleRxProtocol and ToggleTxProtocol enable or disable a protocol
	// for reception respectively transmission. Protocols not toggled keep
	// their prior state.
	ToggleRxProtocol(p ProtocolID, enabled bool)
	ToggleTxProtocol(p ProtocolID, enabled bool)

	// RxProtocolSetFreqStart and TxProtocolSetFreqStart move a protocol to
	// a different starting frequency bin. The bin index is opaque.
	RxProtocolSetFreqStart(p ProtocolID, freqStart int)
	TxProtocolSetFreqStart(p ProtocolID, freqStart int)

	// RxDurationFrames returns the number of frames the receiver currently
	// needs to complete a message, or a negative value if unknown.
	RxDurationFrames(instance int) int
}

// Decode sentinels of the engine contract.
const (
	decodeFailed      = -1
	decodeShortBuffer = -2
)
