// Package enginetest provides an in-process simulator of the signal
// processing engine, implementing the codec.Engine contract. It lets the
// codec and stream packages be tested without linking the C library: the
// "modulation" is a trivial float32 framing (markers, protocol, length,
// payload bytes, trailer) that survives an encode/decode round trip.
package enginetest

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ggwave-go/ggwave/codec"
)

// Frame markers. Exact binary fractions so the float32 round trip through
// byte buffers is loss-free.
const (
	markerA = float32(0.625)
	markerB = float32(-0.625)
	trailer = float32(0.3125)
)

// headerSamples is markerA + markerB + protocol + length.
const headerSamples = 4

// Engine simulates the engine side of the codec contract and records how it
// was driven so tests can assert on wrapper behavior.
type Engine struct {
	mu         sync.Mutex
	nextID     int
	instances  map[int]codec.Parameters
	rxDisabled map[codec.ProtocolID]bool
	txDisabled map[codec.ProtocolID]bool

	// FailInit makes Init refuse, simulating an engine that cannot
	// allocate state for the requested configuration.
	FailInit bool

	// DurationFrames is returned by RxDurationFrames.
	DurationFrames int

	EncodeCalls int
	DecodeCalls int
	FreeCalls   int
	BadFrees    int // frees of unknown or already-freed instances
	LastVolume  int
}

func New() *Engine {
	return &Engine{
		instances:  make(map[int]codec.Parameters),
		rxDisabled: make(map[codec.ProtocolID]bool),
		txDisabled: make(map[codec.ProtocolID]bool),
	}
}

// Counts returns the number of encode and decode calls observed so far.
// Safe to call while another goroutine drives the engine.
func (e *Engine) Counts() (encodes, decodes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.EncodeCalls, e.DecodeCalls
}

func (e *Engine) Init(p codec.Parameters) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailInit {
		return 0
	}
	e.nextID++
	e.instances[e.nextID] = p
	return e.nextID
}

func (e *Engine) Free(instance int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.FreeCalls++
	if _, ok := e.instances[instance]; !ok {
		e.BadFrees++
		return
	}
	delete(e.instances, instance)
}

// WaveformSize returns the number of bytes Encode produces for a payload of
// the given length.
func WaveformSize(payloadLen int) int {
	return (headerSamples + payloadLen + 1) * 4
}

func (e *Engine) Encode(instance int, payload []byte, protocol codec.ProtocolID, volume int, dst []byte, sizeOnly bool) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.EncodeCalls++
	e.LastVolume = volume

	if _, ok := e.instances[instance]; !ok {
		return -1
	}
	if e.txDisabled[protocol] {
		return -1
	}

	size := WaveformSize(len(payload))
	if sizeOnly {
		return size
	}
	if len(dst) < size {
		return -1
	}

	samples := make([]float32, 0, headerSamples+len(payload)+1)
	samples = append(samples, markerA, markerB, float32(protocol), float32(len(payload)))
	for _, b := range payload {
		samples = append(samples, float32(b))
	}
	samples = append(samples, trailer)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
	}
	return size
}

func (e *Engine) Decode(instance int, waveform []byte, dst []byte) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.DecodeCalls++

	if _, ok := e.instances[instance]; !ok {
		return -1
	}
	if len(waveform)%4 != 0 {
		return -1
	}

	samples := make([]float32, len(waveform)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(waveform[i*4:]))
	}

	// Scan for the start markers; everything before them is noise.
	start := -1
	for i := 0; i+1 < len(samples); i++ {
		if samples[i] == markerA && samples[i+1] == markerB {
			start = i
			break
		}
	}
	if start == -1 || start+headerSamples > len(samples) {
		return 0 // nothing (or not enough) to decode yet
	}

	protocol := codec.ProtocolID(samples[start+2])
	length := int(samples[start+3])
	if length < 0 || length > codec.MaxDataSize {
		return -1
	}

	end := start + headerSamples + length
	if end >= len(samples) {
		return 0 // message still incomplete
	}
	if samples[end] != trailer {
		return -1 // corrupted frame
	}
	if e.rxDisabled[protocol] {
		return 0 // detector not listening on this protocol
	}
	if len(dst) < length {
		return -2
	}
	for i := 0; i < length; i++ {
		dst[i] = byte(samples[start+headerSamples+i])
	}
	return length
}

func (e *Engine) ToggleRxProtocol(p codec.ProtocolID, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if enabled {
		delete(e.rxDisabled, p)
		return
	}
	e.rxDisabled[p] = true
}

func (e *Engine) ToggleTxProtocol(p codec.ProtocolID, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if enabled {
		delete(e.txDisabled, p)
		return
	}
	e.txDisabled[p] = true
}

func (e *Engine) RxProtocolSetFreqStart(p codec.ProtocolID, freqStart int) {}

func (e *Engine) TxProtocolSetFreqStart(p codec.ProtocolID, freqStart int) {}

func (e *Engine) RxDurationFrames(instance int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.instances[instance]; !ok {
		return -1
	}
	return e.DurationFrames
}
