package codec

import (
	"fmt"
	"sync"
)

// Instance owns exactly one live engine instance. All operations take an
// internal lock for their duration: the engine state behind the instance id
// is not safe for concurrent use, so encode, decode, toggles and Close are
// serialized. An Instance must be released with Close exactly once;
// forgetting Close leaks engine-side state.
type Instance struct {
	sync.Mutex
	eng    Engine
	id     int
	params Parameters
	closed bool

	// Per-instance protocol detection masks, mutated only through the
	// toggle methods and never implicitly reset after creation. All
	// protocols start enabled, matching the engine default.
	rxEnabled map[ProtocolID]bool
	txEnabled map[ProtocolID]bool
}

// New validates the configured parameters and asks the engine to allocate
// state for them. On failure nothing is left half-constructed; there is no
// handle to clean up.
func New(opts ...Option) (*Instance, error) {
	o := Options{Params: DefaultParameters()}
	for _, option := range opts {
		option(&o)
	}

	if err := o.Params.Validate(); err != nil {
		return nil, err
	}

	eng := o.Engine
	if eng == nil {
		e, err := defaultEngine()
		if err != nil {
			return nil, err
		}
		eng = e
	}

	id := eng.Init(o.Params)
	if id <= 0 {
		return nil, fmt.Errorf("%w (engine returned %d)", ErrInitFailed, id)
	}

	return &Instance{
		eng:       eng,
		id:        id,
		params:    o.Params,
		rxEnabled: make(map[ProtocolID]bool),
		txEnabled: make(map[ProtocolID]bool),
	}, nil
}

// Close releases the engine state. The first call frees the instance;
// every later call returns ErrClosed without touching the engine, so a
// double free cannot happen.
func (in *Instance) Close() error {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return ErrClosed
	}
	in.closed = true
	in.eng.Free(in.id)
	in.id = 0
	return nil
}

// Parameters returns a copy of the configuration the instance was created
// with.
func (in *Instance) Parameters() Parameters {
	in.Lock()
	defer in.Unlock()
	return in.params
}

// MaxPayloadLength returns the largest payload Encode will accept on this
// instance.
func (in *Instance) MaxPayloadLength() int {
	in.Lock()
	defer in.Unlock()
	return in.params.MaxPayloadLength()
}

// SetRxProtocolEnabled toggles detection of a single protocol on the
// receive side. Protocols that were never toggled keep their prior state.
func (in *Instance) SetRxProtocolEnabled(p ProtocolID, enabled bool) error {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return ErrClosed
	}
	in.rxEnabled[p] = enabled
	in.eng.ToggleRxProtocol(p, enabled)
	return nil
}

// SetTxProtocolEnabled toggles a single protocol on the transmit side.
func (in *Instance) SetTxProtocolEnabled(p ProtocolID, enabled bool) error {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return ErrClosed
	}
	in.txEnabled[p] = enabled
	in.eng.ToggleTxProtocol(p, enabled)
	return nil
}

// RxProtocolEnabled reports the receive-side state of a protocol as tracked
// by this instance. Protocols that were never toggled are enabled.
func (in *Instance) RxProtocolEnabled(p ProtocolID) bool {
	in.Lock()
	defer in.Unlock()
	if enabled, ok := in.rxEnabled[p]; ok {
		return enabled
	}
	return true
}

// TxProtocolEnabled reports the transmit-side state of a protocol as tracked
// by this instance.
func (in *Instance) TxProtocolEnabled(p ProtocolID) bool {
	in.Lock()
	defer in.Unlock()
	if enabled, ok := in.txEnabled[p]; ok {
		return enabled
	}
	return true
}

// SetRxProtocolFreqStart moves a receive protocol to a different starting
// frequency bin. The bin index is an opaque engine value.
func (in *Instance) SetRxProtocolFreqStart(p ProtocolID, freqStart int) error {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return ErrClosed
	}
	in.eng.RxProtocolSetFreqStart(p, freqStart)
	return nil
}

// SetTxProtocolFreqStart moves a transmit protocol to a different starting
// frequency bin.
func (in *Instance) SetTxProtocolFreqStart(p ProtocolID, freqStart int) error {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return ErrClosed
	}
	in.eng.TxProtocolSetFreqStart(p, freqStart)
	return nil
}

// RxDurationFrames returns the number of frames the receiver needs to
// complete the message currently being decoded.
func (in *Instance) RxDurationFrames() (int, error) {
	in.Lock()
	defer in.Unlock()
	if in.closed {
		return 0, ErrClosed
	}
	return in.eng.RxDurationFrames(in.id), nil
}
