package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters indicates a Parameters value the engine cannot
	// be asked to allocate.
	ErrInvalidParameters = errors.New("codec: invalid parameters")

	// ErrInitFailed indicates the engine refused to create internal state
	// for the requested configuration.
	ErrInitFailed = errors.New("codec: engine failed to initialize instance")

	// ErrEngineUnavailable is returned by New when the binary was built
	// without the engine (CGO disabled) and no alternative engine was
	// supplied.
	ErrEngineUnavailable = errors.New("codec: engine not available in this build")

	// ErrClosed is returned by any operation on a closed instance,
	// including a second Close.
	ErrClosed = errors.New("codec: instance already closed")

	// ErrTxDisabled is returned by Encode on an instance whose operating
	// mode does not include transmission.
	ErrTxDisabled = errors.New("codec: instance not configured for transmission")

	// ErrRxDisabled is returned by Decode on an instance whose operating
	// mode does not include reception.
	ErrRxDisabled = errors.New("codec: instance not configured for reception")

	// ErrEncodeFailed indicates the engine reported a failure from a real
	// encode attempt or its preceding size query.
	ErrEncodeFailed = errors.New("codec: encode failed")

	// ErrDecodeFailed indicates the engine reported an unrecoverable
	// decoding failure. A waveform that simply contains no message yet is
	// not an error; Decode reports that as (0, nil).
	ErrDecodeFailed = errors.New("codec: decode failed")
)

// PayloadTooLargeError is returned by Encode when the payload exceeds the
// maximum the instance's configuration allows. The engine is never called.
type PayloadTooLargeError struct {
	Size int // length of the rejected payload
	Max  int // maximum allowed by the configuration
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("codec: payload of %d bytes exceeds maximum of %d", e.Size, e.Max)
}

// BufferTooSmallError is returned by Decode when the destination buffer
// cannot hold the decoded message. Required carries the exact size needed,
// so the caller can retry instead of guessing.
type BufferTooSmallError struct {
	Required int
	Provided int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("codec: decode buffer too small: need %d bytes, got %d",
		e.Required, e.Provided)
}
