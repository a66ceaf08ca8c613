//go:build !cgo

package codec

// Without CGO there is no engine to bind; New fails unless the caller
// supplies one through WithEngine.
func defaultEngine() (Engine, error) {
	return nil, ErrEngineUnavailable
}
