package stream

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a stream Adapter.
type Options struct {
	ChunkSize      int
	RingBufferSize int
	LevelThreshold float32
	HangoverChunks int
	WindowChunks   int
	SourceRate     float64
	MessageBuffer  int
}

// ChunkSize is a functional option which sets the number of samples handed
// to the detector at a time. It should match the frame size the codec was
// configured with.
func ChunkSize(n int) Option {
	return func(args *Options) {
		args.ChunkSize = n
	}
}

// RingBufferSize is a functional option to set the size (in chunks) of the
// ring buffer between Write and the detector goroutine. When the detector
// falls behind, the oldest chunks are overwritten so a slow consumer never
// blocks the capture path.
func RingBufferSize(size int) Option {
	return func(args *Options) {
		args.RingBufferSize = size
	}
}

// LevelThreshold is a functional option to set the RMS level at which a
// chunk counts as signal rather than background noise.
func LevelThreshold(v float32) Option {
	return func(args *Options) {
		args.LevelThreshold = v
	}
}

// HangoverChunks is a functional option to set how many consecutive
// below-threshold chunks end a capture window.
func HangoverChunks(n int) Option {
	return func(args *Options) {
		args.HangoverChunks = n
	}
}

// WindowChunks is a functional option to cap the capture window, in chunks.
// Once the window is full the oldest samples are discarded.
func WindowChunks(n int) Option {
	return func(args *Options) {
		args.WindowChunks = n
	}
}

// SourceRate is a functional option to declare the sample rate of the audio
// handed to Write. When it differs from the codec's input rate, the adapter
// resamples before feeding the detector.
func SourceRate(rate float64) Option {
	return func(args *Options) {
		args.SourceRate = rate
	}
}

// MessageBuffer is a functional option to set the capacity of the channel
// returned by Messages. When the channel is full, further decoded messages
// are dropped.
func MessageBuffer(n int) Option {
	return func(args *Options) {
		args.MessageBuffer = n
	}
}
