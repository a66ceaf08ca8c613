package codec

// Options holds the configurable values for a codec Instance.
type Options struct {
	// Params is the engine configuration snapshot the instance is created
	// from.
	Params Parameters

	// Engine overrides the default engine binding. Leave nil to use the
	// linked C engine; tests and advanced integrations may substitute
	// their own implementation of the engine contract.
	Engine Engine
}

// Option is a function which modifies the instance Options.
type Option func(*Options)

// WithParameters replaces the whole parameter set.
func WithParameters(p Parameters) Option {
	return func(o *Options) {
		o.Params = p
	}
}

// WithOperatingMode restricts the instance to the given mode, e.g. ModeTx
// for a transmit-only instance.
func WithOperatingMode(m OperatingMode) Option {
	return func(o *Options) {
		o.Params.OperatingMode = m
	}
}

// WithSampleRate sets the input, output and capture sample rate at once.
func WithSampleRate(rate float32) Option {
	return func(o *Options) {
		o.Params.SampleRateInp = rate
		o.Params.SampleRateOut = rate
		o.Params.SampleRate = rate
	}
}

// WithSampleFormats sets the sample format for decode input and encode
// output.
func WithSampleFormats(in, out SampleFormat) Option {
	return func(o *Options) {
		o.Params.SampleFormatInp = in
		o.Params.SampleFormatOut = out
	}
}

// WithFixedPayloadLength switches the instance to fixed-length encoding.
// The length must not exceed MaxLengthFixed.
func WithFixedPayloadLength(n int) Option {
	return func(o *Options) {
		o.Params.PayloadLength = n
	}
}

// WithEngine substitutes the engine implementation backing the instance.
func WithEngine(e Engine) Option {
	return func(o *Options) {
		o.Engine = e
	}
}
