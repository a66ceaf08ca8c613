// Package stream adapts the one-shot codec to continuous audio. Callers
// push captured sample chunks into an Adapter; a background goroutine
// watches the signal level, accumulates a capture window while a
// transmission is audible and emits decoded payloads on a channel.
package stream

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chewxy/math32"
	ringBuffer "github.com/dh1tw/golang-ring"
	"github.com/dh1tw/gosamplerate"

	"github.com/ggwave-go/ggwave/codec"
)

var (
	// ErrClosed is returned by operations on a closed Adapter.
	ErrClosed = errors.New("stream: adapter closed")

	// ErrNotFloat32 is returned by New when the codec instance does not
	// consume float32 samples; the adapter only speaks that format.
	ErrNotFloat32 = errors.New("stream: codec instance must use float32 input samples")
)

// detector states. The window is only accumulated between arming (signal
// rises above the level threshold) and the end of the hangover (signal has
// stayed below it long enough).
type state int

const (
	idle state = iota
	armed
	draining
)

// Adapter feeds continuous audio to a codec instance. Write never blocks on
// decoding: chunks go through a ring buffer that overwrites its oldest entry
// when the detector falls behind, trading old audio for bounded latency.
type Adapter struct {
	sync.Mutex
	inst    *codec.Instance
	options Options
	ring    ringBuffer.Ring
	stash   []float32
	src     *src
	msgs    chan []byte

	wakeup  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool

	// resetPending asks the worker to drop its window before touching the
	// next chunk; set by Flush, cleared by the worker. Guarded by the
	// adapter mutex, unlike the detector state below.
	resetPending bool

	// detector state, owned by the worker goroutine
	state  state
	window []float32
	quiet  int
}

// src contains a samplerate converter and its needed variables
type src struct {
	gosamplerate.Src
	samplerate float64
	ratio      float64
}

// New returns an Adapter wrapping the given codec instance. The instance
// must be configured for float32 input at the rate audio will be written,
// unless SourceRate declares a different capture rate, in which case the
// adapter resamples.
func New(inst *codec.Instance, opts ...Option) (*Adapter, error) {
	params := inst.Parameters()
	if params.SampleFormatInp != codec.FormatF32 {
		return nil, ErrNotFloat32
	}

	a := &Adapter{
		inst: inst,
		options: Options{
			ChunkSize:      params.SamplesPerFrame,
			RingBufferSize: 64,
			LevelThreshold: 0.01,
			HangoverChunks: 8,
			WindowChunks:   512,
			MessageBuffer:  16,
		},
		wakeup: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	for _, option := range opts {
		option(&a.options)
	}

	if a.options.ChunkSize <= 0 || a.options.RingBufferSize <= 0 ||
		a.options.HangoverChunks <= 0 || a.options.WindowChunks <= 0 {
		return nil, fmt.Errorf("stream: chunk, ring, hangover and window sizes must be > 0")
	}

	a.msgs = make(chan []byte, a.options.MessageBuffer)
	a.ring.SetCapacity(a.options.RingBufferSize)

	// setup a samplerate converter when the capture rate differs from the
	// codec's input rate
	codecRate := float64(params.SampleRateInp)
	if a.options.SourceRate != 0 && a.options.SourceRate != codecRate {
		srConv, err := gosamplerate.New(gosamplerate.SRC_SINC_FASTEST, 1, 65536)
		if err != nil {
			return nil, fmt.Errorf("stream: samplerate converter: %v", err)
		}
		a.src = &src{
			Src:        srConv,
			samplerate: a.options.SourceRate,
			ratio:      codecRate / a.options.SourceRate,
		}
	}

	return a, nil
}

// Messages returns the channel on which decoded payloads are delivered.
// The channel is closed by Close.
func (a *Adapter) Messages() <-chan []byte {
	return a.msgs
}

// Start launches the detector goroutine. Audio written before Start is kept
// in the ring buffer and processed once the detector runs.
func (a *Adapter) Start() error {
	a.Lock()
	defer a.Unlock()
	if a.closed {
		return ErrClosed
	}
	if a.started {
		return nil
	}
	a.started = true
	a.wg.Add(1)
	go a.run()
	return nil
}

// Stop halts the detector goroutine. Buffered audio stays in the ring
// buffer; Start resumes processing.
func (a *Adapter) Stop() error {
	a.Lock()
	if a.closed {
		a.Unlock()
		return ErrClosed
	}
	if !a.started {
		a.Unlock()
		return nil
	}
	a.started = false
	close(a.done)
	a.Unlock()

	a.wg.Wait()

	a.Lock()
	a.done = make(chan struct{})
	a.Unlock()
	return nil
}

// Close stops the detector and closes the message channel. The wrapped
// codec instance is not closed; the caller owns it.
func (a *Adapter) Close() error {
	a.Lock()
	if a.closed {
		a.Unlock()
		return ErrClosed
	}
	started := a.started
	a.closed = true
	a.started = false
	if started {
		close(a.done)
	}
	a.Unlock()

	a.wg.Wait()

	if a.src != nil {
		gosamplerate.Delete(a.src.Src)
	}
	close(a.msgs)
	return nil
}

// Write hands captured audio to the adapter. The samples are resampled if
// needed, chopped into detector-sized chunks and enqueued; a partial chunk
// is stashed and prepended to the next call. Write never blocks on the
// detector.
func (a *Adapter) Write(samples []float32) error {
	a.Lock()
	defer a.Unlock()
	if a.closed {
		return ErrClosed
	}

	aData := samples
	if a.src != nil {
		resampled, err := a.src.Process(aData, a.src.ratio, false)
		if err != nil {
			return fmt.Errorf("stream: resampling: %v", err)
		}
		aData = resampled
	}

	// if there is data stashed from previous calls, prepend it
	if len(a.stash) > 0 {
		aData = append(a.stash, aData...)
		a.stash = nil
	}

	chunkSize := a.options.ChunkSize
	for len(aData) >= chunkSize {
		chunk := make([]float32, chunkSize)
		copy(chunk, aData)
		a.ring.Enqueue(chunk)
		aData = aData[chunkSize:]
	}

	// stash the left over
	if len(aData) > 0 {
		a.stash = append(a.stash[:0], aData...)
	}

	a.wake()
	return nil
}

// Flush clears all internal buffers and resets the detector to idle. The
// detector state is worker-owned, so the reset is handed over as a pending
// request and takes effect before the next chunk is processed.
func (a *Adapter) Flush() {
	a.Lock()
	defer a.Unlock()
	a.stash = nil
	a.ring = ringBuffer.Ring{}
	a.ring.SetCapacity(a.options.RingBufferSize)
	if a.src != nil {
		a.src.Reset()
	}
	a.resetPending = true
}

// Send encodes a payload and returns it as float32 samples ready to be
// played back at the codec's output rate.
func (a *Adapter) Send(payload []byte, protocol codec.ProtocolID, volume int) ([]float32, error) {
	a.Lock()
	closed := a.closed
	a.Unlock()
	if closed {
		return nil, ErrClosed
	}

	waveform, err := a.inst.Encode(payload, protocol, volume)
	if err != nil {
		return nil, err
	}
	if a.inst.Parameters().SampleFormatOut != codec.FormatF32 {
		return nil, ErrNotFloat32
	}
	return codec.BytesFloat32(waveform)
}

func (a *Adapter) wake() {
	select {
	case a.wakeup <- struct{}{}:
	default:
	}
}

func (a *Adapter) run() {
	defer a.wg.Done()

	a.Lock()
	done := a.done
	a.Unlock()

	for {
		select {
		case <-done:
			return
		case <-a.wakeup:
			for {
				a.Lock()
				data := a.ring.Dequeue()
				a.Unlock()
				if data == nil {
					break
				}
				a.process(data.([]float32))
			}
		}
	}
}

// process runs one chunk through the level gate and, while a window is
// open, through the decoder.
func (a *Adapter) process(chunk []float32) {
	a.Lock()
	pending := a.resetPending
	a.resetPending = false
	a.Unlock()
	if pending {
		a.reset()
	}

	level := rms(chunk)
	loud := level >= a.options.LevelThreshold

	switch a.state {
	case idle:
		if !loud {
			return
		}
		a.state = armed
		a.window = a.window[:0]
		a.quiet = 0
	case armed:
		if !loud {
			a.state = draining
			a.quiet = 1
		}
	case draining:
		if loud {
			a.state = armed
			a.quiet = 0
		} else {
			a.quiet++
		}
	}

	a.window = append(a.window, chunk...)

	// bound the window; a transmission longer than the cap loses its
	// oldest samples and will not decode, which beats unbounded growth
	if max := a.options.WindowChunks * a.options.ChunkSize; len(a.window) > max {
		a.window = append(a.window[:0], a.window[len(a.window)-max:]...)
	}

	a.tryDecode()

	if a.state == draining && a.quiet >= a.options.HangoverChunks {
		a.reset()
	}
}

func (a *Adapter) tryDecode() {
	buf := make([]byte, codec.MaxDataSize)
	n, err := a.inst.Decode(codec.Float32Bytes(a.window), buf)
	if err != nil {
		log.Printf("stream: decode: %v", err)
		a.reset()
		return
	}
	if n == 0 {
		return // no complete message in the window yet
	}

	msg := make([]byte, n)
	copy(msg, buf[:n])
	select {
	case a.msgs <- msg:
	default:
		log.Printf("stream: dropping %d byte message, consumer too slow", n)
	}
	a.reset()
}

func (a *Adapter) reset() {
	a.state = idle
	a.window = a.window[:0]
	a.quiet = 0
}

// rms returns the root mean square level of a chunk.
func rms(chunk []float32) float32 {
	if len(chunk) == 0 {
		return 0
	}
	var sum float32
	for _, s := range chunk {
		sum += s * s
	}
	return math32.Sqrt(sum / float32(len(chunk)))
}
