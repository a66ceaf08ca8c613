package codec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ggwave-go/ggwave/codec"
	"github.com/ggwave-go/ggwave/internal/enginetest"
)

func newTestInstance(t *testing.T, eng *enginetest.Engine, opts ...codec.Option) *codec.Instance {
	t.Helper()
	opts = append([]codec.Option{codec.WithEngine(eng)}, opts...)
	inst, err := codec.New(opts...)
	if err != nil {
		t.Fatalf("failed to create instance: %v", err)
	}
	return inst
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	payload := []byte("Hello, data over sound!")

	for _, protocol := range codec.Protocols() {
		waveform, err := inst.Encode(payload, protocol, codec.DefaultVolume)
		if err != nil {
			t.Fatalf("%v: encode failed: %v", protocol, err)
		}
		if len(waveform) == 0 {
			t.Fatalf("%v: encode produced an empty waveform", protocol)
		}

		buf := make([]byte, codec.MaxDataSize)
		n, err := inst.Decode(waveform, buf)
		if err != nil {
			t.Fatalf("%v: decode failed: %v", protocol, err)
		}
		if !bytes.Equal(buf[:n], payload) {
			t.Fatalf("%v: round trip mismatch: got %q, want %q", protocol, buf[:n], payload)
		}
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	waveform, err := inst.Encode(nil, codec.ProtocolAudibleNormal, codec.DefaultVolume)
	if err != nil {
		t.Fatalf("encode of empty payload failed: %v", err)
	}
	if len(waveform) == 0 {
		t.Fatal("empty payload must still produce a marker waveform")
	}

	buf := make([]byte, codec.MaxDataSize)
	n, err := inst.Decode(waveform, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty payload, got %d bytes", n)
	}
}

func TestEncodePayloadTooLarge(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	payload := make([]byte, codec.MaxLengthVariable+1)
	_, err := inst.Encode(payload, codec.ProtocolAudibleNormal, codec.DefaultVolume)

	var tooLarge *codec.PayloadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected PayloadTooLargeError, got %v", err)
	}
	if tooLarge.Max != codec.MaxLengthVariable || tooLarge.Size != len(payload) {
		t.Fatalf("wrong error detail: %+v", tooLarge)
	}
	if eng.EncodeCalls != 0 {
		t.Fatalf("engine must not be called for oversized payloads, got %d calls", eng.EncodeCalls)
	}
}

func TestEncodeClampsVolume(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	if _, err := inst.Encode([]byte("x"), codec.ProtocolDTNormal, 250); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if eng.LastVolume != codec.MaxVolume {
		t.Fatalf("volume not clamped up: engine saw %d", eng.LastVolume)
	}

	if _, err := inst.Encode([]byte("x"), codec.ProtocolDTNormal, -10); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if eng.LastVolume != codec.MinVolume {
		t.Fatalf("volume not clamped down: engine saw %d", eng.LastVolume)
	}
}

func TestDecodeBufferTooSmall(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	payload := []byte("twelve bytes")
	waveform, err := inst.Encode(payload, codec.ProtocolAudibleFast, codec.DefaultVolume)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	short := make([]byte, len(payload)-1)
	_, err = inst.Decode(waveform, short)

	var tooSmall *codec.BufferTooSmallError
	if !errors.As(err, &tooSmall) {
		t.Fatalf("expected BufferTooSmallError, got %v", err)
	}
	if tooSmall.Required != len(payload) {
		t.Fatalf("required length %d, want %d", tooSmall.Required, len(payload))
	}
	if tooSmall.Provided != len(short) {
		t.Fatalf("provided length %d, want %d", tooSmall.Provided, len(short))
	}

	// Retrying with the reported size must succeed.
	retry := make([]byte, tooSmall.Required)
	n, err := inst.Decode(waveform, retry)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !bytes.Equal(retry[:n], payload) {
		t.Fatalf("retry mismatch: got %q, want %q", retry[:n], payload)
	}
}

func TestDecodeNoMessageYet(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	// Plain noise: valid sample layout, no message in it.
	noise := codec.Float32Bytes(make([]float32, 1024))

	buf := make([]byte, codec.MaxDataSize)
	n, err := inst.Decode(noise, buf)
	if err != nil {
		t.Fatalf("noise must not be a decode error: %v", err)
	}
	if n != 0 {
		t.Fatalf("decoded %d bytes out of noise", n)
	}
}

func TestDecodeTruncatedWaveform(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	waveform, err := inst.Encode([]byte("incomplete"), codec.ProtocolMTNormal, codec.DefaultVolume)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	buf := make([]byte, codec.MaxDataSize)
	n, err := inst.Decode(waveform[:len(waveform)-8], buf)
	if err != nil {
		t.Fatalf("truncated waveform must read as no-message-yet: %v", err)
	}
	if n != 0 {
		t.Fatalf("decoded %d bytes from a truncated waveform", n)
	}
}

func TestOperatingModeEnforced(t *testing.T) {
	eng := enginetest.New()

	txOnly := newTestInstance(t, eng, codec.WithOperatingMode(codec.ModeTx))
	defer txOnly.Close()
	if _, err := txOnly.Decode(nil, nil); !errors.Is(err, codec.ErrRxDisabled) {
		t.Fatalf("decode on tx-only instance: got %v, want ErrRxDisabled", err)
	}

	rxOnly := newTestInstance(t, eng, codec.WithOperatingMode(codec.ModeRx))
	defer rxOnly.Close()
	if _, err := rxOnly.Encode([]byte("x"), codec.ProtocolAudibleNormal, 50); !errors.Is(err, codec.ErrTxDisabled) {
		t.Fatalf("encode on rx-only instance: got %v, want ErrTxDisabled", err)
	}
}

func TestRxProtocolToggle(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	waveform, err := inst.Encode([]byte("selective"), codec.ProtocolUltrasoundFast, codec.DefaultVolume)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// Disable everything except one unrelated protocol.
	for _, p := range codec.Protocols() {
		if err := inst.SetRxProtocolEnabled(p, p == codec.ProtocolAudibleNormal); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}
	if inst.RxProtocolEnabled(codec.ProtocolUltrasoundFast) {
		t.Fatal("toggle not reflected in the instance mask")
	}

	buf := make([]byte, codec.MaxDataSize)
	n, err := inst.Decode(waveform, buf)
	if err != nil {
		t.Fatalf("decode errored instead of staying silent: %v", err)
	}
	if n != 0 {
		t.Fatalf("decoded %d bytes on a disabled protocol", n)
	}

	// Re-enabling restores detection; other protocols keep their state.
	if err := inst.SetRxProtocolEnabled(codec.ProtocolUltrasoundFast, true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	n, err = inst.Decode(waveform, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(buf[:n]) != "selective" {
		t.Fatalf("got %q after re-enabling", buf[:n])
	}
	if inst.RxProtocolEnabled(codec.ProtocolAudibleFast) {
		t.Fatal("audible-fast should still be disabled")
	}
}

func TestTxProtocolToggle(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	if err := inst.SetTxProtocolEnabled(codec.ProtocolDTFast, false); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if inst.TxProtocolEnabled(codec.ProtocolDTFast) {
		t.Fatal("toggle not reflected in the instance mask")
	}

	if _, err := inst.Encode([]byte("x"), codec.ProtocolDTFast, 50); !errors.Is(err, codec.ErrEncodeFailed) {
		t.Fatalf("encode on a disabled tx protocol: got %v, want ErrEncodeFailed", err)
	}

	if err := inst.SetTxProtocolEnabled(codec.ProtocolDTFast, true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := inst.Encode([]byte("x"), codec.ProtocolDTFast, 50); err != nil {
		t.Fatalf("encode after re-enabling failed: %v", err)
	}
}

func TestCloseExactlyOnce(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)

	if err := inst.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := inst.Close(); !errors.Is(err, codec.ErrClosed) {
		t.Fatalf("second close: got %v, want ErrClosed", err)
	}
	if eng.FreeCalls != 1 {
		t.Fatalf("engine freed %d times", eng.FreeCalls)
	}
	if eng.BadFrees != 0 {
		t.Fatalf("%d frees hit unknown instances", eng.BadFrees)
	}

	if _, err := inst.Encode([]byte("x"), codec.ProtocolAudibleNormal, 50); !errors.Is(err, codec.ErrClosed) {
		t.Fatalf("encode after close: got %v, want ErrClosed", err)
	}
	if _, err := inst.Decode(nil, nil); !errors.Is(err, codec.ErrClosed) {
		t.Fatalf("decode after close: got %v, want ErrClosed", err)
	}
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	eng := enginetest.New()

	tests := []struct {
		name   string
		mutate func(*codec.Parameters)
	}{
		{"zero sample rate", func(p *codec.Parameters) { p.SampleRate = 0 }},
		{"negative input rate", func(p *codec.Parameters) { p.SampleRateInp = -48000 }},
		{"bad input format", func(p *codec.Parameters) { p.SampleFormatInp = codec.SampleFormat(99) }},
		{"bad output format", func(p *codec.Parameters) { p.SampleFormatOut = codec.FormatUndefined }},
		{"zero mode", func(p *codec.Parameters) { p.OperatingMode = 0 }},
		{"unknown mode bits", func(p *codec.Parameters) { p.OperatingMode = 1 << 9 }},
		{"oversized fixed payload", func(p *codec.Parameters) { p.PayloadLength = codec.MaxLengthFixed + 1 }},
	}

	for _, tc := range tests {
		params := codec.DefaultParameters()
		tc.mutate(&params)
		_, err := codec.New(codec.WithEngine(eng), codec.WithParameters(params))
		if !errors.Is(err, codec.ErrInvalidParameters) {
			t.Fatalf("%s: got %v, want ErrInvalidParameters", tc.name, err)
		}
	}
	if eng.EncodeCalls != 0 || eng.FreeCalls != 0 {
		t.Fatal("invalid parameters must never reach the engine")
	}
}

func TestNewReportsEngineRefusal(t *testing.T) {
	eng := enginetest.New()
	eng.FailInit = true

	_, err := codec.New(codec.WithEngine(eng))
	if !errors.Is(err, codec.ErrInitFailed) {
		t.Fatalf("got %v, want ErrInitFailed", err)
	}
	if eng.FreeCalls != 0 {
		t.Fatal("a refused init must not be freed")
	}
}

func TestFixedPayloadLengthLimit(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng, codec.WithFixedPayloadLength(16))
	defer inst.Close()

	if got := inst.MaxPayloadLength(); got != 16 {
		t.Fatalf("max payload length %d, want 16", got)
	}
	_, err := inst.Encode(make([]byte, 17), codec.ProtocolAudibleNormal, 50)
	var tooLarge *codec.PayloadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("got %v, want PayloadTooLargeError", err)
	}
}

func TestDecodeToString(t *testing.T) {
	eng := enginetest.New()
	inst := newTestInstance(t, eng)
	defer inst.Close()

	waveform, err := inst.Encode([]byte("text message"), codec.ProtocolAudibleNormal, codec.DefaultVolume)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := inst.DecodeToString(waveform)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != "text message" {
		t.Fatalf("got %q", got)
	}
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	samples := []float32{0, 1, -1, 0.5, -0.25, 3.1415927}
	back, err := codec.BytesFloat32(codec.Float32Bytes(samples))
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	for i := range samples {
		if back[i] != samples[i] {
			t.Fatalf("sample %d: got %v, want %v", i, back[i], samples[i])
		}
	}

	if _, err := codec.BytesFloat32(make([]byte, 5)); err == nil {
		t.Fatal("odd byte length must be rejected")
	}
}
