//go:build cgo

package codec

/*
#cgo LDFLAGS: -lggwave -lstdc++ -lm
#include <ggwave/ggwave.h>
*/
import "C"

import "unsafe"

// cEngine binds the ggwave C library. It is stateless on the Go side; all
// state lives behind the instance ids handed out by ggwave_init.
type cEngine struct{}

func defaultEngine() (Engine, error) {
	return cEngine{}, nil
}

func (cEngine) Init(p Parameters) int {
	cp := C.ggwave_Parameters{
		payloadLength:        C.int(p.PayloadLength),
		sampleRateInp:        C.float(p.SampleRateInp),
		sampleRateOut:        C.float(p.SampleRateOut),
		sampleRate:           C.float(p.SampleRate),
		samplesPerFrame:      C.int(p.SamplesPerFrame),
		soundMarkerThreshold: C.float(p.SoundMarkerThreshold),
		sampleFormatInp:      C.ggwave_SampleFormat(p.SampleFormatInp),
		sampleFormatOut:      C.ggwave_SampleFormat(p.SampleFormatOut),
		operatingMode:        C.int(p.OperatingMode),
	}
	return int(C.ggwave_init(cp))
}

func (cEngine) Free(instance int) {
	C.ggwave_free(C.ggwave_Instance(instance))
}

func (cEngine) Encode(instance int, payload []byte, protocol ProtocolID, volume int, dst []byte, sizeOnly bool) int {
	var src, out unsafe.Pointer
	if len(payload) > 0 {
		src = unsafe.Pointer(&payload[0])
	}
	if len(dst) > 0 {
		out = unsafe.Pointer(&dst[0])
	}
	query := C.int(0)
	if sizeOnly {
		query = 1 // size query, answered in bytes
	}
	return int(C.ggwave_encode(
		C.ggwave_Instance(instance),
		src, C.int(len(payload)),
		C.ggwave_ProtocolId(protocol),
		C.int(volume),
		out, query))
}

func (cEngine) Decode(instance int, waveform []byte, dst []byte) int {
	var in, out unsafe.Pointer
	if len(waveform) > 0 {
		in = unsafe.Pointer(&waveform[0])
	}
	if len(dst) > 0 {
		out = unsafe.Pointer(&dst[0])
	}
	return int(C.ggwave_ndecode(
		C.ggwave_Instance(instance),
		in, C.int(len(waveform)),
		out, C.int(len(dst))))
}

func (cEngine) ToggleRxProtocol(p ProtocolID, enabled bool) {
	C.ggwave_rxToggleProtocol(C.ggwave_ProtocolId(p), cBool(enabled))
}

func (cEngine) ToggleTxProtocol(p ProtocolID, enabled bool) {
	C.ggwave_txToggleProtocol(C.ggwave_ProtocolId(p), cBool(enabled))
}

func (cEngine) RxProtocolSetFreqStart(p ProtocolID, freqStart int) {
	C.ggwave_rxProtocolSetFreqStart(C.ggwave_ProtocolId(p), C.int(freqStart))
}

func (cEngine) TxProtocolSetFreqStart(p ProtocolID, freqStart int) {
	C.ggwave_txProtocolSetFreqStart(C.ggwave_ProtocolId(p), C.int(freqStart))
}

func (cEngine) RxDurationFrames(instance int) int {
	return int(C.ggwave_rxDurationFrames(C.ggwave_Instance(instance)))
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
