package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// ProtocolID identifies a transmission protocol (a modulation scheme and
// speed/reliability tradeoff). The values are opaque codes defined by the
// engine; always use the named constants below instead of constructing
// values ad hoc.
type ProtocolID int32

const (
	ProtocolAudibleNormal ProtocolID = iota
	ProtocolAudibleFast
	ProtocolAudibleFastest
	ProtocolUltrasoundNormal
	ProtocolUltrasoundFast
	ProtocolUltrasoundFastest
	ProtocolDTNormal
	ProtocolDTFast
	ProtocolDTFastest
	ProtocolMTNormal
	ProtocolMTFast
	ProtocolMTFastest
	ProtocolCustom0
	ProtocolCustom1
	ProtocolCustom2
	ProtocolCustom3
	ProtocolCustom4
	ProtocolCustom5
	ProtocolCustom6
	ProtocolCustom7
	ProtocolCustom8
	ProtocolCustom9

	protocolCount
)

var protocolNames = map[ProtocolID]string{
	ProtocolAudibleNormal:     "audible-normal",
	ProtocolAudibleFast:       "audible-fast",
	ProtocolAudibleFastest:    "audible-fastest",
	ProtocolUltrasoundNormal:  "ultrasound-normal",
	ProtocolUltrasoundFast:    "ultrasound-fast",
	ProtocolUltrasoundFastest: "ultrasound-fastest",
	ProtocolDTNormal:          "dt-normal",
	ProtocolDTFast:            "dt-fast",
	ProtocolDTFastest:         "dt-fastest",
	ProtocolMTNormal:          "mt-normal",
	ProtocolMTFast:            "mt-fast",
	ProtocolMTFastest:         "mt-fastest",
}

func (p ProtocolID) String() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	if p >= ProtocolCustom0 && p <= ProtocolCustom9 {
		return fmt.Sprintf("custom-%d", p-ProtocolCustom0)
	}
	return fmt.Sprintf("protocol(%d)", int32(p))
}

// Valid reports whether p is a protocol code the engine knows about.
func (p ProtocolID) Valid() bool {
	return p >= ProtocolAudibleNormal && p < protocolCount
}

// Protocols returns the catalog of named (non-custom) protocols.
func Protocols() []ProtocolID {
	return []ProtocolID{
		ProtocolAudibleNormal,
		ProtocolAudibleFast,
		ProtocolAudibleFastest,
		ProtocolUltrasoundNormal,
		ProtocolUltrasoundFast,
		ProtocolUltrasoundFastest,
		ProtocolDTNormal,
		ProtocolDTFast,
		ProtocolDTFastest,
		ProtocolMTNormal,
		ProtocolMTFast,
		ProtocolMTFastest,
	}
}

// ProtocolByName resolves a protocol name as printed by String, e.g.
// "audible-fast" or "ultrasound-normal".
func ProtocolByName(name string) (ProtocolID, error) {
	for id, n := range protocolNames {
		if n == name {
			return id, nil
		}
	}
	if rest, ok := strings.CutPrefix(name, "custom-"); ok {
		custom, err := strconv.Atoi(rest)
		// require the canonical form: a single digit, no sign, no padding
		if err == nil && custom >= 0 && custom <= 9 && rest == strconv.Itoa(custom) {
			return ProtocolCustom0 + ProtocolID(custom), nil
		}
	}
	return 0, fmt.Errorf("unknown protocol %q", name)
}
