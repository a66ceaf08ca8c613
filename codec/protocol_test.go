package codec_test

import (
	"testing"

	"github.com/ggwave-go/ggwave/codec"
)

func TestProtocolCatalog(t *testing.T) {
	catalog := codec.Protocols()
	if len(catalog) != 12 {
		t.Fatalf("catalog has %d protocols, want 12", len(catalog))
	}

	seen := map[string]bool{}
	for _, p := range catalog {
		if !p.Valid() {
			t.Fatalf("catalog protocol %d reported invalid", p)
		}
		name := p.String()
		if seen[name] {
			t.Fatalf("duplicate protocol name %q", name)
		}
		seen[name] = true

		// Names must resolve back to the same code.
		got, err := codec.ProtocolByName(name)
		if err != nil {
			t.Fatalf("%q did not resolve: %v", name, err)
		}
		if got != p {
			t.Fatalf("%q resolved to %v, want %v", name, got, p)
		}
	}
}

func TestProtocolByNameCustom(t *testing.T) {
	p, err := codec.ProtocolByName("custom-7")
	if err != nil {
		t.Fatal(err)
	}
	if p != codec.ProtocolCustom7 {
		t.Fatalf("got %v, want ProtocolCustom7", p)
	}
	if p.String() != "custom-7" {
		t.Fatalf("String() = %q", p.String())
	}

	for _, bad := range []string{"custom-10", "custom--1", "custom-1x", "custom-+1", "custom-01", "custom-", "warbly", ""} {
		if _, err := codec.ProtocolByName(bad); err == nil {
			t.Fatalf("%q must not resolve", bad)
		}
	}
}

func TestProtocolValidBounds(t *testing.T) {
	if codec.ProtocolID(-1).Valid() {
		t.Fatal("-1 must be invalid")
	}
	if !codec.ProtocolCustom9.Valid() {
		t.Fatal("custom-9 must be valid")
	}
	if codec.ProtocolID(22).Valid() {
		t.Fatal("22 is past the catalog")
	}
}
