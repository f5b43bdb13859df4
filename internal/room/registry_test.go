package room

import (
	"strings"
	"testing"
)

func TestRegistryCreateAssignsCode(t *testing.T) {
	g := NewRegistry()
	r, err := g.Create("host")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if len(r.Code) != codeLength {
		t.Fatalf("code = %q, want %d characters", r.Code, codeLength)
	}
	for _, c := range r.Code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Fatalf("code %q contains %q outside the alphabet", r.Code, c)
		}
	}
	if g.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", g.Len())
	}
}

func TestRegistryCodesAvoidAmbiguousCharacters(t *testing.T) {
	g := NewRegistry()
	for i := 0; i < 50; i++ {
		r, err := g.Create("host")
		if err != nil {
			t.Fatalf("create room: %v", err)
		}
		if strings.ContainsAny(r.Code, "IO01L") {
			t.Fatalf("code %q contains an ambiguous character", r.Code)
		}
	}
}

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	g := NewRegistry()
	r, err := g.Create("host")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if got, ok := g.Lookup(strings.ToLower(r.Code)); !ok || got != r {
		t.Fatalf("lowercase lookup failed for %q", r.Code)
	}
	if got, ok := g.Lookup(" " + r.Code + " "); !ok || got != r {
		t.Fatal("expected lookup to trim surrounding whitespace")
	}
}

func TestRegistryLookupUnknownCode(t *testing.T) {
	g := NewRegistry()
	if _, ok := g.Lookup("ZZZZZ"); ok {
		t.Fatal("expected unknown code to miss")
	}
}

func TestRegistryDeleteIfEmpty(t *testing.T) {
	g := NewRegistry()
	r, err := g.Create("host")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	g.DeleteIfEmpty(r.Code)
	if g.Len() != 1 {
		t.Fatal("room with members must survive DeleteIfEmpty")
	}

	r.Leave("host")
	g.DeleteIfEmpty(r.Code)
	if g.Len() != 0 {
		t.Fatal("empty room must be removed")
	}
	if _, ok := g.Lookup(r.Code); ok {
		t.Fatal("deleted code must not resolve")
	}
}
