package postgres

import "testing"

func TestULIDGenerator_Generate(t *testing.T) {
	gen := NewULIDGenerator()

	a := gen.Generate()
	b := gen.Generate()

	if len(a) != 26 {
		t.Errorf("expected 26-char ULID, got %d chars", len(a))
	}
	if a == b {
		t.Error("expected successive ids to differ")
	}
}
