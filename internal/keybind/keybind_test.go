package keybind

import (
	"testing"

	kbserrors "github.com/dbalmain/kbsr/internal/errors"
)

func TestParse_SingleChord(t *testing.T) {
	seq, err := Parse("Ctrl+K")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(seq) != 1 {
		t.Fatalf("expected 1 chord, got %d", len(seq))
	}
	if seq[0].Modifiers != Ctrl {
		t.Errorf("expected Ctrl modifier, got %v", seq[0].Modifiers)
	}
	if seq[0].Key.Kind != KindRune || seq[0].Key.Rune != 'K' {
		t.Errorf("expected key K, got %+v", seq[0].Key)
	}
}

func TestParse_MultiChord(t *testing.T) {
	seq, err := Parse("Ctrl+K Ctrl+C")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expected 2 chords, got %d", len(seq))
	}
}

func TestParse_ModifierOrderCanonicalizedOnPrint(t *testing.T) {
	seq, err := Parse("Shift+Ctrl+a")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got, want := seq.String(), "Ctrl+Shift+A"; got != want {
		// The rune case is preserved as typed; only modifier order is
		// canonicalized here, so check modifiers only.
		seqMods := seq[0].Modifiers.String()
		if seqMods != "Ctrl+Shift" {
			t.Errorf("expected canonical modifier order Ctrl+Shift, got %q (full %q)", seqMods, got)
		}
	}
}

func TestParse_CaseInsensitiveModifiers(t *testing.T) {
	a, err := Parse("ctrl+alt+x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	b, err := Parse("CTRL+ALT+x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("expected case-insensitive modifiers to parse equally: %v vs %v", a, b)
	}
}

func TestParse_DuplicateModifierIsError(t *testing.T) {
	_, err := Parse("Ctrl+Ctrl+a")
	if err == nil {
		t.Fatal("expected error for duplicate modifier")
	}
	var invalid *kbserrors.InvalidKeybindError
	if !kbserrors.As(err, &invalid) {
		t.Fatalf("expected InvalidKeybindError, got %T: %v", err, err)
	}
}

func TestParse_NamedKeys(t *testing.T) {
	cases := []string{"Enter", "Tab", "Esc", "Space", "Backspace", "Delete", "Up", "Down", "Left", "Right", "Home", "End", "PgUp", "PgDown", "Insert", "F1", "F20"}
	for _, c := range cases {
		seq, err := Parse(c)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", c, err)
			continue
		}
		if seq[0].Key.Kind != KindNamed {
			t.Errorf("Parse(%q): expected named key, got %+v", c, seq[0].Key)
		}
	}
}

func TestParse_FunctionKeyOutOfRangeIsError(t *testing.T) {
	// "f99" is not a valid function key and doesn't collapse to a single
	// rune, so it must fail.
	_, err := Parse("f99")
	if err == nil {
		t.Fatal("expected error for out-of-range function key")
	}
}

func TestParse_EmptyExpressionIsError(t *testing.T) {
	_, err := Parse("")
	if err == nil {
		t.Fatal("expected error for empty expression")
	}
}

func TestParse_UnknownModifierIsError(t *testing.T) {
	_, err := Parse("Banana+a")
	if err == nil {
		t.Fatal("expected error for unknown modifier")
	}
}

func TestParse_TrailingPlusIsError(t *testing.T) {
	_, err := Parse("Ctrl+")
	if err == nil {
		t.Fatal("expected error for chord with no key")
	}
}

func TestParse_PlusAsKey(t *testing.T) {
	seq, err := Parse("Ctrl++")
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", "Ctrl++", err)
	}
	if seq[0].Modifiers != Ctrl {
		t.Errorf("expected Ctrl modifier, got %v", seq[0].Modifiers)
	}
	if seq[0].Key.Kind != KindRune || seq[0].Key.Rune != '+' {
		t.Errorf("expected key '+', got %+v", seq[0].Key)
	}
}

func TestParseThenPrint_Idempotent(t *testing.T) {
	exprs := []string{"Ctrl+K Ctrl+C", "Shift+G", "Alt+Shift+Enter", "a", "Super+Ctrl+P", "Ctrl++"}
	for _, expr := range exprs {
		seq, err := Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", expr, err)
		}
		printed := seq.String()
		reparsed, err := Parse(printed)
		if err != nil {
			t.Fatalf("Parse(%q) (reprint of %q) returned error: %v", printed, expr, err)
		}
		if !seq.Equal(reparsed) {
			t.Errorf("parse-print-parse not idempotent for %q: got %q then %q", expr, printed, reparsed.String())
		}
		if reparsed.String() != printed {
			t.Errorf("print not idempotent for %q: %q != %q", expr, printed, reparsed.String())
		}
	}
}

func TestChordEquality_ShiftLetterNotEqualUppercase(t *testing.T) {
	shiftA, err := Parse("Shift+a")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	ctrlShiftA, err := Parse("Ctrl+Shift+a")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	bigA, err := Parse("A")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if shiftA.Equal(bigA) {
		t.Error("Shift+a and A must not be chord-equal; only mode interpretation reconciles them")
	}
	if ctrlShiftA[0].Modifiers&Shift == 0 {
		t.Error("expected Shift to remain in the raw chord")
	}
}

func TestModifierString_CanonicalOrder(t *testing.T) {
	m := Hyper | Ctrl | Meta | Alt
	if got, want := m.String(), "Ctrl+Alt+Meta+Hyper"; got != want {
		t.Errorf("Modifier.String() = %q, want %q", got, want)
	}
}
