package ui

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
)

func TestProfileFor_NonTTYIsASCII(t *testing.T) {
	var buf bytes.Buffer
	if p := ProfileFor(&buf, false); p != termenv.Ascii {
		t.Errorf("buffer profile = %v, want Ascii", p)
	}
}

func TestProfileFor_NoColor(t *testing.T) {
	var buf bytes.Buffer
	if p := ProfileFor(&buf, true); p != termenv.Ascii {
		t.Errorf("NO_COLOR profile = %v, want Ascii", p)
	}
}
