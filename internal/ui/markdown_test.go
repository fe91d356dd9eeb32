package ui

import "testing"

func TestRenderMarkdown_Plain(t *testing.T) {
	md := "# Week 2\n\n- 3 workouts\n"
	if got := RenderMarkdown(md, true); got != md {
		t.Errorf("plain render changed input: %q", got)
	}
}

func TestRenderMarkdown_NonTTY(t *testing.T) {
	// go test never runs with stdout attached to a terminal.
	md := "**bold**"
	if got := RenderMarkdown(md, false); got != md {
		t.Errorf("non-tty render = %q", got)
	}
}
