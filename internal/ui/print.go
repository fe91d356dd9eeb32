package ui

import (
	"fmt"
	"os"
	"strings"
)

// Puts prints a line to stdout.
func Puts(s string) {
	fmt.Println(s)
}

// Putsf prints a formatted line to stdout.
func Putsf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// Warn prints a warning message.
func Warn(msg string) {
	fmt.Println(Warning.Render(IconWarn + msg))
}

// Err prints an error message to stderr.
func Err(msg string) {
	fmt.Fprintln(os.Stderr, Error.Bold(true).Render(IconError+msg))
}

// Ok prints a success message.
func Ok(msg string) {
	fmt.Println(Success.Render(IconOk + msg))
}

// Inf prints an info message.
func Inf(msg string) {
	fmt.Println(Info.Render("  " + msg))
}

// Header prints a section header.
func Header(s string) {
	fmt.Println()
	fmt.Println(Title.Render(s))
	fmt.Println(Muted.Render(strings.Repeat("─", len(s)+2)))
}

// Tip prints a helpful tip.
func Tip(msg string) {
	fmt.Println()
	fmt.Println(Muted.Render("  tip: " + msg))
}

// Kv prints a key-value pair, padded.
func Kv(key string, value string) {
	k := KeyStyle.Render(fmt.Sprintf("  %-14s", key))
	v := ValueStyle.Render(value)
	fmt.Printf("%s %s\n", k, v)
}

// Weight formats kilograms without trailing zeros.
func Weight(kg float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", kg), "0"), ".")
	return s + " kg"
}

// Volume formats a tonnage figure with thousands separators.
func Volume(kg float64) string {
	n := int64(kg + 0.5)
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + " kg"
}

// Plural returns "n word" with a naive English plural.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
