package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rnwolfe/grind/internal/ui"
)

// Choice is one selectable row.
type Choice struct {
	// Value is returned to the caller. Label is shown and searched.
	Value  string
	Label  string
	Detail string
}

type ranked struct {
	Choice
	score int
}

// Picker is a bubbletea model that filters choices as the user types.
// A query that matches nothing can still be accepted when free text is
// allowed, which lets a new exercise name be entered from the same prompt.
type Picker struct {
	title     string
	freeText  bool
	maxRows   int
	choices   []Choice
	matches   []ranked
	query     string
	cursor    int
	offset    int
	picked    *Choice
	cancelled bool
	height    int
}

// NewPicker builds a picker over choices.
func NewPicker(title string, choices []Choice, freeText bool) *Picker {
	p := &Picker{title: title, choices: choices, freeText: freeText, maxRows: 10, height: 24}
	p.filter()
	return p
}

// Pick runs a picker and returns the selection. ok is false when cancelled.
func Pick(title string, choices []Choice, freeText bool) (Choice, bool, error) {
	p := NewPicker(title, choices, freeText)
	res, err := tea.NewProgram(p).Run()
	if err != nil {
		return Choice{}, false, fmt.Errorf("picker: %w", err)
	}
	final := res.(*Picker)
	if final.cancelled || final.picked == nil {
		return Choice{}, false, nil
	}
	return *final.picked, true, nil
}

// Interactive reports whether stdin and stdout are both terminals.
func Interactive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.height = msg.Height
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.cancelled = true
			return p, tea.Quit
		case tea.KeyEnter:
			p.accept()
			if p.picked != nil {
				return p, tea.Quit
			}
		case tea.KeyUp, tea.KeyCtrlP:
			p.move(-1)
		case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
			p.move(1)
		case tea.KeyBackspace:
			if r := []rune(p.query); len(r) > 0 {
				p.query = string(r[:len(r)-1])
				p.filter()
			}
		case tea.KeySpace:
			p.query += " "
			p.filter()
		case tea.KeyRunes:
			p.query += string(msg.Runes)
			p.filter()
		}
	}
	return p, nil
}

func (p *Picker) accept() {
	if len(p.matches) > 0 {
		c := p.matches[p.cursor].Choice
		p.picked = &c
		return
	}
	if q := strings.TrimSpace(p.query); p.freeText && q != "" {
		p.picked = &Choice{Value: q, Label: q}
	}
}

func (p *Picker) move(delta int) {
	n := p.cursor + delta
	if n < 0 || n >= len(p.matches) {
		return
	}
	p.cursor = n
	rows := p.rows()
	switch {
	case p.cursor < p.offset:
		p.offset = p.cursor
	case p.cursor >= p.offset+rows:
		p.offset = p.cursor - rows + 1
	}
}

func (p *Picker) rows() int {
	r := p.maxRows
	if r > p.height-6 {
		r = p.height - 6
	}
	if r < 3 {
		r = 3
	}
	return r
}

func (p *Picker) filter() {
	p.matches = p.matches[:0]
	for _, c := range p.choices {
		if ok, score := Match(p.query, c.Label); ok {
			p.matches = append(p.matches, ranked{Choice: c, score: score})
		}
	}
	sort.SliceStable(p.matches, func(i, j int) bool { return p.matches[i].score > p.matches[j].score })
	p.cursor, p.offset = 0, 0
}

func (p *Picker) View() string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString("  " + ui.Title.Render(p.title) + "\n\n")
	}
	prompt := lipgloss.NewStyle().Foreground(ui.Ember).Bold(true).Render("› ")
	b.WriteString("  " + prompt + p.query + ui.Muted.Render("▎") + "\n\n")

	end := p.offset + p.rows()
	if end > len(p.matches) {
		end = len(p.matches)
	}
	switch {
	case len(p.matches) == 0 && p.freeText && strings.TrimSpace(p.query) != "":
		b.WriteString("  " + ui.Muted.Render("enter to use ") + ui.Accent.Render(strings.TrimSpace(p.query)) + "\n")
	case len(p.matches) == 0:
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	}
	for i := p.offset; i < end; i++ {
		m := p.matches[i]
		pointer, label := "  ", m.Label
		if i == p.cursor {
			pointer = ui.Accent.Render(ui.IconArrow + " ")
			label = ui.KeyStyle.Render(label)
		}
		line := "  " + pointer + label
		if m.Detail != "" {
			line += "  " + ui.Muted.Render(m.Detail)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("  %d/%d %s ↑↓ move %s enter select %s esc cancel",
		len(p.matches), len(p.choices), ui.IconDot, ui.IconDot, ui.IconDot)) + "\n")
	return b.String()
}
