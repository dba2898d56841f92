package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
)

var inputTheme = huh.ThemeBase16()

// Option is one choice offered by Choose.
type Option struct {
	ID       string
	Text     string
	Selected bool
}

// HuhPrompter asks questions with interactive huh forms. Alerts are printed.
type HuhPrompter struct {
	out io.Writer
}

// NewHuhPrompter returns a prompter for an interactive terminal.
func NewHuhPrompter(out io.Writer) *HuhPrompter {
	return &HuhPrompter{out: out}
}

func (p *HuhPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var confirm bool
	if err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		WithTheme(inputTheme).
		Run(); err != nil {
		return false, err
	}
	return confirm, nil
}

func (p *HuhPrompter) Alert(ctx context.Context, message string) error {
	ShowInfo(p.out, "%s", message)
	return nil
}

func (p *HuhPrompter) Input(ctx context.Context, label string, value string) (string, error) {
	if err := ctx.Err(); err != nil {
		return value, err
	}
	if err := huh.NewInput().
		Title(label).
		Prompt("> ").
		Value(&value).
		WithTheme(inputTheme).
		Run(); err != nil {
		return value, err
	}
	return value, nil
}

func (p *HuhPrompter) Choose(ctx context.Context, title string, items []Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var selected string
	opts := make([]huh.Option[string], 0, len(items))
	for _, item := range items {
		opts = append(opts, huh.NewOption(item.Text, item.ID).Selected(item.Selected))
	}
	if err := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&selected).
		Run(); err != nil {
		return "", err
	}
	return selected, nil
}

// LinePrompter reads answers line by line, for pipes and scripts. With
// assumeYes every confirmation is accepted without reading.
type LinePrompter struct {
	mu        sync.Mutex
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewLinePrompter returns a prompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer, assumeYes bool) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (p *LinePrompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (p *LinePrompter) Confirm(ctx context.Context, message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.assumeYes {
		fmt.Fprintf(p.out, "%s %s\n", message, Muted("yes"))
		return true, nil
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, ok := p.readLine()
	if !ok {
		fmt.Fprintln(p.out)
		return false, nil
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *LinePrompter) Alert(ctx context.Context, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ShowInfo(p.out, "%s", message)
	return nil
}

func (p *LinePrompter) Input(ctx context.Context, label string, value string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return value, err
	}
	if value != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, value)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, ok := p.readLine()
	if !ok || line == "" {
		return value, nil
	}
	return line, nil
}

func (p *LinePrompter) Choose(ctx context.Context, title string, items []Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintln(p.out, title)
	for i, item := range items {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, item.Text)
	}
	fmt.Fprint(p.out, "> ")
	line, ok := p.readLine()
	if !ok {
		return "", io.EOF
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(items) {
		return items[n-1].ID, nil
	}
	for _, item := range items {
		if strings.EqualFold(line, item.ID) {
			return item.ID, nil
		}
	}
	return "", errors.Newf("no choice %q", line)
}
