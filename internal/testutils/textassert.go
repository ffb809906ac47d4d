package testutils

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/mcuadros/go-defaults"
)

// TestingT is the subset of testing.T the asserters report through
type TestingT interface {
	Errorf(format string, args ...interface{})
}

type TextAssertOptions struct {
	IgnoreTrailingWhitespace bool `default:"false"`
	TrimSpace                bool `default:"false"`
	EnableColors             bool `default:"false"`
}

// TextOption is a functional option for configuring TextAsserter
type TextOption func(*TextAssertOptions)

// TextAsserter compares CLI output line by line and reports a unified diff
type TextAsserter struct {
	t       TestingT
	options TextAssertOptions
}

// NewTextAsserter creates a new TextAsserter with default options
func NewTextAsserter(t TestingT) *TextAsserter {
	opts := TextAssertOptions{}
	defaults.SetDefaults(&opts)
	return &TextAsserter{t: t, options: opts}
}

// WithOptions applies functional options to the TextAsserter
func (ta *TextAsserter) WithOptions(opts ...TextOption) *TextAsserter {
	for _, opt := range opts {
		opt(&ta.options)
	}
	return ta
}

// Assert compares actual text against expected text
func (ta *TextAsserter) Assert(actual, expected string) {
	if diff := ta.diff(actual, expected); diff != "" {
		ta.t.Errorf("Text assertion failed - unified diff:\n%s", diff)
	}
}

func (ta *TextAsserter) diff(actual, expected string) string {
	actual = ta.normalize(actual)
	expected = ta.normalize(expected)
	if actual == expected {
		return ""
	}

	edits := myers.ComputeEdits("", expected, actual)
	unified := fmt.Sprint(gotextdiff.ToUnified("expected", "actual", expected, edits))
	if !ta.options.EnableColors {
		return unified
	}
	return colorizeUnifiedDiff(unified)
}

// colorizeUnifiedDiff colours hunks and makes whitespace in changed lines visible
func colorizeUnifiedDiff(diff string) string {
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	header := color.New(color.FgCyan)
	for _, c := range []*color.Color{removed, added, header} {
		c.EnableColor()
	}

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "@@"):
			lines[i] = header.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removed.Sprint(visibleWhitespace(line))
		case strings.HasPrefix(line, "+"):
			lines[i] = added.Sprint(visibleWhitespace(line))
		}
	}
	return strings.Join(lines, "\n")
}

func visibleWhitespace(line string) string {
	return strings.NewReplacer(" ", "·", "\t", "→").Replace(line)
}

func (ta *TextAsserter) normalize(text string) string {
	if ta.options.TrimSpace {
		text = strings.TrimSpace(text)
	}
	if !ta.options.IgnoreTrailingWhitespace {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// WithIgnoreTrailingWhitespace sets whether to ignore trailing whitespace on each line
func WithIgnoreTrailingWhitespace(ignore bool) TextOption {
	return func(opts *TextAssertOptions) {
		opts.IgnoreTrailingWhitespace = ignore
	}
}

// WithTrimSpace sets whether to trim leading and trailing whitespace from entire text
func WithTrimSpace(trim bool) TextOption {
	return func(opts *TextAssertOptions) {
		opts.TrimSpace = trim
	}
}

// WithEnableColors sets whether to enable colored diff output
func WithEnableColors(enable bool) TextOption {
	return func(opts *TextAssertOptions) {
		opts.EnableColors = enable
	}
}
