package testutils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingT captures asserter failures instead of failing the test
type recordingT struct {
	failures []string
}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestTextAsserter(t *testing.T) {
	t.Run("identical text passes", func(t *testing.T) {
		rt := &recordingT{}
		NewTextAsserter(rt).Assert("Device: blimp\n", "Device: blimp\n")
		assert.Empty(t, rt.failures)
	})

	t.Run("difference reports unified diff", func(t *testing.T) {
		rt := &recordingT{}
		NewTextAsserter(rt).Assert("Period: 1s\n", "Period: 2s\n")
		assert.Len(t, rt.failures, 1)
		assert.Contains(t, rt.failures[0], "-Period: 2s")
		assert.Contains(t, rt.failures[0], "+Period: 1s")
	})

	t.Run("normalization options", func(t *testing.T) {
		rt := &recordingT{}
		NewTextAsserter(rt).
			WithOptions(WithTrimSpace(true), WithIgnoreTrailingWhitespace(true)).
			Assert("\n  a   \nb\t\n\n", "  a\nb")
		assert.Empty(t, rt.failures, "trim and trailing whitespace MUST be ignored when enabled")
	})

	t.Run("colours make whitespace visible", func(t *testing.T) {
		rt := &recordingT{}
		NewTextAsserter(rt).WithOptions(WithEnableColors(true)).Assert("a b", "a  b")
		assert.Len(t, rt.failures, 1)
		assert.True(t, strings.Contains(rt.failures[0], "a··b"), "changed lines MUST show spaces")
		assert.Contains(t, rt.failures[0], "\x1b[")
	})
}

func TestJSONAsserter(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		actual   string
		expected string
		fail     bool
	}{
		{
			name:     "extra keys ignored by default",
			actual:   `{"uuid": "180F", "size": 4}`,
			expected: `{"uuid": "180F"}`,
		},
		{
			name:     "extra keys reported when strict",
			opts:     []Option{WithIgnoreExtraKeys(false)},
			actual:   `{"uuid": "180F", "size": 4}`,
			expected: `{"uuid": "180F"}`,
			fail:     true,
		},
		{
			name:     "presence placeholder matches any value",
			actual:   `{"at": "2024-01-02T15:04:05Z", "peer": "aa"}`,
			expected: `{"at": "<<PRESENCE>>", "peer": "aa"}`,
		},
		{
			name:     "presence placeholder requires the key",
			actual:   `{"peer": "aa"}`,
			expected: `{"at": "<<PRESENCE>>", "peer": "aa"}`,
			fail:     true,
		},
		{
			name:     "ignored fields at any depth",
			opts:     []Option{WithIgnoredFields("count")},
			actual:   `{"service": {"characteristics": [{"uuid": "2A19", "count": 3}]}}`,
			expected: `{"service": {"characteristics": [{"uuid": "2A19", "count": 1}]}}`,
		},
		{
			name:     "value mismatch",
			actual:   `{"size": 2}`,
			expected: `{"size": 4}`,
			fail:     true,
		},
		{
			name:     "invalid actual",
			actual:   `not json`,
			expected: `{}`,
			fail:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &recordingT{}
			NewJSONAsserter(rt).WithOptions(tt.opts...).Assert(tt.actual, tt.expected)
			if tt.fail {
				assert.Len(t, rt.failures, 1)
			} else {
				assert.Empty(t, rt.failures)
			}
		})
	}
}
