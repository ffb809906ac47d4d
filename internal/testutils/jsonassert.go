package testutils

import (
	"encoding/json"
	"fmt"

	"github.com/mcuadros/go-defaults"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// PresencePlaceholder in expected JSON matches any actual value of that key
const PresencePlaceholder = "<<PRESENCE>>"

type JSONAssertOptions struct {
	IgnoreExtraKeys          bool     `default:"true"`
	AllowPresencePlaceholder bool     `default:"true"`
	IgnoredFields            []string `default:""`
}

// Option is a functional option for configuring JSONAsserter
type Option func(*JSONAssertOptions)

// JSONAsserter compares JSON documents structurally and reports an ASCII diff
type JSONAsserter struct {
	t       TestingT
	options JSONAssertOptions
}

// NewJSONAsserter creates a new JSONAsserter with default options
func NewJSONAsserter(t TestingT) *JSONAsserter {
	opts := JSONAssertOptions{}
	defaults.SetDefaults(&opts)
	return &JSONAsserter{t: t, options: opts}
}

// WithOptions applies functional options to the JSONAsserter
func (ja *JSONAsserter) WithOptions(opts ...Option) *JSONAsserter {
	for _, opt := range opts {
		opt(&ja.options)
	}
	return ja
}

// Assert compares actualJSON against expectedJSON
func (ja *JSONAsserter) Assert(actualJSON, expectedJSON string) {
	if diff := ja.diff(actualJSON, expectedJSON); diff != "" {
		ja.t.Errorf("JSON assertion failed:\n%s", diff)
	}
}

func (ja *JSONAsserter) diff(actualJSON, expectedJSON string) string {
	var expected, actual map[string]any
	if err := json.Unmarshal([]byte(expectedJSON), &expected); err != nil {
		return fmt.Sprintf("invalid expected JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(actualJSON), &actual); err != nil {
		return fmt.Sprintf("invalid actual JSON: %v", err)
	}

	for _, field := range ja.options.IgnoredFields {
		walkPair(expected, actual, func(exp, act map[string]any) {
			delete(exp, field)
			delete(act, field)
		})
	}
	if ja.options.AllowPresencePlaceholder {
		walkPair(expected, actual, func(exp, act map[string]any) {
			for k, v := range exp {
				if s, ok := v.(string); ok && s == PresencePlaceholder {
					if av, present := act[k]; present {
						exp[k] = av
					}
				}
			}
		})
	}
	if ja.options.IgnoreExtraKeys {
		walkPair(expected, actual, func(exp, act map[string]any) {
			for k := range act {
				if _, ok := exp[k]; !ok {
					delete(act, k)
				}
			}
		})
	}

	d := gojsondiff.New().CompareObjects(expected, actual)
	if !d.Modified() {
		return ""
	}

	f := formatter.NewAsciiFormatter(expected, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	out, err := f.Format(d)
	if err != nil {
		return fmt.Sprintf("JSON diff formatting failed: %v", err)
	}
	return out
}

// walkPair visits every pair of objects found at the same path in both trees
func walkPair(expected, actual any, fn func(exp, act map[string]any)) {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return
		}
		fn(exp, act)
		for k := range exp {
			walkPair(exp[k], act[k], fn)
		}
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return
		}
		for i := range exp {
			if i < len(act) {
				walkPair(exp[i], act[i], fn)
			}
		}
	}
}

// WithIgnoreExtraKeys sets whether to ignore extra keys in actual JSON
func WithIgnoreExtraKeys(ignore bool) Option {
	return func(opts *JSONAssertOptions) {
		opts.IgnoreExtraKeys = ignore
	}
}

// WithAllowPresencePlaceholder sets whether PresencePlaceholder is honoured
func WithAllowPresencePlaceholder(allow bool) Option {
	return func(opts *JSONAssertOptions) {
		opts.AllowPresencePlaceholder = allow
	}
}

// WithIgnoredFields sets a list of field names to ignore at any depth
func WithIgnoredFields(fields ...string) Option {
	return func(opts *JSONAssertOptions) {
		opts.IgnoredFields = fields
	}
}
