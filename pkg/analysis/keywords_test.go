package analysis

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"event management, event planning, event planner", []string{"event management", "event planning", "event planner"}},
		{"  spaced   out ,, trailing,", []string{"spaced out", "trailing"}},
		{"Go, go, GO, golang", []string{"Go", "golang"}},
		// "e" + combining acute normalizes to the precomposed form.
		{"cafe\u0301, caf\u00e9", []string{"caf\u00e9"}},
	}

	for _, test := range tests {
		got, err := ParseKeywords(test.input)
		if err != nil {
			t.Errorf("ParseKeywords(%q) returned error: %v", test.input, err)
			continue
		}
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("ParseKeywords(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestParseKeywords_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", ", ,,"} {
		_, err := ParseKeywords(input)
		if !errors.Is(err, ErrNoKeywords) {
			t.Errorf("ParseKeywords(%q): expected ErrNoKeywords, got %v", input, err)
		}
	}
}
