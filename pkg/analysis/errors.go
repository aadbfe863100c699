package analysis

import (
	"encoding/json"
	"errors"
	"fmt"

	"trends-explorer/pkg/trend"
	"trends-explorer/pkg/trends"
)

// Kind is the category of an analysis failure.
type Kind string

const (
	KindNoKeywords      Kind = "no_keywords"
	KindDataUnavailable Kind = "data_unavailable"
	KindInvalidInput    Kind = "invalid_input"
)

// Scope names the step that failed.
type Scope string

const (
	ScopeInput    Scope = "input"
	ScopeOverview Scope = "overview"
	ScopeSeries   Scope = "series"
	ScopeClassify Scope = "classify"
	ScopeRegions  Scope = "regions"
	ScopeRelated  Scope = "related"
)

var (
	// ErrNoKeywords is returned before any fetch when the input holds no
	// keyword.
	ErrNoKeywords = errors.New("enter at least one keyword")

	// ErrTooManyKeywords wraps the overview error when more keywords are
	// requested than one comparison chart holds.
	ErrTooManyKeywords = errors.New("too many keywords for one chart")

	// ErrDataUnavailable and ErrInvalidInput alias the provider and
	// classifier sentinels so errors.Is works across packages.
	ErrDataUnavailable = trends.ErrDataUnavailable
	ErrInvalidInput    = trend.ErrInvalidInput
)

// Error is a typed, per-scope analysis failure.
type Error struct {
	Kind    Kind
	Scope   Scope
	Keyword string
	Err     error
}

func newError(kind Kind, scope Scope, keyword string, err error) *Error {
	return &Error{Kind: kind, Scope: scope, Keyword: keyword, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Keyword != "":
		return fmt.Sprintf("%s for keyword %q: %s", e.Scope, e.Keyword, msg)
	case e.Scope != "":
		return fmt.Sprintf("%s: %s", e.Scope, msg)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindNoKeywords:
		return target == ErrNoKeywords
	case KindDataUnavailable:
		return target == ErrDataUnavailable
	case KindInvalidInput:
		return target == ErrInvalidInput
	}
	return false
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    Kind   `json:"kind"`
		Scope   Scope  `json:"scope"`
		Keyword string `json:"keyword,omitempty"`
		Message string `json:"message"`
	}{e.Kind, e.Scope, e.Keyword, e.Error()})
}

// KindOf returns the kind of err, or "" when err is not an analysis error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
