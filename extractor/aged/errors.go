package aged

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoInput is the only hard failure of a pipeline run: the caller passed no input at all.
var ErrNoInput = errors.New("no input lines")

// Soft conditions. None of these stop a run; they are reported as warnings.
var (
	ErrTableNotFound        = errors.New("table divider not found")
	ErrUnparseableField     = errors.New("unparseable field")
	ErrInvalidAccountFormat = errors.New("invalid account format")
	ErrAmbiguousAccount     = errors.New("account matches rules in several tiers")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrDuplicateRecord      = errors.New("duplicate record")
)

// Warning ties a soft error to the source line (1-based, 0 when unknown) and field.
type Warning struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (w Warning) Error() string {
	if w.Field == "" {
		return fmt.Sprintf("line %d: %v", w.Line, w.Err)
	}
	return fmt.Sprintf("line %d: %s %q: %v", w.Line, w.Field, w.Value, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

func (w Warning) MarshalJSON() ([]byte, error) {
	msg := ""
	if w.Err != nil {
		msg = w.Err.Error()
	}
	return json.Marshal(struct {
		Line  int    `json:"line"`
		Field string `json:"field,omitempty"`
		Value string `json:"value,omitempty"`
		Error string `json:"error"`
	}{w.Line, w.Field, w.Value, msg})
}
