package domain

import "strings"

// ValidationError is a single entry of the server's request validation
// envelope. Loc holds path segments that are either strings or numbers.
type ValidationError struct {
	Loc  []any
	Msg  string
	Type string
}

// HTTPValidationError is the body returned with 422 responses.
type HTTPValidationError struct {
	Detail []ValidationError
}

func (e HTTPValidationError) Error() string {
	msgs := make([]string, 0, len(e.Detail))
	for _, d := range e.Detail {
		msgs = append(msgs, d.Msg)
	}
	return strings.Join(msgs, "; ")
}
