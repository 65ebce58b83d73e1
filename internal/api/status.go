package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/api/transport"
	"github.com/segmentation-fault/forum/internal/api/wire"
	"github.com/segmentation-fault/forum/internal/core/domain"
)

// expect describes which outcomes of a call count as success and which
// failures carry a specific meaning.
type expect struct {
	success []int

	// resource and id are reported by a 404 when resource is set.
	resource string
	id       int64

	unauthorized bool // 401 means bad credentials
	conflict     bool // 409 means username or email taken

	log zerolog.Logger
}

// ok starts an expectation that reports unclassified outcomes to c's logger.
func (c *Client) ok(codes ...int) expect {
	return expect{success: codes, log: c.log}
}

func (e expect) notFound(resource string, id int64) expect {
	e.resource = resource
	e.id = id
	return e
}

func (e expect) withUnauthorized() expect {
	e.unauthorized = true
	return e
}

func (e expect) withConflict() expect {
	e.conflict = true
	return e
}

// classify turns the result of a Transport call into nil or a domain error.
// Redirects and transport failures pass through unchanged. A 422 carrying a
// validation envelope is still ErrUnknown but also unwraps to
// domain.HTTPValidationError.
func classify(resp *transport.Response, err error, e expect) error {
	if err == nil {
		if len(e.success) == 0 || slices.Contains(e.success, resp.StatusCode) {
			return nil
		}
		e.unknown(resp.StatusCode)
		return domain.ErrUnknown
	}

	var se *transport.StatusError
	if !errors.As(err, &se) {
		return err
	}

	switch {
	case se.Code == http.StatusNotFound && e.resource != "":
		return domain.NewNotFound(e.resource, e.id)
	case se.Code == http.StatusUnauthorized && e.unauthorized:
		return domain.ErrInvalidCredentials
	case se.Code == http.StatusConflict && e.conflict:
		return domain.ErrConflict
	case se.Code == http.StatusUnprocessableEntity:
		if verr, ok := validationDetail(se.Body); ok {
			e.log.Warn().Int("status", se.Code).Str("detail", verr.Error()).Msg("request rejected by validation")
			return fmt.Errorf("%w: %w", domain.ErrUnknown, verr)
		}
	}
	e.unknown(se.Code)
	return domain.ErrUnknown
}

func (e expect) unknown(status int) {
	ev := e.log.Warn().Int("status", status).Ints("expected", e.success)
	if e.resource != "" {
		ev = ev.Str("resource", e.resource).Int64("id", e.id)
	}
	ev.Msg("unclassified response")
}

// validationDetail decodes the 422 envelope. Bodies whose detail is a plain
// string are not validation errors.
func validationDetail(body []byte) (domain.HTTPValidationError, bool) {
	var env wire.HTTPValidationError
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return domain.HTTPValidationError{}, false
	}
	return internaliseValidationError(env), true
}

// decodeChecked classifies the call and decodes the body on success.
func decodeChecked[T any](resp *transport.Response, err error, e expect) (T, error) {
	var zero T
	if err := classify(resp, err, e); err != nil {
		return zero, err
	}
	out, err := transport.Decode[T](resp)
	if err != nil {
		return zero, err
	}
	return out, nil
}
