package cli

import (
	"errors"
	"fmt"
	"strings"

	"lms-admin/internal/api"
	"lms-admin/internal/form"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// wrongParentError is returned when a move names a target outside the item's parent.
type wrongParentError struct {
	kind   string
	id     string
	parent string
}

func (e wrongParentError) Error() string {
	return fmt.Sprintf("%s %s does not belong to %s", e.kind, e.id, e.parent)
}

// errorText renders err for stderr: one line per invalid form field, the
// server message for HTTP errors.
func errorText(err error) string {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		lines := make([]string, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			lines = append(lines, f.Message)
		}
		return "invalid input:\n  " + strings.Join(lines, "\n  ")
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return api.Message(err)
	}
	var he *api.HTTPError
	if errors.As(err, &he) {
		if api.IsNotFound(err) {
			return "not found: " + he.Path
		}
		return api.Message(err)
	}
	return err.Error()
}
