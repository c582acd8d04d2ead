package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Custom validation tags and their messages.
const (
	nonNegIntTag  = "nonneg_int"
	nonNegIntText = "{0} must be a whole number of 0 or more"
	dateTimeTag   = "datetime_any"
	dateTimeText  = "{0} must be a date (YYYY-MM-DD) or date-time (YYYY-MM-DDTHH:MM[:SSZ])"
	requiredText  = "{0} is required"
)

// DateTimeLayouts are the accepted layouts for absolute date inputs, tried in order.
var DateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	initOnce   sync.Once
	initErr    error
	validate   *validator.Validate
	translator ut.Translator
)

// engine builds the shared validator once. A registration failure is kept in
// initErr and returned by every call so a half-configured validator is never used.
func engine() (*validator.Validate, ut.Translator, error) {
	initOnce.Do(func() {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		tr, found := uni.GetTranslator("en")
		if !found {
			initErr = errors.New("form: english translator not found")
			return
		}

		v := validator.New()
		if err := en_translations.RegisterDefaultTranslations(v, tr); err != nil {
			initErr = fmt.Errorf("form: register default translations: %w", err)
			return
		}

		// Report JSON names so messages match the API's field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		if err := v.RegisterValidation(nonNegIntTag, func(fl validator.FieldLevel) bool {
			_, err := parseNonNegInt(fl.Field().String())
			return err == nil
		}); err != nil {
			initErr = fmt.Errorf("form: register %s: %w", nonNegIntTag, err)
			return
		}
		if err := v.RegisterValidation(dateTimeTag, func(fl validator.FieldLevel) bool {
			_, err := ParseDateTime(fl.Field().String())
			return err == nil
		}); err != nil {
			initErr = fmt.Errorf("form: register %s: %w", dateTimeTag, err)
			return
		}

		for _, t := range []struct {
			tag, text string
			override  bool
		}{
			{nonNegIntTag, nonNegIntText, false},
			{dateTimeTag, dateTimeText, false},
			{"required", requiredText, true},
		} {
			if err := registerTranslation(v, tr, t.tag, t.text, t.override); err != nil {
				initErr = fmt.Errorf("form: translate %s: %w", t.tag, err)
				return
			}
		}
		validate, translator = v, tr
	})
	return validate, translator, initErr
}

func registerTranslation(v *validator.Validate, tr ut.Translator, tag, text string, override bool) error {
	return v.RegisterTranslation(
		tag, tr,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldError is a validation failure on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failing field of a form submit.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// Message returns the message for field, or "".
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Struct validates v with the shared validator and returns a *ValidationError
// with translated messages.
func Struct(v any) error {
	val, tr, err := engine()
	if err != nil {
		return err
	}
	err = val.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fe.Translate(tr)})
	}
	return out
}

// ParseDateTime parses an absolute date input in any of DateTimeLayouts (UTC when no zone is given).
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date-time")
}

// parseNonNegInt accepts plain decimal digits only; signs are rejected.
func parseNonNegInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, errors.New("not a whole number")
	}
	return strconv.Atoi(s)
}
