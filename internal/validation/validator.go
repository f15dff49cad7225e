// Package validation wraps go-playground/validator with the storefront's
// custom rules and turns validation failures into per-field messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// looseEmail is deliberately permissive: something@something.something
var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

var (
	once     sync.Once
	validate *validator.Validate
)

// Get returns the shared validator with custom tags registered:
//
//	notblank   - non-empty after trimming whitespace
//	looseemail - matches \S+@\S+\.\S+
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
			return looseEmail.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// IsLooseEmail applies the looseemail rule to s.
func IsLooseEmail(s string) bool {
	return looseEmail.MatchString(s)
}

// Messages maps "field.tag" or just "field" to the message shown for it.
type Messages map[string]string

// FieldErrors maps a form field name to the message displayed next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// Empty reports whether no field failed.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Struct validates v and translates failures through messages. The result is
// never nil so callers can keep adding their own checks.
func Struct(v any, messages Messages) FieldErrors {
	out := FieldErrors{}
	err := Get().Struct(v)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("_", err.Error())
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[field]
		}
		if !ok {
			msg = field + " is invalid"
		}
		out.Add(field, msg)
	}
	return out
}
