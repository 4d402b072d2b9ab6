package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Messages maps "field.tag" (or just "tag") to the text shown next to the input.
type Messages map[string]string

var defaultMessages = Messages{
	"required": "Campo obligatorio",
	"email":    "Email inválido",
	"url":      "Debe ser una URL válida",
	"oneof":    "Valor no permitido",
	"min":      "Valor demasiado corto",
	"max":      "Valor demasiado largo",
	"gte":      "Valor demasiado bajo",
	"lte":      "Valor demasiado alto",
	"datetime": "Fecha inválida",
}

// FieldErrors holds one message per offending field, keyed by its json name. It is the
// error returned for input that never reaches the network.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, f[key]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (f FieldErrors) FieldMessages() map[string]string {
	out := make(map[string]string, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

// Merge copies other into f, keeping messages already present.
func (f FieldErrors) Merge(other FieldErrors) FieldErrors {
	if f == nil {
		f = FieldErrors{}
	}
	for key, value := range other {
		if _, exists := f[key]; !exists {
			f[key] = value
		}
	}
	return f
}

// Struct validates value with the shared validator. Violations come back as FieldErrors;
// anything else (a non-struct argument) is returned unchanged.
func Struct(value any, messages Messages) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}
	out := make(FieldErrors, len(violations))
	for _, violation := range violations {
		field := violation.Field()
		if _, exists := out[field]; exists {
			continue
		}
		out[field] = messageFor(field, violation.Tag(), messages)
	}
	return out
}

func messageFor(field, tag string, messages Messages) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}
	if msg, ok := defaultMessages[tag]; ok {
		return msg
	}
	return "Valor inválido"
}

// AsFieldErrors extracts FieldErrors from a wrapped error.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields, true
	}
	return nil, false
}
