// Package validation configures gin's validator for request bodies and turns
// its errors into per-field messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type alias struct {
	tags string
	msg  string // empty derives the message from a oneof list
}

var aliases = map[string]alias{
	"pwd":         {tags: "min=8", msg: "min length 8"},
	"phone":       {tags: "e164", msg: "must be a valid phone number"},
	"period":      {tags: "oneof=all today 24h 48h week month this_month custom"},
	"orderstatus": {tags: "oneof=pending processing shipped delivered cancelled"},
	"qty":         {tags: "lte=999", msg: "must be at most 999"},
}

// fixed messages for parameterless tags
var messages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"url":      "must be a valid URL",
	"e164":     "must be a valid phone number",
}

// Init configures the validator behind gin binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Configure(v)
	}
}

// Configure reports fields by their json (or form) name and registers the
// storefront aliases.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	for name, a := range aliases {
		v.RegisterAlias(name, a.tags)
	}
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		if tag := f.Tag.Get(key); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				return ""
			}
			return name
		}
	}
	return f.Name
}

// ToDetails maps a binding error to field -> message. Malformed bodies are
// reported under "payload".
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}
	var (
		syntax *json.SyntaxError
		typ    *json.UnmarshalTypeError
		fields validator.ValidationErrors
	)
	switch {
	case errors.As(err, &syntax), errors.As(err, &typ):
		return map[string]string{"payload": "invalid json"}
	case errors.As(err, &fields):
		out := make(map[string]string, len(fields))
		for _, fe := range fields {
			out[fe.Field()] = message(fe)
		}
		return out
	}
	return map[string]string{"payload": "invalid payload"}
}

func message(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if a, ok := aliases[tag]; ok {
		if a.msg != "" {
			return a.msg
		}
		return oneOf(strings.TrimPrefix(a.tags, "oneof="))
	}
	if m, ok := messages[tag]; ok {
		return m
	}

	unit := ""
	if !numeric(fe.Kind()) {
		unit = " characters long"
	}
	switch tag {
	case "oneof":
		return oneOf(param)
	case "min":
		return "must be at least " + param + unit
	case "max":
		return "must be at most " + param + unit
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	}
	if param != "" {
		return fmt.Sprintf("failed %s=%s", tag, param)
	}
	return "failed " + tag
}

func oneOf(list string) string {
	return "must be one of: " + strings.Join(strings.Fields(list), ", ")
}

func numeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}
