package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindForm binds a form post into out and reports failures as
// *apperr.ValidationError keyed by the form field names.
func BindForm(ctx *gin.Context, out interface{}) error {
	if err := ctx.ShouldBind(out); err != nil {
		return parseBindError(err, out, "form")
	}
	return nil
}

// BindJSON is BindForm for JSON bodies; fields are keyed by json names.
func BindJSON(ctx *gin.Context, out interface{}) error {
	if err := ctx.ShouldBindJSON(out); err != nil {
		return parseBindError(err, out, "json")
	}
	return nil
}

// bindInput binds a form and converts it to typed domain input.
func bindInput[In any, F interface{ Input() (In, error) }](ctx *gin.Context, form *F) (In, error) {
	var zero In

	if err := BindForm(ctx, form); err != nil {
		return zero, err
	}

	return (*form).Input()
}

func parseBindError(err error, out interface{}, tag string) error {
	rootType := baseStructType(out)

	// validator errors (struct bind tags)

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		fields := make([]apperr.FieldError, 0, len(validatorError))

		for _, fieldError := range validatorError {
			field := pathFromValidatorError(rootType, fieldError, tag)
			rule := fieldError.Tag()
			param := fieldError.Param()

			fields = append(fields, apperr.FieldError{
				Field:   field,
				Rule:    rule,
				Param:   param,
				Message: validationMessage(rule, param),
			})
		}
		return &apperr.ValidationError{Fields: fields}
	}

	var maxBytesError *http.MaxBytesError

	if errors.As(err, &maxBytesError) {
		return apperr.Invalid("body", "max_bytes", "is too large")
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	// a truncated body surfaces as io.ErrUnexpectedEOF rather than a syntax error
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperr.Invalid("body", "json", "must be valid JSON")
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := pathFromDotPath(rootType, unmatchedTypeError.Field, tag)

		if field == "" {
			field = strings.TrimSpace(unmatchedTypeError.Field)
		}

		return apperr.Invalid(field, "type", fmt.Sprintf("must be of type %s", unmatchedTypeError.Type.String()))
	}

	// final fallback if the error could not be deciphered
	return apperr.Invalid("body", "parse", "could not be read")
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func pathFromValidatorError(rootType reflect.Type, fieldError validator.FieldError, tag string) string {
	// Namespace format is usually "<StructName>.<Field>[.<NestedField>...]".
	namespace := fieldError.StructNamespace()
	if namespace == "" {
		namespace = fieldError.Namespace()
	}

	if namespace == "" {
		return fieldError.Field()
	}

	parts := strings.Split(namespace, ".")

	if rootType != nil && rootType.Name() != "" && parts[0] == rootType.Name() {
		parts = parts[1:]
	}

	path := mapStructPath(rootType, parts, tag)
	if path != "" {
		return path
	}

	return fieldError.Field()
}

func pathFromDotPath(rootType reflect.Type, dotPath, tag string) string {
	dotPath = strings.TrimSpace(dotPath)
	if dotPath == "" {
		return ""
	}

	return mapStructPath(rootType, strings.Split(dotPath, "."), tag)
}

func mapStructPath(rootType reflect.Type, parts []string, tag string) string {
	if len(parts) == 0 {
		return ""
	}

	current := rootType
	out := make([]string, 0, len(parts))

	for _, rawPart := range parts {
		if rawPart == "" {
			continue
		}

		fieldName, indexSuffix := splitFieldIndex(rawPart)
		name := fieldName

		nextType := reflect.Type(nil)
		if current != nil {
			for current.Kind() == reflect.Pointer {
				current = current.Elem()
			}

			if current.Kind() == reflect.Struct {
				if sf, ok := current.FieldByName(fieldName); ok {
					name = tagName(sf, tag)
					nextType = sf.Type
				}
			}
		}

		out = append(out, name+indexSuffix)

		if nextType != nil {
			current = unwindCollection(nextType)
		} else {
			current = nil
		}
	}

	return strings.Join(out, ".")
}

func splitFieldIndex(part string) (string, string) {
	idx := strings.Index(part, "[")
	if idx == -1 {
		return part, ""
	}

	return part[:idx], part[idx:]
}

func tagName(sf reflect.StructField, tag string) string {
	v := sf.Tag.Get(tag)
	if v == "" {
		return sf.Name
	}

	name, _, _ := strings.Cut(v, ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}

func unwindCollection(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return t
		}
	}

	return nil
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "eqfield":
		return "must match " + strings.ToLower(param)
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "len":
		return "must be exactly " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
