// Package validator decodes request bodies and validates them with
// go-playground/validator. Every failure is returned as a validation failure
// whose message names the offending field by its JSON name.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"cowork/shared/constant"
	"cowork/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMegabyte = 1024 * 1024

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(fieldName)

	custom := map[string]val.Func{
		"clock":       clock,
		"mimetypes":   mimeTypes,
		"maxfilesize": maxFileSize,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// fieldName reports a field by its json name so messages match the request body.
func fieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return constant.Empty
	case constant.Empty:
		return field.Name
	default:
		return name
	}
}

// clock accepts a wall clock time written as HH:MM.
func clock(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := time.Parse(constant.ClockFormat, value)

	return err == nil
}

func fileHeader(field val.FieldLevel) (multipart.FileHeader, bool) {
	header, ok := field.Field().Interface().(multipart.FileHeader)

	return header, ok
}

// mimeTypes takes a space separated list of accepted content types.
func mimeTypes(field val.FieldLevel) bool {
	header, ok := fileHeader(field)
	if !ok {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), header.Header.Get(constant.RequestHeaderContentType))
}

// maxFileSize takes the limit in megabytes, fractions allowed.
func maxFileSize(field val.FieldLevel) bool {
	header, ok := fileHeader(field)
	if !ok {
		return false
	}

	limit, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(header.Size) <= limit*bytesPerMegabyte
}

// Validate decodes JSON from r into data and validates the result.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
