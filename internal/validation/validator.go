// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance that reports fields
// by their JSON names, so errors can be echoed back to WebSocket clients using
// the same names they sent.
//
// Example usage:
//
//	type SentLocation struct {
//	    ClientID *string  `json:"client_id" validate:"required"`
//	    Lat      *float64 `json:"lat" validate:"required,latitude"`
//	    Lon      *float64 `json:"lon" validate:"required,longitude"`
//	}
//
//	if err := validation.ValidateStruct(&ev); err != nil {
//	    first := err.Errors()[0]
//	    // first.Field() == "client_id", first.Tag() == "required"
//	}
//
// Errors are reported in struct field order.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is one failed field, named as it appears on the wire.
type ValidationError struct {
	field   string
	tag     string
	message string
}

// Field returns the JSON name of the failing field.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the validate tag that failed, e.g. "required" or "latitude".
func (e *ValidationError) Tag() string { return e.tag }

// Missing reports whether the field was absent, null or empty.
func (e *ValidationError) Missing() bool { return e.tag == "required" }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failing field of one struct.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the failures in struct field order.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// First returns the first failing field, or nil.
func (ve *RequestValidationError) First() *ValidationError {
	if len(ve.errors) == 0 {
		return nil
	}
	return &ve.errors[0]
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve.errors))
	for i := range ve.errors {
		parts[i] = ve.errors[i].message
	}
	return strings.Join(parts, "; ")
}

// GetValidator returns the shared validator. Fields are reported by their
// JSON name.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct returns nil when s passes its validate tags.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []ValidationError{{field: "unknown", tag: "unknown", message: err.Error()}}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{field: fe.Field(), tag: fe.Tag(), message: describe(fe)})
	}
	return &RequestValidationError{errors: out}
}

func describe(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "latitude":
		return field + " must be a valid latitude (-90 to 90)"
	case "longitude":
		return field + " must be a valid longitude (-180 to 180)"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
