// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package validation wraps go-playground/validator v10 with the ADS-B tags
// Skywatch needs.
//
// Configuration loading, detector module configuration and HTTP request
// decoding share one validator. On top of the built-in tags it knows:
//
//	icaohex  six hexadecimal digits (an ICAO 24-bit address)
//	squawk   four octal digits (a Mode A code)
//
// Errors name fields by their json (or koanf) tag, so messages use the keys
// the caller wrote.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed constraint.
type FieldError struct {
	Field   string // dotted path below the root, e.g. "receiver.lat"
	Tag     string // failing tag, e.g. "icaohex"
	Param   string // tag parameter, e.g. "32" for max=32
	Value   any
	Message string
}

func (e FieldError) Error() string { return e.Message }

// Errors holds every failed constraint of one struct, in field order.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i := range e {
		msgs[i] = e[i].Message
	}
	return strings.Join(msgs, "; ")
}

// APIError is the HTTP error shape; the api package converts it to its own
// model so this package stays free of HTTP types.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError renders e for an HTTP response. A single failure reports its
// field, tag and value; several are listed under "fields".
func (e Errors) ToAPIError() *APIError {
	out := &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}
	if len(e) == 1 {
		out.Message = e[0].Message
		out.Details = map[string]any{"field": e[0].Field, "tag": e[0].Tag, "value": e[0].Value}
		return out
	}
	if len(e) > 1 {
		fields := make([]map[string]any, len(e))
		for i := range e {
			fields[i] = map[string]any{"field": e[i].Field, "tag": e[i].Tag, "message": e[i].Message}
		}
		out.Message = e.Error()
		out.Details = map[string]any{"fields": fields}
	}
	return out
}

var (
	shared     *validator.Validate
	sharedOnce sync.Once
)

// GetValidator returns the process-wide validator.
func GetValidator() *validator.Validate {
	sharedOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(tagName)
		// Only an empty tag or nil func can fail registration.
		_ = v.RegisterValidation("icaohex", func(fl validator.FieldLevel) bool {
			return IsICAOHex(fl.Field().String())
		})
		_ = v.RegisterValidation("squawk", func(fl validator.FieldLevel) bool {
			return IsSquawk(fl.Field().String())
		})
		shared = v
	})
	return shared
}

func tagName(fld reflect.StructField) string {
	for _, key := range []string{"json", "koanf"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return fld.Name
}

// IsICAOHex reports whether s is exactly six hexadecimal digits.
func IsICAOHex(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsSquawk reports whether s is exactly four octal digits.
func IsSquawk(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

// ValidateStruct checks s against its validate tags and returns nil when it
// passes.
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    return fmt.Errorf("invalid squawk config: %w", err)
//	}
func ValidateStruct(s any) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Non-struct input or a nil pointer.
		return Errors{{Tag: "invalid", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fieldPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describe(fe),
		}
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

var messages = map[string]string{
	"required":      "%[1]s is required",
	"latitude":      "%[1]s must be a valid latitude (-90 to 90)",
	"longitude":     "%[1]s must be a valid longitude (-180 to 180)",
	"icaohex":       "%[1]s must be a six digit hexadecimal ICAO address",
	"squawk":        "%[1]s must be a four digit octal squawk code",
	"url":           "%[1]s must be a valid URL",
	"hostname_port": "%[1]s must be a host:port address",
	"oneof":         "%[1]s must be one of: %[2]s",
	"gte":           "%[1]s must be greater than or equal to %[2]s",
	"lte":           "%[1]s must be less than or equal to %[2]s",
	"gt":            "%[1]s must be greater than %[2]s",
	"lt":            "%[1]s must be less than %[2]s",
	"dive":          "%[1]s has an invalid element: %[2]s",
}

func describe(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	if tmpl, ok := messages[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
