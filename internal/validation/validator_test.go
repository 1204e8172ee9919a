// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type receiverStruct struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

type rangeStruct struct {
	Start    string         `json:"start" validate:"required,icaohex"`
	End      string         `json:"end" validate:"required,icaohex"`
	Squawk   string         `json:"squawk" validate:"omitempty,squawk"`
	Category string         `json:"category" validate:"required,max=32"`
	Receiver receiverStruct `json:"receiver"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	input := rangeStruct{
		Start:    "AE0000",
		End:      "afffff",
		Squawk:   "7700",
		Category: "military",
		Receiver: receiverStruct{Lat: 51.5, Lon: -0.14},
	}
	if err := ValidateStruct(&input); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     rangeStruct
		wantField string
		wantTag   string
	}{
		{
			name:      "bad hex",
			input:     rangeStruct{Start: "AE00", End: "AFFFFF", Category: "military"},
			wantField: "start",
			wantTag:   "icaohex",
		},
		{
			name:      "non octal squawk",
			input:     rangeStruct{Start: "AE0000", End: "AFFFFF", Squawk: "7780", Category: "military"},
			wantField: "squawk",
			wantTag:   "squawk",
		},
		{
			name:      "missing category",
			input:     rangeStruct{Start: "AE0000", End: "AFFFFF"},
			wantField: "category",
			wantTag:   "required",
		},
		{
			name: "nested latitude",
			input: rangeStruct{
				Start: "AE0000", End: "AFFFFF", Category: "military",
				Receiver: receiverStruct{Lat: 91},
			},
			wantField: "receiver.lat",
			wantTag:   "latitude",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if len(err) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(err), err)
			}
			if err[0].Field != tt.wantField {
				t.Errorf("field = %q, want %q", err[0].Field, tt.wantField)
			}
			if err[0].Tag != tt.wantTag {
				t.Errorf("tag = %q, want %q", err[0].Tag, tt.wantTag)
			}
		})
	}
}

func TestToAPIError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&rangeStruct{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "start is required") {
		t.Errorf("message should mention start, got %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 3 {
		t.Errorf("expected 3 field details, got %v", apiErr.Details["fields"])
	}
}

func TestValidateStruct_MessagesAndWrapping(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&rangeStruct{
		Start: "AE0000", End: "AFFFFF",
		Category: strings.Repeat("x", 40),
	})
	if len(err) != 1 {
		t.Fatalf("expected 1 error, got %v", err)
	}
	if want := "category must be at most 32 characters"; err[0].Message != want {
		t.Errorf("message = %q, want %q", err[0].Message, want)
	}
	if err[0].Param != "32" {
		t.Errorf("param = %q, want 32", err[0].Param)
	}

	wrapped := fmt.Errorf("invalid config: %w", err)
	var target Errors
	if !errors.As(wrapped, &target) || len(target) != 1 {
		t.Errorf("errors.As did not recover Errors from %v", wrapped)
	}

	if got := ValidateStruct("not a struct"); len(got) != 1 || got[0].Tag != "invalid" {
		t.Errorf("ValidateStruct(string) = %v", got)
	}
}

func TestIsICAOHexAndSquawk(t *testing.T) {
	t.Parallel()

	hexCases := map[string]bool{
		"ae1234": true, "AE1234": true, "43c000": true,
		"ae123": false, "ae12345": false, "zz1234": false, "~ae123": false, "": false,
	}
	for in, want := range hexCases {
		if got := IsICAOHex(in); got != want {
			t.Errorf("IsICAOHex(%q) = %v, want %v", in, got, want)
		}
	}

	squawkCases := map[string]bool{
		"7700": true, "0000": true, "1200": true,
		"7800": false, "770": false, "77000": false, "ABCD": false,
	}
	for in, want := range squawkCases {
		if got := IsSquawk(in); got != want {
			t.Errorf("IsSquawk(%q) = %v, want %v", in, got, want)
		}
	}
}
