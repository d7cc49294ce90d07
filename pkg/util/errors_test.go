package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		kind string
		name string
		want string
	}{
		{"site", "Global/US/SJC-13", "Cannot find site:Global/US/SJC-13"},
		{"profile", "a1b2", "Cannot find Network profile for siteId:a1b2"},
		{"template", "branch-day0", "Cannot find template named:branch-day0"},
		{"image", "cat9k.bin", "cannot find image:cat9k.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			err := NewNotFoundError(tt.kind, tt.name)
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("NotFoundError should unwrap to ErrNotFound")
			}
		})
	}
}

func TestNotFoundErrorWrapped(t *testing.T) {
	err := fmt.Errorf("resolving site: %w", NewNotFoundError("site", "Global/X"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("wrapped NotFoundError should still match ErrNotFound")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As should find *NotFoundError")
	}
	if nf.Name != "Global/X" {
		t.Errorf("Name = %q, want %q", nf.Name, "Global/X")
	}
}

func TestMissingParameterError(t *testing.T) {
	err := NewMissingParameterError("hostname", "cfg-1")
	msg := err.Error()
	if !strings.Contains(msg, `"hostname"`) {
		t.Errorf("Error message should name the parameter: %s", msg)
	}
	if !strings.Contains(msg, "cfg-1") {
		t.Errorf("Error message should name the template: %s", msg)
	}
	if !errors.Is(err, ErrMissingParameter) {
		t.Errorf("MissingParameterError should unwrap to ErrMissingParameter")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("MissingParameterError must not match ErrNotFound")
	}

	if got := NewMissingParameterError("vlan", "").Error(); got != `missing value for template parameter "vlan"` {
		t.Errorf("empty ConfigID should not be mentioned: %s", got)
	}
}

func TestMalformedResponseError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := &json.SyntaxError{Offset: 3}
		err := NewMalformedResponseError("group?groupType=SITE", "decoding body", cause)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("should match ErrMalformedResponse")
		}
		var syn *json.SyntaxError
		if !errors.As(err, &syn) {
			t.Errorf("should expose the decode error")
		}
		if !strings.Contains(err.Error(), "group?groupType=SITE") {
			t.Errorf("Error message should contain the path: %s", err.Error())
		}
	})

	t.Run("without cause", func(t *testing.T) {
		err := NewMalformedResponseError("siteprofile/site/1", "family entry 0 has no attribs[0]", nil)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("should match ErrMalformedResponse")
		}
		if strings.HasSuffix(err.Error(), ": ") {
			t.Errorf("unexpected trailing separator: %q", err.Error())
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("field is required")
		msg := err.Error()
		if !strings.Contains(msg, "field is required") {
			t.Errorf("Error message should contain the error: %s", msg)
		}
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("ValidationError should unwrap to ErrValidationFailed")
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("field1 is required", "field2 is invalid", "field3 out of range")
		msg := err.Error()
		if !strings.Contains(msg, "field1") || !strings.Contains(msg, "field2") || !strings.Contains(msg, "field3") {
			t.Errorf("Error message should contain all errors: %s", msg)
		}
	})
}

func TestValidationBuilder(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		v := &ValidationBuilder{}
		v.Add(true, "this should not appear")

		if err := v.Build(); err != nil {
			t.Errorf("Build() should return nil when no errors: %v", err)
		}
	})

	t.Run("chaining", func(t *testing.T) {
		err := (&ValidationBuilder{}).
			Add(false, "error1").
			Add(true, "passes").
			Add(false, "error2").
			Build()

		validationErr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("Expected *ValidationError, got %T", err)
		}
		if len(validationErr.Errors) != 2 {
			t.Errorf("Expected 2 errors, got %d", len(validationErr.Errors))
		}
	})
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrMissingParameter,
		ErrMalformedResponse,
		ErrValidationFailed,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v == %v", err1, err2)
			}
		}
	}
}
