package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidationErrorsIs(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add("email", ErrContactEmailInvalid)

	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrContactEmailInvalid) {
		t.Fatalf("expected errors.Is to match ErrContactEmailInvalid, got %v", err)
	}
}

func TestValidationErrorsCollectsAllFields(t *testing.T) {
	sub := ContactSubmission{}
	err := sub.Validate()

	var list *ValidationErrors
	if !errors.As(err, &list) {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
	if got := strings.Join(list.Fields(), ","); got != "name,email,message" {
		t.Fatalf("Fields() = %q", got)
	}
	if got := err.Error(); got != "name: field is required; email: field is required; message: field is required" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestValidationErrorsEmpty(t *testing.T) {
	var validation ValidationErrors
	validation.Add("name", nil)
	if validation.Err() != nil {
		t.Fatal("expected nil error")
	}
}

func TestContactSubmissionValidate(t *testing.T) {
	valid := ContactSubmission{
		Name:      "Ana",
		Email:     "ana@example.com",
		Message:   "We need an app.",
		CreatedAt: time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ContactSubmission)
		field  string
		want   error
	}{
		{name: "missing name", mutate: func(s *ContactSubmission) { s.Name = "  " }, field: "name", want: ErrContactFieldRequired},
		{name: "missing email", mutate: func(s *ContactSubmission) { s.Email = "" }, field: "email", want: ErrContactFieldRequired},
		{name: "bad email", mutate: func(s *ContactSubmission) { s.Email = "not-an-email" }, field: "email", want: ErrContactEmailInvalid},
		{name: "display name email", mutate: func(s *ContactSubmission) { s.Email = "Ana <ana@example.com>" }, field: "email", want: ErrContactEmailInvalid},
		{name: "long message", mutate: func(s *ContactSubmission) { s.Message = strings.Repeat("x", MaxContactMessageLength+1) }, field: "message", want: ErrContactFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid
			tt.mutate(&sub)
			err := sub.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
			var list *ValidationErrors
			if !errors.As(err, &list) {
				t.Fatalf("expected *ValidationErrors, got %T", err)
			}
			if fields := list.Fields(); len(fields) != 1 || fields[0] != tt.field {
				t.Fatalf("Fields() = %v, want [%s]", fields, tt.field)
			}
		})
	}
}

func TestContactSubmissionNormalize(t *testing.T) {
	sub := ContactSubmission{Name: " Ana ", Email: " ana@example.com\n", Message: "\thello "}
	sub.Normalize()

	if sub.Name != "Ana" || sub.Email != "ana@example.com" || sub.Message != "hello" {
		t.Fatalf("Normalize() = %+v", sub)
	}
}
