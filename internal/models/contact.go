package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// Contact form limits.
const (
	MaxContactNameLength    = 200
	MaxContactEmailLength   = 320
	MaxContactMessageLength = 5000
)

// Contact validation errors.
var (
	ErrContactFieldRequired = errors.New("field is required")
	ErrContactFieldTooLong  = errors.New("field is too long")
	ErrContactEmailInvalid  = errors.New("email address is invalid")
)

// ContactSubmission is a message sent through the website contact form.
type ContactSubmission struct {
	// ID is the unique identifier for the submission.
	ID string `json:"id"`

	// Name is the sender's name.
	Name string `json:"name"`

	// Email is the sender's reply address.
	Email string `json:"email"`

	// Message is the free-form message body.
	Message string `json:"message"`

	// Theme is the daily theme that was active when the form was sent.
	Theme string `json:"theme,omitempty"`

	// CreatedAt is when the submission was received.
	CreatedAt time.Time `json:"created_at"`
}

// Normalize trims surrounding whitespace from the user supplied fields.
func (s *ContactSubmission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate checks that every field is present and within limits.
func (s *ContactSubmission) Validate() error {
	validation := &ValidationErrors{}

	checkText(validation, "name", s.Name, MaxContactNameLength)
	checkText(validation, "email", s.Email, MaxContactEmailLength)
	checkText(validation, "message", s.Message, MaxContactMessageLength)

	if s.Email != "" && utf8.RuneCountInString(s.Email) <= MaxContactEmailLength {
		addr, err := mail.ParseAddress(s.Email)
		if err != nil || addr.Address != s.Email {
			validation.Add("email", ErrContactEmailInvalid)
		}
	}

	return validation.Err()
}

func checkText(validation *ValidationErrors, field, value string, max int) {
	switch {
	case strings.TrimSpace(value) == "":
		validation.Add(field, ErrContactFieldRequired)
	case utf8.RuneCountInString(value) > max:
		validation.Add(field, ErrContactFieldTooLong)
	}
}
