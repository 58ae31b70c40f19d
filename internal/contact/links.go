// Package contact turns contact form submissions into outbound mail and
// WhatsApp links and records them.
package contact

import (
	"fmt"
	"strings"
	"time"

	"github.com/tOgg1/parrot/internal/config"
	"github.com/tOgg1/parrot/internal/models"
)

// Links are the client-side destinations for one submission.
type Links struct {
	Mailto   string `json:"mailto"`
	WhatsApp string `json:"whatsapp"`

	// OpenDelay is how long to wait before opening the WhatsApp link.
	OpenDelay time.Duration `json:"-"`
}

// OpenDelayMs is OpenDelay in milliseconds, for JSON clients.
func (l Links) OpenDelayMs() int64 {
	return l.OpenDelay.Milliseconds()
}

// Subject is the mail subject line for a submission.
func Subject(sub *models.ContactSubmission) string {
	return "Contact Form Submission from " + sub.Name
}

// MailBody is the mail body for a submission.
func MailBody(sub *models.ContactSubmission) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", sub.Name, sub.Email, sub.Message)
}

// WhatsAppText is the prefilled WhatsApp message for a submission.
func WhatsAppText(sub *models.ContactSubmission) string {
	return fmt.Sprintf("Hi! I'm %s.\n\nEmail: %s\n\nMessage: %s", sub.Name, sub.Email, sub.Message)
}

// BuildLinks renders the mailto and wa.me links for a valid submission.
func BuildLinks(sub *models.ContactSubmission, cfg config.ContactConfig) (Links, error) {
	if sub == nil {
		return Links{}, fmt.Errorf("submission is required")
	}
	if err := sub.Validate(); err != nil {
		return Links{}, err
	}

	mailto := "mailto:" + cfg.Email +
		"?subject=" + EncodeURIComponent(Subject(sub)) +
		"&body=" + EncodeURIComponent(MailBody(sub))
	whatsapp := "https://wa.me/" + cfg.WhatsApp +
		"?text=" + EncodeURIComponent(WhatsAppText(sub))

	return Links{Mailto: mailto, WhatsApp: whatsapp, OpenDelay: cfg.OpenDelay}, nil
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way browsers do for
// encodeURIComponent: everything except ASCII letters, digits and
// -_.!~*'() is escaped as UTF-8 bytes.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
