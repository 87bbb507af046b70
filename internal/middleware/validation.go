package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateMessageText validates outgoing message text.
func ValidateMessageText(text string) error {
	if len(text) == 0 {
		return errors.New("text cannot be empty")
	}
	if len(text) > 65536 { // WhatsApp caps messages well below this
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}

// ValidatePhone validates a contact phone number. Accepts E.164-style
// numbers with an optional leading plus.
func ValidatePhone(phone string) error {
	if len(phone) == 0 {
		return errors.New("phone cannot be empty")
	}
	digits := phone
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	if len(digits) < 7 || len(digits) > 15 {
		return errors.New("phone must have 7 to 15 digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return errors.New("phone may contain only digits and a leading +")
		}
	}
	return nil
}

// ValidateName validates a contact or user display name.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return errors.New("name cannot be empty")
	}
	if len(name) > 256 {
		return errors.New("name exceeds maximum length")
	}
	if !utf8.ValidString(name) {
		return errors.New("name must be valid UTF-8")
	}
	return nil
}

// ValidateTemplateContent validates template body content.
func ValidateTemplateContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateAgentName validates the agent named in an assignment change.
func ValidateAgentName(agent string) error {
	if len(strings.TrimSpace(agent)) == 0 {
		return errors.New("agent cannot be empty")
	}
	if len(agent) > 128 {
		return errors.New("agent exceeds maximum length")
	}
	return nil
}
