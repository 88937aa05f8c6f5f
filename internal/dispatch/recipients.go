package dispatch

import (
	"regexp"
	"strings"
)

// RecipientKind is the channel family an address belongs to.
type RecipientKind string

const (
	KindEmail   RecipientKind = "email"
	KindPhone   RecipientKind = "phone"
	KindToken   RecipientKind = "token"
	KindUnknown RecipientKind = "unknown"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_:\-]{32,}$`)
)

// ClassifyRecipient infers the channel family of an address: an email
// address, an E.164-ish phone number, or an FCM device token.
func ClassifyRecipient(addr string) RecipientKind {
	addr = strings.TrimSpace(addr)
	switch {
	case emailPattern.MatchString(addr):
		return KindEmail
	case phonePattern.MatchString(addr):
		return KindPhone
	case tokenPattern.MatchString(addr):
		return KindToken
	default:
		return KindUnknown
	}
}

// FilterRecipients keeps the addresses a channel family can deliver to.
func FilterRecipients(recipients []string, kind RecipientKind) []string {
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if ClassifyRecipient(r) == kind {
			out = append(out, strings.TrimSpace(r))
		}
	}
	return out
}
