package dispatch

import "regexp"

var (
	errEmailPattern = regexp.MustCompile(`[^\s@<>,;:"']+@[^\s@<>,;:"']+`)
	errPhonePattern = regexp.MustCompile(`\+?[0-9]{7,15}`)
)

// sanitizeError reduces a channel failure to text safe for logs and stored
// records. Providers echo recipient addresses back in their replies (SMTP 550
// responses quote the RCPT TO address), so anything shaped like an email
// address or phone number is masked before the attempt record is built.
func sanitizeError(err error) string {
	s := errEmailPattern.ReplaceAllString(err.Error(), "[redacted]")
	return errPhonePattern.ReplaceAllString(s, "[redacted]")
}
