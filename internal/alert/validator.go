package alert

import (
	"fmt"
	"unicode/utf8"

	"safegenie/internal/config"
	"safegenie/internal/dispatch"
	pkgerrors "safegenie/pkg/errors"
)

// Validator checks an inbound request against the configured limits. Every
// violation is collected before returning so the caller sees all problems at
// once, keyed by field name. Violation messages describe shape only and never
// echo recipient addresses or message text.
type Validator struct {
	maxMessageLength int
	minRecipients    int
}

func NewValidator(cfg config.ValidationConfig) *Validator {
	return &Validator{
		maxMessageLength: cfg.MaxMessageLength,
		minRecipients:    cfg.MinRecipients,
	}
}

// Validate is called after server-side composition, so an empty message here
// means neither the client nor the tracker could supply one.
func (v *Validator) Validate(req SendSOSRequest) error {
	fields := make(map[string]string)

	if len(req.Recipients) < v.minRecipients {
		fields["recipients"] = fmt.Sprintf("at least %d recipient(s) required", v.minRecipients)
	} else {
		for i, r := range req.Recipients {
			if dispatch.ClassifyRecipient(r) == dispatch.KindUnknown {
				fields["recipients"] = fmt.Sprintf("recipient %d is not a valid email, phone number or device token", i+1)
				break
			}
		}
	}

	// The length bound counts characters, not bytes, so a multibyte alert
	// text is held to the same limit as an ASCII one.
	if len(req.Message) == 0 {
		fields["message"] = "message is required"
	} else if utf8.RuneCountInString(req.Message) > v.maxMessageLength {
		fields["message"] = fmt.Sprintf("message exceeds maximum length of %d", v.maxMessageLength)
	}

	if req.SenderEmail != "" && dispatch.ClassifyRecipient(req.SenderEmail) != dispatch.KindEmail {
		fields["senderEmail"] = "sender email is not a valid email address"
	}

	if len(fields) > 0 {
		return pkgerrors.ErrValidation.WithDetail("fields", fields)
	}
	return nil
}
