package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRecipient(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want RecipientKind
	}{
		{
			name: "plain email",
			addr: "guardian@example.com",
			want: KindEmail,
		},
		{
			name: "email with surrounding whitespace",
			addr: "  guardian@example.com ",
			want: KindEmail,
		},
		{
			name: "e164 phone",
			addr: "+14155552671",
			want: KindPhone,
		},
		{
			name: "phone without plus",
			addr: "14155552671",
			want: KindPhone,
		},
		{
			name: "fcm device token",
			addr: "dGhpc2lzYXRva2VuX3RoaXNpc2F0b2tlbl90aGlzaXNhdG9rZW4",
			want: KindToken,
		},
		{
			name: "email missing domain dot",
			addr: "guardian@example",
			want: KindUnknown,
		},
		{
			name: "phone too short",
			addr: "+123",
			want: KindUnknown,
		},
		{
			name: "empty string",
			addr: "",
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRecipient(tt.addr))
		})
	}
}

func TestFilterRecipients(t *testing.T) {
	recipients := []string{
		"guardian@example.com",
		"+14155552671",
		" second@example.com ",
		"not-an-address",
	}

	assert.Equal(t, []string{"guardian@example.com", "second@example.com"}, FilterRecipients(recipients, KindEmail))
	assert.Equal(t, []string{"+14155552671"}, FilterRecipients(recipients, KindPhone))
	assert.Empty(t, FilterRecipients(recipients, KindToken))
}
