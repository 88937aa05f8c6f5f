package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safegenie/internal/config"
)

func TestSMSChannelSend(t *testing.T) {
	type smsRequest struct {
		path string
		to   string
		from string
		body string
		user string
	}
	var got []smsRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		got = append(got, smsRequest{
			path: r.URL.Path,
			to:   r.PostForm.Get("To"),
			from: r.PostForm.Get("From"),
			body: r.PostForm.Get("Body"),
			user: user,
		})
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ch := NewSMSChannel(config.SMSChannelConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+15550001111",
		BaseURL:    srv.URL,
	}, false)

	recipients := []string{"+14155552671", "guardian@example.com", "+442071838750"}
	err := ch.Send(context.Background(), recipients, "help me")
	require.NoError(t, err)

	// One provider call per phone recipient; the email recipient is skipped.
	require.Len(t, got, 2)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", got[0].path)
	assert.Equal(t, "+14155552671", got[0].to)
	assert.Equal(t, "+442071838750", got[1].to)
	for _, req := range got {
		assert.Equal(t, "+15550001111", req.from)
		assert.Equal(t, "help me", req.body)
		assert.Equal(t, "AC123", req.user)
	}
}

func TestSMSChannelSendProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	ch := NewSMSChannel(config.SMSChannelConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+15550001111",
		BaseURL:    srv.URL,
	}, false)

	err := ch.Send(context.Background(), []string{"+14155552671"}, "help")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSMSChannelSendNoPhoneRecipients(t *testing.T) {
	ch := NewSMSChannel(config.SMSChannelConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+15550001111",
	}, false)

	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
}

func TestSMSChannelIsConfigured(t *testing.T) {
	assert.True(t, NewSMSChannel(config.SMSChannelConfig{
		AccountSID: "AC123", AuthToken: "token", FromNumber: "+15550001111",
	}, false).IsConfigured())

	assert.False(t, NewSMSChannel(config.SMSChannelConfig{
		AccountSID: "AC123", AuthToken: "token",
	}, false).IsConfigured())
}
