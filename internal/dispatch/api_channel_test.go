package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safegenie/internal/config"
)

func TestAPIChannelIsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.APIChannelConfig
		want bool
	}{
		{
			name: "key and from set",
			cfg:  config.APIChannelConfig{Key: "sg-key", From: "alerts@example.com"},
			want: true,
		},
		{
			name: "missing key",
			cfg:  config.APIChannelConfig{From: "alerts@example.com"},
			want: false,
		},
		{
			name: "missing from",
			cfg:  config.APIChannelConfig{Key: "sg-key"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewAPIChannel(tt.cfg, false).IsConfigured())
		})
	}
}

func TestAPIChannelSend(t *testing.T) {
	var got mailPayload
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ch := NewAPIChannel(config.APIChannelConfig{
		Key:  "sg-key",
		URL:  srv.URL,
		From: "alerts@example.com",
	}, false)

	err := ch.Send(context.Background(), []string{"guardian@example.com", "+14155552671"}, "help me")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sg-key", gotAuth)
	assert.Equal(t, "alerts@example.com", got.From.Email)
	require.Len(t, got.Personalizations, 1)

	// The phone recipient belongs to the SMS channel and must not leak into
	// the email payload.
	require.Len(t, got.Personalizations[0].To, 1)
	assert.Equal(t, "guardian@example.com", got.Personalizations[0].To[0].Email)

	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/plain", got.Content[0].Type)
	assert.Equal(t, "help me", got.Content[0].Value)
}

func TestAPIChannelSendProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ch := NewAPIChannel(config.APIChannelConfig{
		Key:  "bad-key",
		URL:  srv.URL,
		From: "alerts@example.com",
	}, false)

	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestAPIChannelSendNoEmailRecipients(t *testing.T) {
	ch := NewAPIChannel(config.APIChannelConfig{Key: "sg-key", From: "alerts@example.com"}, false)

	err := ch.Send(context.Background(), []string{"+14155552671"}, "help")
	require.Error(t, err)
}

func TestAPIChannelDryRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("dry run must not reach the provider")
	}))
	defer srv.Close()

	ch := NewAPIChannel(config.APIChannelConfig{
		Key:  "sg-key",
		URL:  srv.URL,
		From: "alerts@example.com",
	}, true)

	err := ch.Send(context.Background(), []string{"guardian@example.com"}, "help")
	require.NoError(t, err)
}
