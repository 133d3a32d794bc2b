package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type sentMessage struct {
	Subject string `json:"subject"`
	From    struct {
		Email string `json:"email"`
	} `json:"from"`
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestSendGridClient_Send(t *testing.T) {
	var got sentMessage
	var auth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost || r.URL.Path != "/v3/mail/send" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := NewSendGridClient("SG.key", ts.URL, "orders@example.com", zap.NewNop())
	err := client.Send(context.Background(), "user@example.com", "Order 1 receipt", "1 x A <b>")
	require.NoError(t, err)

	assert.Equal(t, "Bearer SG.key", auth)
	assert.Equal(t, "Order 1 receipt", got.Subject)
	assert.Equal(t, "orders@example.com", got.From.Email)
	require.Len(t, got.Personalizations, 1)
	require.Len(t, got.Personalizations[0].To, 1)
	assert.Equal(t, "user@example.com", got.Personalizations[0].To[0].Email)
	require.Len(t, got.Content, 2)
	assert.Equal(t, "1 x A <b>", got.Content[0].Value)
	assert.Contains(t, got.Content[1].Value, "&lt;b&gt;")
}

func TestSendGridClient_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer ts.Close()

	client := NewSendGridClient("SG.key", ts.URL, "orders@example.com", nil)
	err := client.Send(context.Background(), "user@example.com", "s", "b")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status=401"), err.Error())
}

func TestSendGridClient_Misconfigured(t *testing.T) {
	assert.Error(t, NewSendGridClient("", "", "orders@example.com", nil).Send(context.Background(), "u@example.com", "s", "b"))
	assert.Error(t, NewSendGridClient("SG.key", "", "", nil).Send(context.Background(), "u@example.com", "s", "b"))
	assert.Error(t, NewSendGridClient("SG.key", "", "orders@example.com", nil).Send(context.Background(), "", "s", "b"))
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Send(context.Background(), "user@example.com", "Order 1 receipt", "body"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "user@example.com", fields["to"])
	assert.Equal(t, "Order 1 receipt", fields["subject"])
}
