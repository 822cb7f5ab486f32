package turnstile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mymai1208/AntiBot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret-key", r.PostForm.Get("secret"))
		assert.Equal(t, "client-response", r.PostForm.Get("response"))
		assert.Equal(t, "203.0.113.7", r.PostForm.Get("remoteip"))
		_, _ = w.Write([]byte(`{"success":true,"hostname":"localhost","error-codes":[]}`))
	}))
	defer srv.Close()

	v := NewVerifier("secret-key", srv.URL, srv.Client())
	assert.NoError(t, v.Verify(context.Background(), "client-response", "203.0.113.7"))
}

func TestVerify_OmitsEmptyRemoteIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, present := r.PostForm["remoteip"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewVerifier("s", srv.URL, nil).Verify(context.Background(), "r", ""))
}

func TestVerify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	err := NewVerifier("s", srv.URL, srv.Client()).Verify(context.Background(), "bad", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChallengeFailed))
	assert.Contains(t, err.Error(), "invalid-input-response")
}

func TestVerify_BadStatusAndBody(t *testing.T) {
	for name, h := range map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		"body":   func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			err := NewVerifier("s", srv.URL, srv.Client()).Verify(context.Background(), "r", "")
			assert.True(t, errors.Is(err, domain.ErrChallengeFailed))
		})
	}
}

func TestVerify_TimeoutIsFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := NewVerifier("s", srv.URL, srv.Client()).Verify(ctx, "r", "")
	assert.True(t, errors.Is(err, domain.ErrChallengeFailed))
}
