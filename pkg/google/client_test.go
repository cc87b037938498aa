package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"

	"github.com/skillnaav/skillnaav-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.GoogleConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/callback",
		AuthURL:      srv.URL + "/o/oauth2/auth",
		TokenURL:     srv.URL + "/token",
		APIBaseURL:   srv.URL,
	}
	return NewClient(cfg, "primary", srv.Client())
}

func TestAuthCodeURLRequestsOfflineConsent(t *testing.T) {
	client := NewClient(config.GoogleConfig{ClientID: "client", RedirectURI: "http://localhost/cb"}, "", nil)

	raw := client.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
	for _, scope := range []string{"userinfo.email", "auth/calendar", "calendar.events", "openid"} {
		assert.Contains(t, q.Get("scope"), scope)
	}
}

func TestNewOAuthConfigIsFreshPerCall(t *testing.T) {
	cfg := config.GoogleConfig{ClientID: "a"}
	first := NewOAuthConfig(cfg)
	first.ClientID = "mutated"
	assert.Equal(t, "a", NewOAuthConfig(cfg).ClientID)
}

func TestExchangeSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		assert.Equal(t, "authorization_code", form.Get("grant_type"))
		assert.Equal(t, "the-code", form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600,"id_token":"idt"}`))
	})
	client := newTestClient(t, mux)

	tok, err := client.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, "rt", tok.RefreshToken)
	assert.Equal(t, "idt", tok.Extra("id_token"))
}

func TestExchangeProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
	})
	client := newTestClient(t, mux)

	_, err := client.Exchange(context.Background(), "used-code")
	require.Error(t, err)
	var exchangeErr *ExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	assert.Equal(t, "invalid_grant", exchangeErr.Code)
	assert.Equal(t, "Bad Request", exchangeErr.Description)
	assert.Equal(t, http.StatusBadRequest, exchangeErr.StatusCode)
}

func TestUserEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"student@example.com"}`))
	})
	client := newTestClient(t, mux)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "at", Expiry: time.Now().Add(time.Hour)})
	email, err := client.UserEmail(context.Background(), ts)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", email)
}

func TestCalendarPingAndInsert(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendar/v3/users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("maxResults"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"primary"}]}`))
	})
	mux.HandleFunc("/calendar/v3/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))
		var ev calendar.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		assert.True(t, strings.HasPrefix(ev.Summary, "Internship"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt-1","htmlLink":"https://calendar.test/evt-1","hangoutLink":"https://meet.test/abc"}`))
	})
	client := newTestClient(t, mux)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "at", Expiry: time.Now().Add(time.Hour)})
	api, err := client.Calendar(context.Background(), ts)
	require.NoError(t, err)
	require.NoError(t, api.Ping(context.Background()))

	created, err := api.InsertEvent(context.Background(), &calendar.Event{Summary: "Internship - Session"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.Id)
	assert.Equal(t, "https://meet.test/abc", created.HangoutLink)
}

func TestCalendarPingFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendar/v3/users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	})
	client := newTestClient(t, mux)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "expired", Expiry: time.Now().Add(time.Hour)})
	api, err := client.Calendar(context.Background(), ts)
	require.NoError(t, err)
	assert.Error(t, api.Ping(context.Background()))
}
