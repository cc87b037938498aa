package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/skillnaav/skillnaav-api/pkg/config"
)

// Scopes requested on the consent screen.
var Scopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	calendar.CalendarScope,
	calendar.CalendarEventsScope,
	"openid",
}

// NewOAuthConfig builds a fresh OAuth client configuration from explicit credentials.
func NewOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	endpoint := googleoauth.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint:     endpoint,
	}
}

// ExchangeError is returned when the token endpoint rejects an authorization code.
type ExchangeError struct {
	Code        string
	Description string
	StatusCode  int
	Err         error
}

func (e *ExchangeError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	case e.Code != "":
		return e.Code
	case e.Err != nil:
		return e.Err.Error()
	}
	return "token exchange failed"
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// CalendarAPI is the subset of the Calendar API used for schedule sync.
type CalendarAPI interface {
	Ping(ctx context.Context) error
	InsertEvent(ctx context.Context, event *calendar.Event) (*calendar.Event, error)
}

// Client constructs OAuth and API clients per call. It holds no token state.
type Client struct {
	cfg        config.GoogleConfig
	calendarID string
	httpClient *http.Client
}

// NewClient returns a Client. httpClient may be nil to use the default transport.
func NewClient(cfg config.GoogleConfig, calendarID string, httpClient *http.Client) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{cfg: cfg, calendarID: calendarID, httpClient: httpClient}
}

// AuthCodeURL returns the consent screen URL requesting offline access.
func (c *Client) AuthCodeURL(state string) string {
	return NewOAuthConfig(c.cfg).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := NewOAuthConfig(c.cfg).Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			exchangeErr := &ExchangeError{
				Code:        retrieveErr.ErrorCode,
				Description: retrieveErr.ErrorDescription,
				Err:         err,
			}
			if retrieveErr.Response != nil {
				exchangeErr.StatusCode = retrieveErr.Response.StatusCode
			}
			return nil, exchangeErr
		}
		return nil, &ExchangeError{Err: err}
	}
	return tok, nil
}

// TokenSource wraps a stored token so expired access tokens are refreshed on demand.
func (c *Client) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return NewOAuthConfig(c.cfg).TokenSource(c.withHTTPClient(ctx), tok)
}

// UserEmail asks the userinfo endpoint for the account's email.
func (c *Client) UserEmail(ctx context.Context, ts oauth2.TokenSource) (string, error) {
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(c.withHTTPClient(ctx), ts))}
	if base := c.apiBase(); base != "" {
		opts = append(opts, option.WithEndpoint(base+"/"))
	}
	svc, err := oauthapi.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return "", errors.New("userinfo response has no email")
	}
	return info.Email, nil
}

// Calendar opens a Calendar API session on the configured calendar.
func (c *Client) Calendar(ctx context.Context, ts oauth2.TokenSource) (CalendarAPI, error) {
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(c.withHTTPClient(ctx), ts))}
	if base := c.apiBase(); base != "" {
		opts = append(opts, option.WithEndpoint(base+"/calendar/v3/"))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &CalendarService{svc: svc, calendarID: c.calendarID}, nil
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *Client) apiBase() string {
	return strings.TrimRight(c.cfg.APIBaseURL, "/")
}

// CalendarService is a Calendar API session bound to one calendar.
type CalendarService struct {
	svc        *calendar.Service
	calendarID string
}

// Ping lists a single calendar to prove the credentials can reach the API.
func (s *CalendarService) Ping(ctx context.Context) error {
	if _, err := s.svc.CalendarList.List().MaxResults(1).Context(ctx).Do(); err != nil {
		return fmt.Errorf("list calendars: %w", err)
	}
	return nil
}

// InsertEvent creates the event. Conference data is always negotiated so Meet links are returned.
func (s *CalendarService) InsertEvent(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	created, err := s.svc.Events.Insert(s.calendarID, event).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return created, nil
}
