package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/google"
)

type oauthProviderStub struct {
	token       *oauth2.Token
	exchangeErr error
	email       string
	emailErr    error
	userinfoHit int
	source      oauth2.TokenSource
}

func (p *oauthProviderStub) AuthCodeURL(state string) string {
	return "https://accounts.test/auth?state=" + url.QueryEscape(state)
}

func (p *oauthProviderStub) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.token, nil
}

func (p *oauthProviderStub) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	if p.source != nil {
		return p.source
	}
	return oauth2.StaticTokenSource(tok)
}

func (p *oauthProviderStub) UserEmail(ctx context.Context, ts oauth2.TokenSource) (string, error) {
	p.userinfoHit++
	return p.email, p.emailErr
}

type tokenRepoStub struct {
	records map[string]models.TokenSet
	saveErr error
	saves   int
}

func newTokenRepoStub() *tokenRepoStub {
	return &tokenRepoStub{records: map[string]models.TokenSet{}}
}

func (r *tokenRepoStub) Save(ctx context.Context, email string, tokens models.TokenSet) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.records[email] = tokens
	return nil
}

func (r *tokenRepoStub) FindByEmail(ctx context.Context, email string) (*models.OAuthTokenRecord, error) {
	tokens, ok := r.records[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.OAuthTokenRecord{Email: email, Tokens: tokens}, nil
}

type stateStoreStub struct {
	pending map[string]bool
}

func (s *stateStoreStub) Remember(ctx context.Context, nonce string, ttl time.Duration) error {
	s.pending[nonce] = true
	return nil
}

func (s *stateStoreStub) Consume(ctx context.Context, nonce string) (bool, error) {
	ok := s.pending[nonce]
	delete(s.pending, nonce)
	return ok, nil
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func stateFromURL(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func unsignedIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("provider-key"))
	require.NoError(t, err)
	return tok
}

func TestOAuthServiceStateRoundTrip(t *testing.T) {
	states := &stateStoreStub{pending: map[string]bool{}}
	svc := NewOAuthService(&oauthProviderStub{}, newTokenRepoStub(), states,
		OAuthServiceConfig{StateSecret: "secret", StateTTL: time.Minute, VerifyState: true}, nil, nil)

	authURL, err := svc.AuthURL(context.Background())
	require.NoError(t, err)
	state := stateFromURL(t, authURL)
	require.NotEmpty(t, state)
	assert.Len(t, states.pending, 1)

	require.NoError(t, svc.VerifyState(context.Background(), state))
	err = svc.VerifyState(context.Background(), state)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))
}

func TestOAuthServiceRejectsForgedOrExpiredState(t *testing.T) {
	svc := NewOAuthService(&oauthProviderStub{}, newTokenRepoStub(), nil,
		OAuthServiceConfig{StateSecret: "secret", StateTTL: time.Minute, VerifyState: true}, nil, nil)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID: "n", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.True(t, errors.Is(svc.VerifyState(context.Background(), forged), appErrors.ErrInvalidState))
	assert.True(t, errors.Is(svc.VerifyState(context.Background(), ""), appErrors.ErrInvalidState))

	authURL, err := svc.AuthURL(context.Background())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.True(t, errors.Is(svc.VerifyState(context.Background(), stateFromURL(t, authURL)), appErrors.ErrInvalidState))
}

func TestOAuthServiceStateVerificationDisabled(t *testing.T) {
	svc := NewOAuthService(&oauthProviderStub{}, newTokenRepoStub(), nil, OAuthServiceConfig{}, nil, nil)

	authURL, err := svc.AuthURL(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, stateFromURL(t, authURL))
	assert.NoError(t, svc.VerifyState(context.Background(), "anything"))
}

func TestOAuthServiceAuthenticateWithIDToken(t *testing.T) {
	idToken := unsignedIDToken(t, jwt.MapClaims{"email": "student@example.com"})
	provider := &oauthProviderStub{token: (&oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: time.UnixMilli(1700000000000)}).
		WithExtra(map[string]interface{}{"id_token": idToken})}
	repo := newTokenRepoStub()
	svc := NewOAuthService(provider, repo, nil, OAuthServiceConfig{}, nil, nil)

	email, err := svc.Authenticate(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", email)
	assert.Equal(t, 0, provider.userinfoHit)
	stored := repo.records["student@example.com"]
	assert.Equal(t, "at", stored.String(models.TokenKeyAccess))
	assert.Equal(t, "rt", stored.String(models.TokenKeyRefresh))
	assert.Equal(t, idToken, stored.String(models.TokenKeyIDToken))
}

func TestOAuthServiceAuthenticateFallsBackToUserinfo(t *testing.T) {
	provider := &oauthProviderStub{token: &oauth2.Token{AccessToken: "at"}, email: "fallback@example.com"}
	repo := newTokenRepoStub()
	svc := NewOAuthService(provider, repo, nil, OAuthServiceConfig{}, nil, nil)

	email, err := svc.Authenticate(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "fallback@example.com", email)
	assert.Equal(t, 1, provider.userinfoHit)
}

func TestOAuthServiceEmailResolutionFailureStoresNothing(t *testing.T) {
	idToken := unsignedIDToken(t, jwt.MapClaims{"sub": "123"})
	provider := &oauthProviderStub{
		token:    (&oauth2.Token{AccessToken: "at"}).WithExtra(map[string]interface{}{"id_token": idToken}),
		emailErr: errors.New("userinfo 500"),
	}
	repo := newTokenRepoStub()
	svc := NewOAuthService(provider, repo, nil, OAuthServiceConfig{}, nil, nil)

	_, err := svc.Authenticate(context.Background(), "code")
	require.Error(t, err)
	var resolveErr *EmailResolutionError
	assert.True(t, errors.As(err, &resolveErr))
	assert.True(t, errors.Is(err, appErrors.ErrEmailResolution))
	assert.Equal(t, 0, repo.saves)
}

func TestOAuthServiceExchangeError(t *testing.T) {
	provider := &oauthProviderStub{exchangeErr: &google.ExchangeError{Code: "invalid_grant", Description: "Bad Request"}}
	svc := NewOAuthService(provider, newTokenRepoStub(), nil, OAuthServiceConfig{}, nil, nil)

	_, err := svc.Exchange(context.Background(), "code")
	require.Error(t, err)
	var exchangeErr *OAuthExchangeError
	require.True(t, errors.As(err, &exchangeErr))
	assert.Equal(t, "invalid_grant", exchangeErr.Code)
	assert.Equal(t, "Bad Request", exchangeErr.Description)
	assert.Contains(t, err.Error(), "invalid_grant")

	_, err = svc.Exchange(context.Background(), "")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestOAuthServiceSessionWithoutTokens(t *testing.T) {
	svc := NewOAuthService(&oauthProviderStub{}, newTokenRepoStub(), nil, OAuthServiceConfig{}, nil, nil)

	_, err := svc.Session(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestOAuthServicePersistIfRefreshedMergesTokens(t *testing.T) {
	repo := newTokenRepoStub()
	repo.records["student@example.com"] = models.TokenSet{
		models.TokenKeyAccess:     "old-access",
		models.TokenKeyRefresh:    "keep-me",
		models.TokenKeyExpiryDate: float64(1000),
		models.TokenKeyScope:      "openid",
	}
	newExpiry := time.UnixMilli(1735689600000)
	provider := &oauthProviderStub{source: tokenSourceFunc(func() (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: "new-access", Expiry: newExpiry}, nil
	})}
	svc := NewOAuthService(provider, repo, nil, OAuthServiceConfig{}, NewMetricsService(), nil)

	session, err := svc.Session(context.Background(), "student@example.com")
	require.NoError(t, err)
	svc.PersistIfRefreshed(context.Background(), session)

	stored := repo.records["student@example.com"]
	assert.Equal(t, "new-access", stored.String(models.TokenKeyAccess))
	assert.Equal(t, "keep-me", stored.String(models.TokenKeyRefresh))
	assert.Equal(t, "openid", stored.String(models.TokenKeyScope))
	assert.True(t, stored.ExpiryDate().Equal(newExpiry))
	assert.Equal(t, 1, repo.saves)
}

func TestOAuthServicePersistIfRefreshedSkipsUnchanged(t *testing.T) {
	repo := newTokenRepoStub()
	repo.records["student@example.com"] = models.TokenSet{
		models.TokenKeyAccess:     "access",
		models.TokenKeyExpiryDate: float64(time.Now().Add(time.Hour).UnixMilli()),
	}
	svc := NewOAuthService(&oauthProviderStub{}, repo, nil, OAuthServiceConfig{}, nil, nil)

	session, err := svc.Session(context.Background(), "student@example.com")
	require.NoError(t, err)
	svc.PersistIfRefreshed(context.Background(), session)
	assert.Equal(t, 0, repo.saves)
}

func TestOAuthServicePersistIfRefreshedSwallowsSaveError(t *testing.T) {
	repo := newTokenRepoStub()
	repo.records["student@example.com"] = models.TokenSet{models.TokenKeyAccess: "old"}
	provider := &oauthProviderStub{source: tokenSourceFunc(func() (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: "new"}, nil
	})}
	svc := NewOAuthService(provider, repo, nil, OAuthServiceConfig{}, nil, nil)

	session, err := svc.Session(context.Background(), "student@example.com")
	require.NoError(t, err)
	repo.saveErr = errors.New("db down")
	assert.NotPanics(t, func() { svc.PersistIfRefreshed(context.Background(), session) })
	assert.Equal(t, "old", session.Stored.String(models.TokenKeyAccess))
}
