package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
	"github.com/skillnaav/skillnaav-api/pkg/google"
)

// ErrNoTokens is returned when no credentials are stored for an email.
var ErrNoTokens = errors.New("no authentication tokens found")

type oauthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource
	UserEmail(ctx context.Context, ts oauth2.TokenSource) (string, error)
}

type oauthTokenRepository interface {
	Save(ctx context.Context, email string, tokens models.TokenSet) error
	FindByEmail(ctx context.Context, email string) (*models.OAuthTokenRecord, error)
}

type oauthStateStore interface {
	Remember(ctx context.Context, nonce string, ttl time.Duration) error
	Consume(ctx context.Context, nonce string) (bool, error)
}

// OAuthExchangeError carries the provider's rejection of an authorization code.
type OAuthExchangeError struct {
	Code        string
	Description string
	Err         error
}

func (e *OAuthExchangeError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("OAuth exchange failed: %s (%s)", e.Description, e.Code)
	case e.Description != "":
		return "OAuth exchange failed: " + e.Description
	case e.Code != "":
		return "OAuth exchange failed: " + e.Code
	}
	return "OAuth exchange failed"
}

func (e *OAuthExchangeError) Unwrap() error { return e.Err }

// EmailResolutionError means tokens were issued but no email could be attributed to them.
type EmailResolutionError struct {
	Err error
}

func (e *EmailResolutionError) Error() string {
	if e.Err == nil {
		return "unable to resolve account email"
	}
	return "unable to resolve account email: " + e.Err.Error()
}

func (e *EmailResolutionError) Unwrap() error { return e.Err }

// OAuthServiceConfig controls anti-forgery state handling.
type OAuthServiceConfig struct {
	StateSecret string
	StateTTL    time.Duration
	VerifyState bool
}

// TokenSession is a live credential for one email. Source refreshes expired access tokens.
type TokenSession struct {
	Email  string
	Stored models.TokenSet
	Source oauth2.TokenSource
}

// OAuthService runs the authorization code flow and owns stored provider tokens.
type OAuthService struct {
	provider oauthProvider
	tokens   oauthTokenRepository
	states   oauthStateStore
	cfg      OAuthServiceConfig
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewOAuthService constructs the service. states and metrics may be nil.
func NewOAuthService(provider oauthProvider, tokens oauthTokenRepository, states oauthStateStore, cfg OAuthServiceConfig, metrics *MetricsService, logger *zap.Logger) *OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	return &OAuthService{
		provider: provider,
		tokens:   tokens,
		states:   states,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// AuthURL returns the consent screen URL with a fresh state parameter.
func (s *OAuthService) AuthURL(ctx context.Context) (string, error) {
	nonce := uuid.NewString()
	if !s.cfg.VerifyState {
		return s.provider.AuthCodeURL(nonce), nil
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        nonce,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.StateTTL)),
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.StateSecret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign oauth state")
	}
	if s.states != nil {
		if err := s.states.Remember(ctx, nonce, s.cfg.StateTTL); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record oauth state")
		}
	}
	return s.provider.AuthCodeURL(state), nil
}

// VerifyState checks a callback state's signature and expiry and consumes its nonce.
func (s *OAuthService) VerifyState(ctx context.Context, state string) error {
	if !s.cfg.VerifyState {
		return nil
	}
	if state == "" {
		return appErrors.Clone(appErrors.ErrInvalidState, "missing oauth state")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.StateSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidState.Code, appErrors.ErrInvalidState.Status, appErrors.ErrInvalidState.Message)
	}
	if s.states == nil {
		return nil
	}
	ok, err := s.states.Consume(ctx, claims.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check oauth state")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrInvalidState, "oauth state already used")
	}
	return nil
}

// Exchange trades an authorization code for provider tokens.
func (s *OAuthService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if strings.TrimSpace(code) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "authorization code is required")
	}
	tok, err := s.provider.Exchange(ctx, code)
	if err != nil {
		exchangeErr := &OAuthExchangeError{Description: err.Error(), Err: err}
		var providerErr *google.ExchangeError
		if errors.As(err, &providerErr) && providerErr.Code != "" {
			exchangeErr.Code = providerErr.Code
			exchangeErr.Description = providerErr.Description
		}
		return nil, appErrors.Wrap(exchangeErr, appErrors.ErrOAuthExchange.Code, appErrors.ErrOAuthExchange.Status, exchangeErr.Error())
	}
	return tok, nil
}

// ResolveEmail reads the email claim of the id_token, falling back to the userinfo endpoint.
func (s *OAuthService) ResolveEmail(ctx context.Context, tok *oauth2.Token) (string, error) {
	if idToken, ok := tok.Extra(models.TokenKeyIDToken).(string); ok && idToken != "" {
		email, err := emailFromIDToken(idToken)
		if err == nil {
			return email, nil
		}
		s.logger.Debug("id_token carried no usable email", zap.Error(err))
	}

	email, err := s.provider.UserEmail(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		resolveErr := &EmailResolutionError{Err: err}
		return "", appErrors.Wrap(resolveErr, appErrors.ErrEmailResolution.Code, appErrors.ErrEmailResolution.Status, appErrors.ErrEmailResolution.Message)
	}
	return email, nil
}

// emailFromIDToken decodes the claims without verifying the signature.
func emailFromIDToken(idToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", errors.New("id_token has no email claim")
	}
	return email, nil
}

// Authenticate exchanges code, resolves the account email and stores the tokens under it.
// Nothing is stored when the email cannot be resolved.
func (s *OAuthService) Authenticate(ctx context.Context, code string) (string, error) {
	tok, err := s.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	email, err := s.ResolveEmail(ctx, tok)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Save(ctx, email, models.TokenSetFromOAuth2(tok)); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store oauth tokens")
	}
	s.logger.Info("oauth tokens stored", zap.String("email", email))
	return email, nil
}

// Session loads the stored tokens for email. It returns ErrNoTokens when there are none.
func (s *OAuthService) Session(ctx context.Context, email string) (*TokenSession, error) {
	record, err := s.tokens.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoTokens
		}
		return nil, fmt.Errorf("load tokens: %w", err)
	}
	if len(record.Tokens) == 0 {
		return nil, ErrNoTokens
	}
	return &TokenSession{
		Email:  email,
		Stored: record.Tokens,
		Source: s.provider.TokenSource(ctx, record.Tokens.OAuth2()),
	}, nil
}

// PersistIfRefreshed compares the session's current token with the stored one and merges and
// saves it when the provider issued a new access token. Failures are logged only.
func (s *OAuthService) PersistIfRefreshed(ctx context.Context, session *TokenSession) {
	if session == nil || session.Source == nil {
		return
	}
	current, err := session.Source.Token()
	if err != nil {
		s.logger.Warn("token source unavailable after calendar call", zap.String("email", session.Email), zap.Error(err))
		return
	}
	fresh := models.TokenSetFromOAuth2(current)
	if fresh.SameAccess(session.Stored) {
		return
	}
	merged := session.Stored.Merge(fresh)
	if err := s.tokens.Save(ctx, session.Email, merged); err != nil {
		s.metrics.RecordTokenRefresh(false)
		s.logger.Error("failed to persist refreshed tokens", zap.String("email", session.Email), zap.Error(err))
		return
	}
	session.Stored = merged
	s.metrics.RecordTokenRefresh(true)
	s.logger.Info("refreshed tokens persisted", zap.String("email", session.Email))
}
