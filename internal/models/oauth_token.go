package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
)

// Keys used inside the stored token blob. They follow the provider's field names.
const (
	TokenKeyAccess     = "access_token"
	TokenKeyRefresh    = "refresh_token"
	TokenKeyType       = "token_type"
	TokenKeyExpiryDate = "expiry_date"
	TokenKeyScope      = "scope"
	TokenKeyIDToken    = "id_token"
)

// TokenSet is the opaque credential blob issued by the OAuth provider.
type TokenSet map[string]interface{}

// Merge overlays newer fields on top of the receiver. Fields absent from newer are kept.
func (t TokenSet) Merge(newer TokenSet) TokenSet {
	merged := make(TokenSet, len(t)+len(newer))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range newer {
		merged[k] = v
	}
	return merged
}

// String returns a string field or "".
func (t TokenSet) String(key string) string {
	if v, ok := t[key].(string); ok {
		return v
	}
	return ""
}

// ExpiryDate returns the access token expiry encoded as epoch milliseconds.
func (t TokenSet) ExpiryDate() time.Time {
	var ms int64
	switch v := t[TokenKeyExpiryDate].(type) {
	case float64:
		ms = int64(v)
	case int64:
		ms = v
	case int:
		ms = int64(v)
	case json.Number:
		ms, _ = v.Int64()
	default:
		return time.Time{}
	}
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// SameAccess reports whether both sets carry the same access token and expiry.
func (t TokenSet) SameAccess(other TokenSet) bool {
	return t.String(TokenKeyAccess) == other.String(TokenKeyAccess) &&
		t.ExpiryDate().Equal(other.ExpiryDate())
}

// OAuth2 converts the blob into a token usable by an oauth2 client.
func (t TokenSet) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.String(TokenKeyAccess),
		RefreshToken: t.String(TokenKeyRefresh),
		TokenType:    t.String(TokenKeyType),
		Expiry:       t.ExpiryDate(),
	}
	extra := map[string]interface{}{}
	if scope := t.String(TokenKeyScope); scope != "" {
		extra[TokenKeyScope] = scope
	}
	if idToken := t.String(TokenKeyIDToken); idToken != "" {
		extra[TokenKeyIDToken] = idToken
	}
	if len(extra) > 0 {
		tok = tok.WithExtra(extra)
	}
	return tok
}

// TokenSetFromOAuth2 converts a token issued by the oauth2 client into a storable blob.
// Empty fields are left out so a merge never erases a stored refresh token.
func TokenSetFromOAuth2(tok *oauth2.Token) TokenSet {
	set := TokenSet{}
	if tok == nil {
		return set
	}
	if tok.AccessToken != "" {
		set[TokenKeyAccess] = tok.AccessToken
	}
	if tok.RefreshToken != "" {
		set[TokenKeyRefresh] = tok.RefreshToken
	}
	if tok.TokenType != "" {
		set[TokenKeyType] = tok.TokenType
	}
	if !tok.Expiry.IsZero() {
		set[TokenKeyExpiryDate] = float64(tok.Expiry.UnixMilli())
	}
	if scope, ok := tok.Extra(TokenKeyScope).(string); ok && scope != "" {
		set[TokenKeyScope] = scope
	}
	if idToken, ok := tok.Extra(TokenKeyIDToken).(string); ok && idToken != "" {
		set[TokenKeyIDToken] = idToken
	}
	return set
}

// Value implements driver.Valuer.
func (t TokenSet) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *TokenSet) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// OAuthTokenRecord is the persisted token set for one authenticated email.
type OAuthTokenRecord struct {
	Email     string    `db:"email" json:"email"`
	Tokens    TokenSet  `db:"tokens" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
