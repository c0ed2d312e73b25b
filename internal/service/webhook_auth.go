package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expired claims, garbage input.
var ErrInvalidToken = errors.New("invalid token")

// WebhookAuthService verifies HS256 bearer tokens signed with the shared
// webhook secret. There are no user accounts: the Loop device is the only
// caller, so a single shared secret is the whole trust model.
type WebhookAuthService struct {
	secret []byte
}

func NewWebhookAuthService(secret string) *WebhookAuthService {
	return &WebhookAuthService{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured. When false the webhook
// surface runs open (local/testing setups).
func (s *WebhookAuthService) Enabled() bool {
	return len(s.secret) > 0
}

// VerifyToken parses and validates the token. Expiry is honored when the
// claim is present.
func (s *WebhookAuthService) VerifyToken(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
