package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "loop-device",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestWebhookAuth_Enabled(t *testing.T) {
	t.Parallel()

	if NewWebhookAuthService("").Enabled() {
		t.Fatalf("empty secret must disable the guard")
	}
	if !NewWebhookAuthService("s3cret").Enabled() {
		t.Fatalf("non-empty secret must enable the guard")
	}
}

func TestWebhookAuth_VerifyToken(t *testing.T) {
	t.Parallel()

	svc := NewWebhookAuthService("s3cret")

	cases := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", signToken(t, "s3cret", time.Now().Add(time.Hour)), false},
		{"wrong secret", signToken(t, "other", time.Now().Add(time.Hour)), true},
		{"expired", signToken(t, "s3cret", time.Now().Add(-time.Hour)), true},
		{"garbage", "not.a.token", true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := svc.VerifyToken(tc.token)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Fatalf("want ErrInvalidToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWebhookAuth_RejectsNonHMACAlg(t *testing.T) {
	t.Parallel()

	// alg=none style tokens must never verify.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"iss": "x"})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	svc := NewWebhookAuthService("s3cret")
	if err := svc.VerifyToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for alg=none, got %v", err)
	}
}
