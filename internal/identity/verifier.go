package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier resolves a bearer token to an account identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client *auth.Client) (*FirebaseVerifier, error) {
	if client == nil {
		return nil, errors.New("firebase auth client is required")
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Anonymous(), pkgerrors.New(pkgerrors.CodeUnauthorized, "token is required")
	}
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Anonymous(), pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid id token")
	}
	if decoded.UID == "" {
		return Anonymous(), pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no subject")
	}
	return Account(decoded.UID), nil
}

// JWTVerifier checks HS256 tokens signed with a shared secret. Used for local development
// where no Firebase project is available.
type JWTVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Anonymous(), pkgerrors.New(pkgerrors.CodeUnauthorized, "token is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Anonymous(), pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.Subject == "" {
		return Anonymous(), pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no subject")
	}
	return Account(claims.Subject), nil
}

// MintJWT signs a development token for accountID valid for ttl.
func MintJWT(secret, issuer, accountID string, ttl time.Duration) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("account id is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
