package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is how long a session token stays valid.
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrMalformed = errors.New("malformed token")
	ErrExpired   = errors.New("token expired")
)

// Claims carried by a session token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Issuer creates and verifies stateless session tokens.
type Issuer struct {
	signer  Signer
	ttl     time.Duration
	nowTime func() time.Time
}

type IssuerOption func(*Issuer)

// WithNowTime overrides the clock, used by tests to move past expiry.
func WithNowTime(nowTime func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowTime
	}
}

func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

func NewIssuer(signer Signer, options ...IssuerOption) (*Issuer, error) {
	if signer == nil {
		return nil, errors.New("[NewIssuer] signer is required")
	}
	i := &Issuer{
		signer:  signer,
		ttl:     DefaultTTL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i, nil
}

// TTL is the lifetime given to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for userID expiring after the issuer's TTL.
func (i *Issuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("[Issuer.Issue] user id is required")
	}
	now := i.nowTime()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.New().String(),
		},
	}
	return i.signer.Sign(claims)
}

// Verify checks the signature and expiry of tokenString. Failures wrap ErrExpired when the
// token was genuine but is past its expiry, ErrMalformed for everything else.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformed)
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, i.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(i.nowTime),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrMalformed)
	}
	return claims, nil
}
