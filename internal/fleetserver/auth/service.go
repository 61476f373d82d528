package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/apierror"
	"github.com/luxfleet-io/luxfleet/internal/pkg/metrics"
	"github.com/luxfleet-io/luxfleet/pkg/options"
)

// Purpose distinguishes access tokens from refresh tokens. Cross-use is
// rejected.
type Purpose string

const (
	PurposeAccess  Purpose = "Access"
	PurposeRefresh Purpose = "Refresh"
)

// Claims is the signed payload of both token flavours, distinguished by
// Purpose.
type Claims struct {
	// Purpose of the token.
	Purpose Purpose `json:"purpose"`

	// Scopes granted to the bearer.
	Scopes ScopeSet `json:"scopes"`

	jwt.RegisteredClaims
}

// Token is a freshly minted credential pair.
type Token struct {
	// AccessToken authorises API calls.
	AccessToken string

	// RefreshToken can be exchanged for a new pair.
	RefreshToken string

	// RenewAt is when a client should start renewing, one hour before expiry
	// but never in the past.
	RenewAt time.Time

	// ExpiresAt is when both tokens stop validating.
	ExpiresAt time.Time
}

// ErrWrongPurpose reports a token presented for the other flavour's
// validation. Callers collapse it, like every other validation failure, into
// the token-expired response.
var ErrWrongPurpose = errors.New("the token was the wrong type")

// Service mints and validates tokens with a process-wide shared secret.
type Service struct {
	secret []byte
	expiry time.Duration
}

// NewService builds a token service from its options.
func NewService(opts *options.TokenOptions) *Service {
	return &Service{
		secret: []byte(opts.Secret),
		expiry: opts.Expiry,
	}
}

// Mint produces a new access/refresh pair carrying the given scopes verbatim.
func (s *Service) Mint(scopes ScopeSet) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	access, err := s.sign(PurposeAccess, scopes, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(PurposeRefresh, scopes, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	renewAt := expiresAt.Add(-time.Hour)
	if renewAt.Before(now) {
		renewAt = now
	}

	return &Token{
		AccessToken:  access,
		RefreshToken: refresh,
		RenewAt:      renewAt,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) sign(purpose Purpose, scopes ScopeSet, expiresAt time.Time) (string, error) {
	claims := &Claims{
		Purpose: purpose,
		Scopes:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateAccess verifies signature and expiry and requires an access-purpose
// token.
func (s *Service) ValidateAccess(token string) (*Claims, error) {
	return s.validate(token, PurposeAccess)
}

// ValidateRefresh verifies signature and expiry and requires a
// refresh-purpose token.
func (s *Service) ValidateRefresh(token string) (*Claims, error) {
	return s.validate(token, PurposeRefresh)
}

func (s *Service) validate(token string, purpose Purpose) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// Refresh exchanges a refresh token for a new pair. The granted scopes are
// the intersection of the requested scopes and the scopes held by the
// presented token; asking for a scope the token does not hold silently drops
// it. Openid and offline access must survive the intersection.
func (s *Service) Refresh(refreshToken, requestedScopes string) (*Token, error) {
	claims, err := s.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apierror.New(apierror.KindTokenExpired)
	}

	requested, err := ParseScopeSet(requestedScopes)
	if err != nil {
		return nil, apierror.Internal("could not parse scopes: %v", err)
	}

	granted := requested.Intersect(claims.Scopes)

	if !granted.Has(ScopeOpenid) {
		return nil, apierror.NotImplemented("We require openid scope for now.")
	}
	if !granted.Has(ScopeOfflineAccess) {
		return nil, apierror.NotImplemented("We require offline_access scope for now.")
	}

	token, err := s.Mint(granted)
	if err != nil {
		return nil, apierror.Internal("could not create token: %v", err)
	}

	metrics.TokensIssuedTotal.WithLabelValues("refresh_token").Inc()
	return token, nil
}
