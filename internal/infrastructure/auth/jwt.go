package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/invoicer/backend/internal/infrastructure/config"
)

// Scopes granted to API tokens
const (
	ScopeCatalogRead  = "catalog:read"
	ScopeCatalogWrite = "catalog:write"
	ScopeInvoiceWrite = "invoice:write"
)

// AllScopes is granted when a token is issued without explicit scopes
var AllScopes = []string{ScopeCatalogRead, ScopeCatalogWrite, ScopeInvoiceWrite}

// AnyCompany in the company claim grants access to every company
const AnyCompany = "*"

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingCompanyID = errors.New("missing company_id in claims")
	ErrMissingSecret    = errors.New("token secret is not configured")
)

// Claims are the API token claims. A token is bound to one company, or to all
// companies with AnyCompany.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string   `json:"company_id"`
	Scopes    []string `json:"scopes,omitempty"`
}

// CanAccess reports whether the token may act for companyID
func (c *Claims) CanAccess(companyID string) bool {
	return c.CompanyID == AnyCompany || c.CompanyID == companyID
}

// HasScope reports whether the token carries scope
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// Token is a signed token and its expiry
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// JWTService issues and validates HS256 API tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.AuthConfig) *JWTService {
	exp := cfg.TokenExpiration
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: exp,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// IssueInput describes a token to issue
type IssueInput struct {
	CompanyID string
	Subject   string
	Scopes    []string
	TTL       time.Duration // zero uses the configured expiration
}

// Issue signs a token for one company
func (s *JWTService) Issue(in IssueInput) (*Token, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}
	if in.CompanyID == "" {
		return nil, ErrMissingCompanyID
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = s.expiration
	}
	scopes := in.Scopes
	if len(scopes) == 0 {
		scopes = AllScopes
	}
	subject := in.Subject
	if subject == "" {
		subject = in.CompanyID
	}

	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		CompanyID: in.CompanyID,
		Scopes:    scopes,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, ExpiresAt: now.Add(ttl), TokenType: "Bearer"}, nil
}

// Validate parses and verifies a token and returns its claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.CompanyID == "" {
		return nil, ErrMissingCompanyID
	}
	return claims, nil
}

// Expiration returns the default token lifetime
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}
