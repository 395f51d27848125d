package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenType string

const (
	accessTokenType  tokenType = "access"
	refreshTokenType tokenType = "refresh"
)

// provisionalTTL caps the access token of an account still on its
// provisioned password.
const provisionalTTL = 10 * time.Minute

const clockSkew = 10 * time.Second

var (
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenTypeMismatch = errors.New("wrong token type")
	// ErrPasswordChangePending rejects a refresh for an account that has not
	// replaced its provisioned password.
	ErrPasswordChangePending = errors.New("password change required before refresh")
)

type clinicClaims struct {
	jwt.RegisteredClaims
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	MustChangePassword bool      `json:"mcp,omitempty"`
	TokenType          tokenType `json:"token_type"`
}

// JWTManager issues HS256 token pairs. An account with a provisioned password
// gets a short access token and no refresh token, so it has to change the
// password to keep a session.
type JWTManager struct {
	cfg config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	return &JWTManager{cfg: cfg}
}

func (m *JWTManager) GenerateTokenPair(claims *domain.Claims) (*domain.TokenPair, error) {
	pair := &domain.TokenPair{
		TokenType:          "Bearer",
		MustChangePassword: claims.MustChangePassword,
	}

	accessTTL := m.cfg.AccessTokenTTL
	if claims.MustChangePassword && accessTTL > provisionalTTL {
		accessTTL = provisionalTTL
	}
	now := time.Now()
	pair.ExpiresAt = now.Add(accessTTL)

	var err error
	if pair.AccessToken, err = m.sign(m.claimsFor(claims, accessTokenType, now, pair.ExpiresAt)); err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	if claims.MustChangePassword {
		return pair, nil
	}
	if pair.RefreshToken, err = m.sign(m.claimsFor(claims, refreshTokenType, now, now.Add(m.cfg.RefreshTokenTTL))); err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}
	return pair, nil
}

func (m *JWTManager) ValidateAccessToken(tokenString string) (*domain.Claims, error) {
	return m.parse(tokenString, accessTokenType)
}

func (m *JWTManager) ValidateRefreshToken(tokenString string) (*domain.Claims, error) {
	claims, err := m.parse(tokenString, refreshTokenType)
	if err != nil {
		return nil, err
	}
	if claims.MustChangePassword {
		return nil, ErrPasswordChangePending
	}
	return claims, nil
}

func (m *JWTManager) claimsFor(c *domain.Claims, ttype tokenType, issued, expires time.Time) clinicClaims {
	return clinicClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   c.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
			NotBefore: jwt.NewNumericDate(issued.Add(-clockSkew)),
		},
		Email:              c.Email,
		Role:               string(c.Role),
		MustChangePassword: c.MustChangePassword,
		TokenType:          ttype,
	}
}

func (m *JWTManager) sign(c clinicClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(m.cfg.Secret))
}

func (m *JWTManager) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(m.cfg.Secret), nil
}

// parse verifies signature, issuer and expiry, then checks the token type
// and that the role is one the clinic knows.
func (m *JWTManager) parse(tokenString string, expected tokenType) (*domain.Claims, error) {
	var cc clinicClaims
	token, err := jwt.ParseWithClaims(tokenString, &cc, m.keyFunc,
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil, !token.Valid:
		return nil, ErrTokenInvalid
	}

	if cc.TokenType != expected {
		return nil, ErrTokenTypeMismatch
	}
	userID, err := uuid.Parse(cc.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	role, ok := domain.ParseRole(cc.Role)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return &domain.Claims{
		UserID:             userID,
		Email:              cc.Email,
		Role:               role,
		MustChangePassword: cc.MustChangePassword,
	}, nil
}
