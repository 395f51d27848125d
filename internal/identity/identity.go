// Package identity manages login identities: creation with a hashed password,
// role claims, lookup and removal.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrIdentityNotFound = domain.ErrUserNotFound

// RejectedError reports why an identity could not be created.
type RejectedError struct {
	Reasons []string
}

func (e *RejectedError) Error() string {
	return "identity rejected: " + strings.Join(e.Reasons, "; ")
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Profile struct {
	FullName           string
	Email              string
	UserName           string
	EmailConfirmed     bool
	MustChangePassword bool
}

type Provider struct {
	users UserStore
	cost  int
	log   *zap.Logger
}

func NewProvider(users UserStore, log *zap.Logger) *Provider {
	return &Provider{users: users, cost: bcrypt.DefaultCost, log: log}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (p *Provider) WithCost(cost int) *Provider {
	p.cost = cost
	return p
}

// GenerateLogin derives the login email from a full name: whitespace removed,
// lowercased, at domain. Two people with the same name get the same login.
func GenerateLogin(fullName, domainName string) string {
	local := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, fullName)
	return local + "@" + domainName
}

// ValidatePassword applies the password policy: at least 8 characters with
// an upper-case letter, a lower-case letter, a digit and a symbol.
func ValidatePassword(password string) []string {
	var reasons []string
	if len(password) < 8 {
		reasons = append(reasons, "password must be at least 8 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !upper {
		reasons = append(reasons, "password must contain an upper-case letter")
	}
	if !lower {
		reasons = append(reasons, "password must contain a lower-case letter")
	}
	if !digit {
		reasons = append(reasons, "password must contain a digit")
	}
	if !symbol {
		reasons = append(reasons, "password must contain a symbol")
	}
	return reasons
}

// HashPassword returns the bcrypt hash at the provider's cost.
func (p *Provider) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CreateIdentity stores a new login without a role. Policy violations and
// duplicates come back as *RejectedError.
func (p *Provider) CreateIdentity(ctx context.Context, profile Profile, password string) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	userName := strings.TrimSpace(profile.UserName)
	if userName == "" {
		userName = email
	}

	var reasons []string
	if email == "" || !strings.Contains(email, "@") {
		reasons = append(reasons, fmt.Sprintf("email %q is invalid", profile.Email))
	}
	if strings.TrimSpace(profile.FullName) == "" {
		reasons = append(reasons, "full name is required")
	}
	reasons = append(reasons, ValidatePassword(password)...)
	if len(reasons) > 0 {
		return nil, &RejectedError{Reasons: reasons}
	}

	if _, err := p.users.GetByEmail(ctx, email); err == nil {
		return nil, &RejectedError{Reasons: []string{fmt.Sprintf("email %q is already taken", email)}}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := p.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:                 uuid.New(),
		Email:              email,
		UserName:           userName,
		FullName:           strings.TrimSpace(profile.FullName),
		PasswordHash:       hash,
		EmailConfirmed:     profile.EmailConfirmed,
		MustChangePassword: profile.MustChangePassword,
		IsActive:           true,
		PasswordChangedAt:  time.Now().UTC(),
	}
	if err := p.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, &RejectedError{Reasons: []string{fmt.Sprintf("email %q is already taken", email)}}
		}
		return nil, fmt.Errorf("creating identity: %w", err)
	}

	p.log.Info("identity created", zap.String("user_id", u.ID.String()), zap.String("email", u.Email))
	return u, nil
}

func (p *Provider) AssignRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	if !role.IsValid() {
		return &RejectedError{Reasons: []string{fmt.Sprintf("role %q is unknown", role)}}
	}
	if err := p.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	p.log.Info("role assigned", zap.String("user_id", userID.String()), zap.String("role", string(role)))
	return nil
}

func (p *Provider) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return p.users.GetByID(ctx, id)
}

func (p *Provider) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.users.GetByEmail(ctx, email)
}

func (p *Provider) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	if err := p.users.Delete(ctx, id); err != nil {
		return err
	}
	p.log.Info("identity deleted", zap.String("user_id", id.String()))
	return nil
}
