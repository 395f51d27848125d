package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/identity"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
)

const maxFailedAttempts = 5

const lockDuration = 15 * time.Minute

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool, lockUntil *time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// PasswordHasher hashes at the configured bcrypt cost.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type AuthService struct {
	userRepo   UserRepository
	hasher     PasswordHasher
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
	now        func() time.Time
}

func NewAuthService(userRepo UserRepository, hasher PasswordHasher, jwtManager *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtManager: jwtManager,
		auditSvc:   auditSvc,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error("failed to load user", zap.Error(err))
			return nil, fmt.Errorf("loading user: %w", err)
		}
		// Burn a hash so a missing email costs the same as a wrong password.
		_, _ = s.hasher.HashPassword(password)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		var lockUntil *time.Time
		if user.FailedLoginCount+1 >= maxFailedAttempts {
			until := s.now().UTC().Add(lockDuration)
			lockUntil = &until
		}
		if err := s.userRepo.UpdateLoginAttempt(ctx, user.ID, false, lockUntil); err != nil {
			s.log.Error("failed to record login attempt", zap.Error(err))
		}
		s.log.Warn("failed login attempt",
			zap.String("email", user.Email),
			zap.String("ip", ip),
			zap.Bool("locked", lockUntil != nil),
		)
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLoginAttempt(ctx, user.ID, true, nil); err != nil {
		s.log.Error("failed to record login attempt", zap.Error(err))
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, Caller{UserID: user.ID, Role: user.Role, IP: ip}.entry(domain.ActionLogin, "user", user.ID.String()))
	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return pair, nil
}

// Refresh issues a new token pair given a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate user is still active
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// ChangePassword verifies the current password, applies the password policy
// and returns fresh tokens without the change-required flag.
func (s *AuthService) ChangePassword(ctx context.Context, c Caller, currentPassword, newPassword string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByID(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return nil, ErrInvalidCredentials
	}

	reasons := identity.ValidatePassword(newPassword)
	if currentPassword == newPassword {
		reasons = append(reasons, "new password must differ from the current one")
	}
	if len(reasons) > 0 {
		return nil, &ValidationError{Fields: reasons}
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.log.Error("failed to update password", zap.Error(err))
		return nil, fmt.Errorf("updating password: %w", err)
	}
	user.MustChangePassword = false

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "user", user.ID.String()))
	s.log.Info("password changed", zap.String("user_id", user.ID.String()))

	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*domain.TokenPair, error) {
	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID:             user.ID,
		Email:              user.Email,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
	})
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return pair, nil
}
