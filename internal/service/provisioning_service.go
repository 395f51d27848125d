package service

import (
	"context"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/identity"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IdentityProvider interface {
	CreateIdentity(ctx context.Context, profile identity.Profile, password string) (*domain.User, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role domain.Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	DeleteIdentity(ctx context.Context, id uuid.UUID) error
}

// ProvisioningService creates the login behind a doctor, nurse or patient
// profile. Logins are derived from the full name, so two people with the
// same name collide and the second is rejected.
type ProvisioningService struct {
	identities IdentityProvider
	cfg        config.ProvisioningConfig
	metrics    *metrics.Collector
	log        *zap.Logger
}

func NewProvisioningService(identities IdentityProvider, cfg config.ProvisioningConfig, m *metrics.Collector, log *zap.Logger) *ProvisioningService {
	return &ProvisioningService{identities: identities, cfg: cfg, metrics: m, log: log}
}

// Provision creates an identity with the default password, grants role and
// runs writeProfile with the new user id. When writeProfile fails the
// identity is removed again so no login is left without a profile.
func (s *ProvisioningService) Provision(ctx context.Context, fullName string, role domain.Role, writeProfile func(userID uuid.UUID) error) (*domain.User, error) {
	login := identity.GenerateLogin(fullName, s.cfg.EmailDomain)

	u, err := s.identities.CreateIdentity(ctx, identity.Profile{
		FullName:           fullName,
		Email:              login,
		UserName:           login,
		EmailConfirmed:     true,
		MustChangePassword: true,
	}, s.cfg.DefaultPassword)
	if err != nil {
		s.metrics.AccountsProvisioned.WithLabelValues(string(role), "rejected").Inc()
		s.log.Warn("identity rejected", zap.String("login", login), zap.Error(err))
		return nil, err
	}

	if err := s.identities.AssignRole(ctx, u.ID, role); err != nil {
		s.compensate(ctx, u.ID, role)
		return nil, fmt.Errorf("assigning role: %w", err)
	}
	u.Role = role

	if err := writeProfile(u.ID); err != nil {
		s.compensate(ctx, u.ID, role)
		return nil, err
	}

	s.metrics.AccountsProvisioned.WithLabelValues(string(role), "created").Inc()
	s.log.Info("account provisioned",
		zap.String("user_id", u.ID.String()),
		zap.String("login", u.Email),
		zap.String("role", string(role)),
	)
	return u, nil
}

// DefaultPassword is the password handed to newly provisioned accounts.
func (s *ProvisioningService) DefaultPassword() string {
	return s.cfg.DefaultPassword
}

func (s *ProvisioningService) compensate(ctx context.Context, userID uuid.UUID, role domain.Role) {
	s.metrics.AccountsProvisioned.WithLabelValues(string(role), "failed").Inc()
	if err := s.identities.DeleteIdentity(ctx, userID); err != nil {
		s.log.Error("failed to remove identity after profile failure",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
