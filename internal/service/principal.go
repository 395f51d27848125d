package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/nurse"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/google/uuid"
)

// resolvePrincipal attaches the profile the caller's identity owns, if any.
// A missing profile leaves the matching id nil.
func resolvePrincipal(ctx context.Context, u uow.UnitOfWork, c Caller) (access.Principal, error) {
	if c.UserID == uuid.Nil {
		return access.Anonymous, nil
	}
	p := access.Principal{UserID: c.UserID, Role: c.Role}

	switch c.Role {
	case domain.RoleDoctor:
		d, err := u.Doctors().GetByUserID(ctx, c.UserID)
		if err != nil && !errors.Is(err, doctor.ErrDoctorNotFound) {
			return p, fmt.Errorf("resolving doctor profile: %w", err)
		}
		if d != nil {
			p.DoctorID = &d.ID
		}
	case domain.RolePatient:
		pt, err := u.Patients().GetByUserID(ctx, c.UserID)
		if err != nil && !errors.Is(err, patient.ErrPatientNotFound) {
			return p, fmt.Errorf("resolving patient profile: %w", err)
		}
		if pt != nil {
			p.PatientID = &pt.ID
		}
	case domain.RoleNurse:
		n, err := u.Nurses().GetByUserID(ctx, c.UserID)
		if err != nil && !errors.Is(err, nurse.ErrNurseNotFound) {
			return p, fmt.Errorf("resolving nurse profile: %w", err)
		}
		if n != nil {
			p.NurseID = &n.ID
		}
	}
	return p, nil
}

// authorize resolves the caller and asks access.Decide. A denial comes back
// as ErrForbidden carrying the reason.
func authorize(ctx context.Context, u uow.UnitOfWork, c Caller, res access.Resource, act access.Action, t access.Target) (access.Principal, access.Decision, error) {
	p, err := resolvePrincipal(ctx, u, c)
	if err != nil {
		return p, access.Decision{}, err
	}
	d, err := check(p, res, act, t)
	return p, d, err
}

func check(p access.Principal, res access.Resource, act access.Action, t access.Target) (access.Decision, error) {
	d := access.Decide(p, res, act, t)
	if !d.Permitted() {
		return d, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	return d, nil
}

// basicPrincipal is enough for resources whose rules depend on role alone.
func basicPrincipal(c Caller) access.Principal {
	if c.UserID == uuid.Nil {
		return access.Anonymous
	}
	return access.Principal{UserID: c.UserID, Role: c.Role}
}

func ref(id uuid.UUID) *uuid.UUID {
	return &id
}
