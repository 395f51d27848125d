package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrForbidden          = errors.New("forbidden: insufficient permissions")
	ErrIDMismatch         = errors.New("id in path does not match id in body")
	ErrNotificationFailed = errors.New("notification could not be delivered")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Caller identifies who is invoking a service operation. Public operations
// receive a Caller with only IP set.
type Caller struct {
	UserID uuid.UUID
	Role   domain.Role
	Email  string
	IP     string
}

func (c Caller) entry(action domain.AuditAction, resourceType, resourceID string) AuditEntry {
	return AuditEntry{
		UserID:       c.UserID,
		UserRole:     c.Role,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    c.IP,
	}
}

type AuditEntry struct {
	UserID       uuid.UUID
	UserRole     domain.Role
	Action       domain.AuditAction
	ResourceType string
	ResourceID   string
	IPAddress    string
	Details      string
}

// checkPathID rejects an update whose body names a different entity than the path.
func checkPathID(pathID uuid.UUID, bodyID *uuid.UUID) error {
	if bodyID != nil && *bodyID != uuid.Nil && *bodyID != pathID {
		return fmt.Errorf("%w: %s != %s", ErrIDMismatch, pathID, *bodyID)
	}
	return nil
}
