package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RolePatient:
		return true
	}
	return false
}

// ParseRole accepts the role names case-insensitively ("Nurse", "nurse").
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("a user with this email or user name already exists")

	ErrAuditLogNotFound = errors.New("audit log entry not found")
)

// User is a login identity. Its ID is the identity reference stamped on the
// Doctor, Patient or Nurse profile it owns.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Email          string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	UserName       string `gorm:"column:user_name;type:varchar(255);uniqueIndex;not null" json:"user_name"`
	FullName       string `gorm:"column:full_name;type:varchar(200);not null" json:"full_name"`
	PasswordHash   string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role           Role   `gorm:"column:role;type:varchar(30);not null;default:'';index" json:"role"`
	EmailConfirmed bool   `gorm:"column:email_confirmed;default:false" json:"email_confirmed"`

	// Provisioned accounts start with a shared default password.
	MustChangePassword bool `gorm:"column:must_change_password;not null" json:"must_change_password"`

	IsActive          bool       `gorm:"column:is_active;default:true;index" json:"is_active"`
	FailedLoginCount  int        `gorm:"column:failed_login_count;default:0" json:"-"`
	LockedUntil       *time.Time `gorm:"column:locked_until" json:"-"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	PasswordChangedAt time.Time  `gorm:"column:password_changed_at" json:"-"`
}

func (User) TableName() string {
	return "auth.users"
}

// IsLocked returns true if the account is temporarily locked due to failed logins.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

type AuditAction string

const (
	ActionCreate  AuditAction = "create"
	ActionRead    AuditAction = "read"
	ActionUpdate  AuditAction = "update"
	ActionDelete  AuditAction = "delete"
	ActionLogin   AuditAction = "login"
	ActionApprove AuditAction = "approve"
	ActionReject  AuditAction = "reject"
	ActionAlert   AuditAction = "alert"
)

// AuditLog is append-only.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OccurredAt time.Time `gorm:"autoCreateTime;index" json:"occurred_at"`

	// Who
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"performed_by"`
	UserRole  Role      `gorm:"column:user_role;type:varchar(30);not null" json:"role"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)" json:"ip_address,omitempty"` // Supports IPv6

	// What
	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index" json:"action"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index" json:"entity_name"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index" json:"entity_id"`

	Details string `gorm:"column:details;type:text" json:"details,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type ListAuditLogsQuery struct {
	UserID       *uuid.UUID
	ResourceType string
	ResourceID   string
	Page         int
	PageSize     int
}

type PagedAuditLogs struct {
	Logs       []*AuditLog `json:"logs"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	RefreshToken       string    `json:"refresh_token,omitempty"`
	ExpiresAt          time.Time `json:"expires_at"`
	TokenType          string    `json:"token_type"` // Always "Bearer"
	MustChangePassword bool      `json:"must_change_password"`
}

type Claims struct {
	UserID             uuid.UUID `json:"sub"`
	Email              string    `json:"email"`
	Role               Role      `json:"role"`
	MustChangePassword bool      `json:"mcp,omitempty"`
}

// TotalPages is shared by every paged listing.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
