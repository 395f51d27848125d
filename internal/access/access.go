// Package access resolves what a caller may do with a clinic resource. It is
// a pure function of the caller and the target's ownership relations; lookups
// that produce those inputs belong to the services.
package access

import (
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/google/uuid"
)

type Resource string

const (
	Appointment    Resource = "appointment"
	Department     Resource = "department"
	Doctor         Resource = "doctor"
	Patient        Resource = "patient"
	MedicalRecord  Resource = "medical_record"
	Prescription   Resource = "prescription"
	Room           Resource = "room"
	Nurse          Resource = "nurse"
	Shift          Resource = "shift"
	PatientRequest Resource = "patient_request"
	AuditLog       Resource = "audit_log"
	FAQ            Resource = "faq"
	Dashboard      Resource = "dashboard"
	Alert          Resource = "alert"
)

type Action string

const (
	Read     Action = "read"
	List     Action = "list"
	Create   Action = "create"
	Update   Action = "update"
	Delete   Action = "delete"
	Cancel   Action = "cancel"
	Complete Action = "complete"
	Review   Action = "review"
)

type Effect int

const (
	Deny Effect = iota
	Allow
	AllowScoped
)

func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case AllowScoped:
		return "allow_scoped"
	}
	return "deny"
}

// Scope narrows an AllowScoped decision.
type Scope int

const (
	ScopeAll Scope = iota
	// ScopeOwnDoctor limits the caller to rows whose doctor is Principal.DoctorID.
	ScopeOwnDoctor
	// ScopeOwnPatient limits the caller to rows whose patient is Principal.PatientID.
	ScopeOwnPatient
	// ScopeOwnStaff limits the caller to rows owned by Principal.UserID.
	ScopeOwnStaff
)

// Principal is the authenticated caller. Profile ids are set only when the
// caller's identity owns that profile.
type Principal struct {
	UserID    uuid.UUID
	Role      domain.Role
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	NurseID   *uuid.UUID
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

func (p Principal) Authenticated() bool {
	return p.UserID != uuid.Nil && p.Role.IsValid()
}

// Target carries the ownership relations of the entity acted upon. Zero
// fields are unknown; list actions usually pass an empty Target.
type Target struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	UserID    *uuid.UUID
}

type Decision struct {
	Effect Effect
	Scope  Scope
	Reason string
}

func (d Decision) Permitted() bool {
	return d.Effect != Deny
}

func allow(reason string) Decision {
	return Decision{Effect: Allow, Scope: ScopeAll, Reason: reason}
}

func scoped(scope Scope, reason string) Decision {
	return Decision{Effect: AllowScoped, Scope: scope, Reason: reason}
}

func deny(reason string) Decision {
	return Decision{Effect: Deny, Reason: reason}
}

func same(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}

// Decide maps (caller, resource, action, target) to a permission decision.
func Decide(p Principal, res Resource, act Action, t Target) Decision {
	// Public surface.
	switch {
	case res == FAQ && (act == Read || act == List):
		return allow("faq entries are public")
	case res == PatientRequest && act == Create:
		return allow("registration requests are public")
	}

	if !p.Authenticated() {
		return deny("authentication required")
	}
	if p.Role == domain.RoleAdmin {
		return allow("admin")
	}

	switch res {
	case Department, Room, Doctor:
		if act == Read || act == List {
			return allow("directory is visible to every role")
		}
		return deny("admin only")

	case Nurse:
		if (act == Read || act == List) && p.Role != domain.RolePatient {
			return allow("staff directory")
		}
		return deny("admin only")

	case FAQ:
		if act == Create && p.Role != domain.RoleNurse {
			return allow("doctors and patients may add questions")
		}
		return deny("admin only")

	case Alert:
		if act == Create {
			return allow("any signed-in user may raise an alert")
		}
		return deny("admin only")

	case Shift:
		if (act == Read || act == List) && p.Role != domain.RolePatient {
			if act == List && t.UserID == nil {
				return scoped(ScopeOwnStaff, "staff see their own shifts")
			}
			if t.UserID != nil && *t.UserID == p.UserID {
				return allow("own shift")
			}
		}
		return deny("shifts are managed by admins")

	case Patient:
		return decidePatient(p, act, t)
	case Appointment:
		return decideAppointment(p, act, t)
	case MedicalRecord:
		return decideMedicalRecord(p, act, t)
	case Prescription:
		return decidePrescription(p, act, t)
	}

	// PatientRequest review, AuditLog, Dashboard.
	return deny("admin only")
}

func decidePatient(p Principal, act Action, t Target) Decision {
	switch p.Role {
	case domain.RoleNurse:
		if act == Read || act == List {
			return allow("nurses see every patient")
		}
	case domain.RoleDoctor:
		if p.DoctorID == nil {
			return deny("caller has no doctor profile")
		}
		if act == List {
			return scoped(ScopeOwnDoctor, "doctors see patients they treat")
		}
		if act == Read {
			return allow("doctor may open a patient")
		}
	case domain.RolePatient:
		if act == Read && same(p.PatientID, t.PatientID) {
			return allow("own profile")
		}
		if act == List {
			return deny("patients may only view their own profile")
		}
	}
	return deny("not permitted")
}

func decideAppointment(p Principal, act Action, t Target) Decision {
	switch p.Role {
	case domain.RoleNurse:
		if act == Delete {
			return deny("admin only")
		}
		return allow("nurses manage every appointment")
	case domain.RoleDoctor:
		if p.DoctorID == nil {
			return deny("caller has no doctor profile")
		}
		if act == Delete {
			return deny("admin only")
		}
		if act == List {
			return scoped(ScopeOwnDoctor, "doctors see their own appointments")
		}
		if act == Create && t.DoctorID == nil {
			return scoped(ScopeOwnDoctor, "doctor books for self")
		}
		if same(p.DoctorID, t.DoctorID) {
			return allow("own appointment")
		}
	case domain.RolePatient:
		if p.PatientID == nil {
			return deny("caller has no patient profile")
		}
		if act == List {
			return scoped(ScopeOwnPatient, "patients see their own appointments")
		}
		switch act {
		case Read, Create, Cancel:
			if t.PatientID == nil && act == Create {
				return scoped(ScopeOwnPatient, "patient books for self")
			}
			if same(p.PatientID, t.PatientID) {
				return allow("own appointment")
			}
		}
	}
	return deny("not permitted")
}

func decideMedicalRecord(p Principal, act Action, t Target) Decision {
	switch p.Role {
	case domain.RoleNurse:
		if act == Read {
			return allow("nurses read every record")
		}
	case domain.RoleDoctor:
		if p.DoctorID == nil {
			return deny("caller has no doctor profile")
		}
		switch act {
		case Read:
			if t.DoctorID == nil {
				return scoped(ScopeOwnDoctor, "doctors read the record they authored")
			}
			if same(p.DoctorID, t.DoctorID) {
				return allow("own record")
			}
		case Create:
			return scoped(ScopeOwnDoctor, "record is authored by the caller")
		case Update:
			if same(p.DoctorID, t.DoctorID) {
				return allow("own record")
			}
		}
	case domain.RolePatient:
		if act == Read && same(p.PatientID, t.PatientID) {
			return allow("own record")
		}
	}
	return deny("not permitted")
}

func decidePrescription(p Principal, act Action, t Target) Decision {
	switch p.Role {
	case domain.RoleNurse:
		if act == Read {
			return allow("nurses read every prescription")
		}
	case domain.RoleDoctor:
		if p.DoctorID == nil {
			return deny("caller has no doctor profile")
		}
		if act != List && same(p.DoctorID, t.DoctorID) {
			return allow("prescription on own record")
		}
	case domain.RolePatient:
		if act == Read && same(p.PatientID, t.PatientID) {
			return allow("prescription on own record")
		}
	}
	return deny("not permitted")
}
