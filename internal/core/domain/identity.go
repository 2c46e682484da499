package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of portal roles.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every valid role.
var Roles = []Role{RolePatient, RoleDoctor, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole accepts any letter case ("doctor", "Doctor", "DOCTOR").
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// IdentityID is the backend-assigned user id. The backend sends it either as
// a string or as a number; both decode to the same textual form.
type IdentityID string

func (id *IdentityID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = IdentityID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("identity id: %w", err)
	}
	*id = IdentityID(n.String())
	return nil
}

func (id IdentityID) String() string { return string(id) }

// Identity is the authenticated principal as known to the portal.
type Identity struct {
	ID    IdentityID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email,omitempty"`
	Role  Role       `json:"role,omitempty"  validate:"omitempty,oneof=PATIENT DOCTOR ADMIN"`
}

// IdentityPatch carries the fields of a profile update. Nil fields are left
// untouched by Apply.
type IdentityPatch struct {
	ID    *IdentityID `json:"id,omitempty"`
	Name  *string     `json:"name,omitempty"`
	Email *string     `json:"email,omitempty"`
	Role  *Role       `json:"role,omitempty"`
}

// Apply shallow-merges the patch into base and returns the result.
func (p IdentityPatch) Apply(base Identity) Identity {
	if p.ID != nil {
		base.ID = *p.ID
	}
	if p.Name != nil {
		base.Name = *p.Name
	}
	if p.Email != nil {
		base.Email = *p.Email
	}
	if p.Role != nil {
		base.Role = *p.Role
	}
	return base
}

// Empty reports whether the patch sets no field.
func (p IdentityPatch) Empty() bool {
	return p.ID == nil && p.Name == nil && p.Email == nil && p.Role == nil
}
