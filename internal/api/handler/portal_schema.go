package handler

import (
	"time"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/router"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Role is matched case-insensitively by the service, so it is not
// constrained here.
type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

type profileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type recordRequest struct {
	PatientID   string    `json:"patientId"   validate:"required"`
	PatientName string    `json:"patientName"`
	DoctorID    string    `json:"doctorId"`
	Diagnosis   string    `json:"diagnosis"   validate:"required"`
	Treatment   string    `json:"treatment"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status"      validate:"omitempty,oneof=ACTIVE RESOLVED ARCHIVED"`
	RecordDate  time.Time `json:"recordDate"`
}

type appointmentRequest struct {
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"        validate:"required"`
	StartsAt  time.Time `json:"appointmentDate" validate:"required"`
	Reason    string    `json:"reason"          validate:"max=500"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
}

// --- Response types ---

// sessionView never carries the credential itself.
type sessionView struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	Identity      *domain.Identity `json:"identity,omitempty"`
	Placeholder   bool             `json:"placeholderCredential,omitempty"`
}

// page wraps every screen payload with the chrome it is shown in.
type page struct {
	Chrome  router.Chrome `json:"chrome"`
	Links   []router.Link `json:"links,omitempty"`
	Session sessionView   `json:"session"`
	Data    any           `json:"data,omitempty"`
}

type authResponse struct {
	User     *domain.Identity `json:"user,omitempty"`
	Redirect string           `json:"redirect"`
}

type messageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type recordListResponse struct {
	Query   recordQueryView   `json:"query"`
	Count   int               `json:"count"`
	Records []ports.RecordHit `json:"records"`
}

type recordQueryView struct {
	Text   string `json:"q,omitempty"`
	Status string `json:"status,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}
