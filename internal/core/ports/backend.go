package ports

import (
	"context"

	"github.com/medportal/portal/internal/core/domain"
)

// LoginResult is what the backend hands back on a successful login.
type LoginResult struct {
	Token    string
	Identity domain.Identity
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthBackend is the slice of the remote REST API the auth screens use.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
}

// ProfileBackend reads and updates the signed-in user's profile.
type ProfileBackend interface {
	GetProfile(ctx context.Context) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, patch domain.IdentityPatch) (*domain.Identity, error)
}

// RecordBackend covers medical-record CRUD.
type RecordBackend interface {
	ListRecords(ctx context.Context, identity domain.Identity) ([]domain.MedicalRecord, error)
	CreateRecord(ctx context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error)
	UpdateRecord(ctx context.Context, id string, rec domain.MedicalRecord) (*domain.MedicalRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}

// AppointmentBackend covers appointment booking and lookup.
type AppointmentBackend interface {
	ListAppointments(ctx context.Context, identity domain.Identity) ([]domain.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*domain.Appointment, error)
	CreateAppointment(ctx context.Context, appt domain.Appointment) (*domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
	ResolveDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error)
}

// DirectoryBackend lists the people and documents behind the navigation
// screens. Listings are scoped by the caller's role.
type DirectoryBackend interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	ListPatients(ctx context.Context, identity domain.Identity) ([]domain.Patient, error)
	ListPayments(ctx context.Context, identity domain.Identity) ([]domain.Payment, error)
	ListReports(ctx context.Context, identity domain.Identity) ([]domain.Report, error)
}
