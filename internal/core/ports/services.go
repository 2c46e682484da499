package ports

import (
	"context"
	"time"

	"github.com/medportal/portal/internal/core/domain"
)

// RecordQuery narrows the medical-record list.
type RecordQuery struct {
	Text   string
	Status domain.RecordStatus
	From   time.Time
	To     time.Time
}

// Segment is a slice of text flagged when it matches the search term.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// RecordHit is one record in a search result with its highlighted fields.
type RecordHit struct {
	Record    domain.MedicalRecord `json:"record"`
	Diagnosis []Segment            `json:"diagnosis"`
	Treatment []Segment            `json:"treatment,omitempty"`
	Notes     []Segment            `json:"notes,omitempty"`
}

// Dashboard is the landing view for every role.
type Dashboard struct {
	Identity       domain.Identity                  `json:"identity"`
	Upcoming       []domain.Appointment             `json:"upcoming"`
	StatusCounts   map[domain.AppointmentStatus]int `json:"statusCounts"`
	RecentRecords  []domain.MedicalRecord           `json:"recentRecords"`
	RecordCount    int                              `json:"recordCount"`
	PartialFailure bool                             `json:"partialFailure,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, sess Session, email, password string) (domain.Identity, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context, sess Session) error
}

type ProfileService interface {
	Get(ctx context.Context) (*domain.Identity, error)
	Update(ctx context.Context, sess Session, patch domain.IdentityPatch) (domain.Identity, error)
}

type RecordService interface {
	List(ctx context.Context, identity domain.Identity, q RecordQuery) ([]RecordHit, error)
	Create(ctx context.Context, identity domain.Identity, rec domain.MedicalRecord) (*domain.MedicalRecord, error)
	Update(ctx context.Context, id string, rec domain.MedicalRecord) (*domain.MedicalRecord, error)
	Delete(ctx context.Context, id string) error
}

type AppointmentService interface {
	List(ctx context.Context, identity domain.Identity) ([]domain.Appointment, error)
	Book(ctx context.Context, identity domain.Identity, appt domain.Appointment) (*domain.Appointment, error)
	Detail(ctx context.Context, id string) (*domain.Appointment, error)
	SetStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
}

type DashboardService interface {
	Build(ctx context.Context, identity domain.Identity) (*Dashboard, error)
}

type DirectoryService interface {
	Doctors(ctx context.Context) ([]domain.Doctor, error)
	Patients(ctx context.Context, identity domain.Identity) ([]domain.Patient, error)
	Payments(ctx context.Context, identity domain.Identity) ([]domain.Payment, error)
	Reports(ctx context.Context, identity domain.Identity) ([]domain.Report, error)
}
