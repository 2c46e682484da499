// Package backend implements the ports over the remote REST API. Every call
// goes through the gateway client and every path comes from the endpoints
// package.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/endpoints"
	"github.com/medportal/portal/internal/gateway"
)

// API is the subset of gateway.Client the adapters need.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
}

// REST satisfies every backend port.
type REST struct {
	api API
}

var (
	_ ports.AuthBackend        = (*REST)(nil)
	_ ports.ProfileBackend     = (*REST)(nil)
	_ ports.RecordBackend      = (*REST)(nil)
	_ ports.AppointmentBackend = (*REST)(nil)
	_ ports.DirectoryBackend   = (*REST)(nil)
)

func NewREST(api API) *REST {
	return &REST{api: api}
}

// Ping checks that the backend answers its health endpoint.
func (r *REST) Ping(ctx context.Context) error {
	return r.api.Get(ctx, endpoints.HealthCheck, nil)
}

// --- auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

// Login exchanges credentials for a token. The backend answers 401 for bad
// credentials, which the client reports as an expired session.
func (r *REST) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var resp loginResponse
	err := r.api.Post(ctx, endpoints.Login, loginRequest{Email: email, Password: password}, &resp)
	if errors.Is(err, domain.ErrSessionExpired) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.LoginResult{Token: resp.Token, Identity: resp.User}, nil
}

type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (r *REST) Register(ctx context.Context, in ports.RegisterInput) error {
	req := registerRequest{Name: in.Name, Email: in.Email, Password: in.Password, Role: in.Role}
	if err := r.api.Post(ctx, endpoints.Register, req, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// --- profile ---

func (r *REST) GetProfile(ctx context.Context) (*domain.Identity, error) {
	var id domain.Identity
	if err := r.api.Get(ctx, endpoints.GetProfile, &id); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &id, nil
}

func (r *REST) UpdateProfile(ctx context.Context, patch domain.IdentityPatch) (*domain.Identity, error) {
	var id domain.Identity
	if err := r.api.Put(ctx, endpoints.UpdateProfile, patch, &id); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &id, nil
}

// --- medical records ---

// ListRecords picks the listing that matches the caller's role. Doctors are
// looked up by their own id first and fall back to the "mine" listing.
func (r *REST) ListRecords(ctx context.Context, identity domain.Identity) ([]domain.MedicalRecord, error) {
	list := func(path string) gateway.Candidate[[]domain.MedicalRecord] {
		return func(ctx context.Context) ([]domain.MedicalRecord, error) {
			var recs []domain.MedicalRecord
			err := r.api.Get(ctx, path, &recs)
			return recs, err
		}
	}

	var candidates []gateway.Candidate[[]domain.MedicalRecord]
	switch identity.Role {
	case domain.RoleAdmin:
		candidates = append(candidates, list(endpoints.ListAllMedicalRecords))
	case domain.RoleDoctor:
		candidates = append(candidates,
			list(endpoints.MedicalRecordsByDoctor(identity.ID)),
			list(endpoints.ListMyMedicalRecords),
		)
	default:
		candidates = append(candidates, list(endpoints.ListMyMedicalRecords))
	}

	recs, err := gateway.FirstSuccess(ctx, candidates...)
	if err != nil {
		return nil, fmt.Errorf("list medical records: %w", err)
	}
	return recs, nil
}

func (r *REST) CreateRecord(ctx context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	var out domain.MedicalRecord
	if err := r.api.Post(ctx, endpoints.CreateMedicalRecord, rec, &out); err != nil {
		return nil, fmt.Errorf("create medical record: %w", err)
	}
	return &out, nil
}

func (r *REST) UpdateRecord(ctx context.Context, id string, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	var out domain.MedicalRecord
	if err := r.api.Put(ctx, endpoints.UpdateMedicalRecord(id), rec, &out); err != nil {
		return nil, fmt.Errorf("update medical record %s: %w", id, err)
	}
	return &out, nil
}

func (r *REST) DeleteRecord(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, endpoints.DeleteMedicalRecord(id)); err != nil {
		return fmt.Errorf("delete medical record %s: %w", id, err)
	}
	return nil
}

// --- appointments ---

func (r *REST) ListAppointments(ctx context.Context, identity domain.Identity) ([]domain.Appointment, error) {
	path := endpoints.ListMyAppointments
	if identity.Role == domain.RoleAdmin {
		path = endpoints.ListAllAppointments
	}
	var appts []domain.Appointment
	if err := r.api.Get(ctx, path, &appts); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (r *REST) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	var appt domain.Appointment
	if err := r.api.Get(ctx, endpoints.GetAppointment(id), &appt); err != nil {
		return nil, fmt.Errorf("get appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *REST) CreateAppointment(ctx context.Context, appt domain.Appointment) (*domain.Appointment, error) {
	var out domain.Appointment
	if err := r.api.Post(ctx, endpoints.CreateAppointment, appt, &out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &out, nil
}

type statusRequest struct {
	Status domain.AppointmentStatus `json:"status"`
}

func (r *REST) UpdateAppointmentStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	if err := r.api.Put(ctx, endpoints.UpdateAppointmentStatus(id), statusRequest{Status: status}, nil); err != nil {
		return fmt.Errorf("update appointment %s status: %w", id, err)
	}
	return nil
}

// ResolveDoctor accepts either a doctor id or the doctor's user id; the
// backend is asked both ways, in that order.
func (r *REST) ResolveDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	get := func(path string) gateway.Candidate[*domain.Doctor] {
		return func(ctx context.Context) (*domain.Doctor, error) {
			var d domain.Doctor
			if err := r.api.Get(ctx, path, &d); err != nil {
				return nil, err
			}
			return &d, nil
		}
	}

	d, err := gateway.FirstSuccess(ctx,
		get(endpoints.GetDoctor(doctorID)),
		get(endpoints.DoctorByUser(doctorID)),
	)
	if err != nil {
		return nil, fmt.Errorf("resolve doctor %s: %w", doctorID, err)
	}
	return d, nil
}

// --- directory ---

func (r *REST) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var docs []domain.Doctor
	if err := r.api.Get(ctx, endpoints.ListDoctors, &docs); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return docs, nil
}

// ListPatients returns every patient for admins and the doctor's own patients
// for doctors. A patient sees only their own entry.
func (r *REST) ListPatients(ctx context.Context, identity domain.Identity) ([]domain.Patient, error) {
	list := func(path string) gateway.Candidate[[]domain.Patient] {
		return func(ctx context.Context) ([]domain.Patient, error) {
			var ps []domain.Patient
			err := r.api.Get(ctx, path, &ps)
			return ps, err
		}
	}

	var candidates []gateway.Candidate[[]domain.Patient]
	switch identity.Role {
	case domain.RoleAdmin:
		candidates = append(candidates, list(endpoints.ListPatients))
	case domain.RoleDoctor:
		candidates = append(candidates, list(endpoints.PatientsByDoctor(identity.ID)))
	default:
		candidates = append(candidates, func(ctx context.Context) ([]domain.Patient, error) {
			var p domain.Patient
			if err := r.api.Get(ctx, endpoints.MyPatient, &p); err != nil {
				return nil, err
			}
			return []domain.Patient{p}, nil
		})
	}

	ps, err := gateway.FirstSuccess(ctx, candidates...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return ps, nil
}

func (r *REST) ListPayments(ctx context.Context, identity domain.Identity) ([]domain.Payment, error) {
	path := endpoints.ListMyPayments
	if identity.Role == domain.RoleAdmin {
		path = endpoints.ListAllPayments
	}
	var pays []domain.Payment
	if err := r.api.Get(ctx, path, &pays); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return pays, nil
}

func (r *REST) ListReports(ctx context.Context, identity domain.Identity) ([]domain.Report, error) {
	var path string
	switch identity.Role {
	case domain.RoleAdmin:
		path = endpoints.ListReports
	case domain.RoleDoctor:
		path = endpoints.ReportsByDoctor(identity.ID)
	default:
		path = endpoints.ReportsByPatient(identity.ID)
	}
	var reps []domain.Report
	if err := r.api.Get(ctx, path, &reps); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reps, nil
}
