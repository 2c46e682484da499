package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

type AppointmentService struct {
	backend ports.AppointmentBackend
	now     func() time.Time
	log     zerolog.Logger
}

var _ ports.AppointmentService = (*AppointmentService)(nil)

func NewAppointmentService(backend ports.AppointmentBackend, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{backend: backend, now: time.Now, log: log}
}

// List returns the caller's appointments, earliest first.
func (s *AppointmentService) List(ctx context.Context, identity domain.Identity) ([]domain.Appointment, error) {
	appts, err := s.backend.ListAppointments(ctx, identity)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(appts, func(i, j int) bool { return appts[i].StartsAt.Before(appts[j].StartsAt) })
	return appts, nil
}

// Book creates a pending appointment. Patients always book for themselves.
func (s *AppointmentService) Book(ctx context.Context, identity domain.Identity, appt domain.Appointment) (*domain.Appointment, error) {
	if identity.Role == domain.RolePatient || appt.PatientID == "" {
		appt.PatientID = identity.ID.String()
	}
	if !appt.StartsAt.After(s.now()) {
		return nil, fmt.Errorf("%w: appointment must be in the future", domain.ErrInvalidAppointment)
	}
	appt.Status = domain.AppointmentPending

	created, err := s.backend.CreateAppointment(ctx, appt)
	if err != nil {
		s.log.Error().Err(err).Str("doctor_id", appt.DoctorID).Msg("failed to book appointment")
		return nil, err
	}
	s.log.Info().Str("appointment_id", created.ID).Str("doctor_id", created.DoctorID).Msg("appointment booked")
	return created, nil
}

// Detail loads an appointment and makes sure its doctor is filled in. The
// doctor lookup is best effort: if every candidate endpoint fails the
// appointment is returned without one.
func (s *AppointmentService) Detail(ctx context.Context, id string) (*domain.Appointment, error) {
	appt, err := s.backend.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Doctor != nil || appt.DoctorID == "" {
		return appt, nil
	}

	doc, err := s.backend.ResolveDoctor(ctx, appt.DoctorID)
	if err != nil {
		if isSessionExpired(err) {
			return nil, err
		}
		s.log.Warn().Err(err).Str("appointment_id", id).Msg("doctor lookup failed")
		return appt, nil
	}
	appt.Doctor = doc
	return appt, nil
}

var statusTransitions = map[domain.AppointmentStatus][]domain.AppointmentStatus{
	domain.AppointmentPending:   {domain.AppointmentConfirmed, domain.AppointmentCancelled},
	domain.AppointmentConfirmed: {domain.AppointmentCompleted, domain.AppointmentCancelled},
}

// SetStatus moves an appointment forward. Completed and cancelled
// appointments are final.
func (s *AppointmentService) SetStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	appt, err := s.backend.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if !canTransition(appt.Status, status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidAppointment, appt.Status, status)
	}
	return s.backend.UpdateAppointmentStatus(ctx, id, status)
}

func canTransition(from, to domain.AppointmentStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
