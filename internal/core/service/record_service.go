package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

type RecordService struct {
	backend ports.RecordBackend
	search  RecordSearch
	now     func() time.Time
	log     zerolog.Logger
}

var _ ports.RecordService = (*RecordService)(nil)

func NewRecordService(backend ports.RecordBackend, log zerolog.Logger) *RecordService {
	return &RecordService{backend: backend, now: time.Now, log: log}
}

// List fetches the caller's records and applies q.
func (s *RecordService) List(ctx context.Context, identity domain.Identity, q ports.RecordQuery) ([]ports.RecordHit, error) {
	recs, err := s.backend.ListRecords(ctx, identity)
	if err != nil {
		return nil, err
	}

	matched := s.search.Filter(recs, q)
	hits := make([]ports.RecordHit, 0, len(matched))
	for _, r := range matched {
		hits = append(hits, ports.RecordHit{
			Record:    r,
			Diagnosis: s.search.Highlight(r.Diagnosis, q.Text),
			Treatment: s.search.Highlight(r.Treatment, q.Text),
			Notes:     s.search.Highlight(r.Notes, q.Text),
		})
	}
	return hits, nil
}

// Create fills in the author and defaults before sending rec to the backend.
// A doctor creating a record is recorded as its doctor.
func (s *RecordService) Create(ctx context.Context, identity domain.Identity, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	if identity.Role == domain.RoleDoctor && rec.DoctorID == "" {
		rec.DoctorID = identity.ID.String()
		if rec.DoctorName == "" {
			rec.DoctorName = identity.Name
		}
	}
	if rec.Status == "" {
		rec.Status = domain.RecordActive
	}
	if rec.RecordDate.IsZero() {
		rec.RecordDate = s.now().UTC()
	}

	created, err := s.backend.CreateRecord(ctx, rec)
	if err != nil {
		s.log.Error().Err(err).Str("patient_id", rec.PatientID).Msg("failed to create medical record")
		return nil, err
	}
	s.log.Info().Str("record_id", created.ID).Str("patient_id", created.PatientID).Msg("medical record created")
	return created, nil
}

// Update and Delete pass id through untouched; an empty id produces a path
// the backend rejects.
func (s *RecordService) Update(ctx context.Context, id string, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	return s.backend.UpdateRecord(ctx, id, rec)
}

func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("record_id", id).Msg("medical record deleted")
	return nil
}
