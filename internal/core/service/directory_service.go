package service

import (
	"context"
	"sort"
	"strings"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

// DirectoryService backs the doctor, patient, payment and report screens.
// People are listed by name, documents newest first.
type DirectoryService struct {
	backend ports.DirectoryBackend
}

var _ ports.DirectoryService = (*DirectoryService)(nil)

func NewDirectoryService(backend ports.DirectoryBackend) *DirectoryService {
	return &DirectoryService{backend: backend}
}

func (s *DirectoryService) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	docs, err := s.backend.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool { return byName(docs[i].Name, docs[j].Name) })
	return docs, nil
}

func (s *DirectoryService) Patients(ctx context.Context, identity domain.Identity) ([]domain.Patient, error) {
	ps, err := s.backend.ListPatients(ctx, identity)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ps, func(i, j int) bool { return byName(ps[i].Name, ps[j].Name) })
	return ps, nil
}

func (s *DirectoryService) Payments(ctx context.Context, identity domain.Identity) ([]domain.Payment, error) {
	pays, err := s.backend.ListPayments(ctx, identity)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pays, func(i, j int) bool { return pays[i].CreatedAt.After(pays[j].CreatedAt) })
	return pays, nil
}

func (s *DirectoryService) Reports(ctx context.Context, identity domain.Identity) ([]domain.Report, error) {
	reps, err := s.backend.ListReports(ctx, identity)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reps, func(i, j int) bool { return reps[i].CreatedAt.After(reps[j].CreatedAt) })
	return reps, nil
}

func byName(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
