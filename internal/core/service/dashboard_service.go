package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

const (
	upcomingLimit = 5
	recentLimit   = 3
)

type DashboardService struct {
	appointments *AppointmentService
	records      ports.RecordBackend
	search       RecordSearch
	now          func() time.Time
	log          zerolog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(appointments *AppointmentService, records ports.RecordBackend, log zerolog.Logger) *DashboardService {
	return &DashboardService{appointments: appointments, records: records, now: time.Now, log: log}
}

// Build assembles the dashboard. A failing section is logged and left
// empty; an expired session aborts the whole view.
func (s *DashboardService) Build(ctx context.Context, identity domain.Identity) (*ports.Dashboard, error) {
	d := &ports.Dashboard{
		Identity:     identity,
		Upcoming:     []domain.Appointment{},
		StatusCounts: map[domain.AppointmentStatus]int{},
	}

	appts, err := s.appointments.List(ctx, identity)
	switch {
	case isSessionExpired(err):
		return nil, err
	case err != nil:
		s.log.Warn().Err(err).Msg("dashboard appointments unavailable")
		d.PartialFailure = true
	default:
		now := s.now()
		for _, a := range appts {
			d.StatusCounts[a.Status]++
			if len(d.Upcoming) < upcomingLimit && a.StartsAt.After(now) && a.Status != domain.AppointmentCancelled {
				d.Upcoming = append(d.Upcoming, a)
			}
		}
	}

	recs, err := s.records.ListRecords(ctx, identity)
	switch {
	case isSessionExpired(err):
		return nil, err
	case err != nil:
		s.log.Warn().Err(err).Msg("dashboard records unavailable")
		d.PartialFailure = true
		d.RecentRecords = []domain.MedicalRecord{}
	default:
		sorted := s.search.Filter(recs, ports.RecordQuery{})
		d.RecordCount = len(sorted)
		if len(sorted) > recentLimit {
			sorted = sorted[:recentLimit]
		}
		d.RecentRecords = sorted
	}
	return d, nil
}

func isSessionExpired(err error) bool {
	return errors.Is(err, domain.ErrSessionExpired)
}
