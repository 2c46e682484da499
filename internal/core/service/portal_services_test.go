package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub backend
// ---------------------------------------------------------------------------

type stubBackend struct {
	records      []domain.MedicalRecord
	recordsErr   error
	created      []domain.MedicalRecord
	appts        map[string]*domain.Appointment
	apptsErr     error
	booked       []domain.Appointment
	statusSet    map[string]domain.AppointmentStatus
	doctors      map[string]*domain.Doctor
	doctorErr    error
	profilePatch *domain.IdentityPatch
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		appts:     map[string]*domain.Appointment{},
		statusSet: map[string]domain.AppointmentStatus{},
		doctors:   map[string]*domain.Doctor{},
	}
}

func (b *stubBackend) GetProfile(context.Context) (*domain.Identity, error) {
	return &domain.Identity{ID: "u1", Name: "Jo"}, nil
}

func (b *stubBackend) UpdateProfile(_ context.Context, patch domain.IdentityPatch) (*domain.Identity, error) {
	b.profilePatch = &patch
	id := patch.Apply(domain.Identity{ID: "u1"})
	return &id, nil
}

func (b *stubBackend) ListRecords(context.Context, domain.Identity) ([]domain.MedicalRecord, error) {
	return b.records, b.recordsErr
}

func (b *stubBackend) CreateRecord(_ context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	b.created = append(b.created, rec)
	rec.ID = "new"
	return &rec, nil
}

func (b *stubBackend) UpdateRecord(_ context.Context, id string, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	rec.ID = id
	return &rec, nil
}

func (b *stubBackend) DeleteRecord(context.Context, string) error { return nil }

func (b *stubBackend) ListAppointments(context.Context, domain.Identity) ([]domain.Appointment, error) {
	if b.apptsErr != nil {
		return nil, b.apptsErr
	}
	out := make([]domain.Appointment, 0, len(b.appts))
	for _, a := range b.appts {
		out = append(out, *a)
	}
	return out, nil
}

func (b *stubBackend) GetAppointment(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := b.appts[id]
	if !ok {
		return nil, errors.New("404")
	}
	clone := *a
	return &clone, nil
}

func (b *stubBackend) CreateAppointment(_ context.Context, appt domain.Appointment) (*domain.Appointment, error) {
	b.booked = append(b.booked, appt)
	appt.ID = "a-new"
	return &appt, nil
}

func (b *stubBackend) UpdateAppointmentStatus(_ context.Context, id string, status domain.AppointmentStatus) error {
	b.statusSet[id] = status
	return nil
}

func (b *stubBackend) ResolveDoctor(_ context.Context, id string) (*domain.Doctor, error) {
	if b.doctorErr != nil {
		return nil, b.doctorErr
	}
	d, ok := b.doctors[id]
	if !ok {
		return nil, errors.New("doctor not found")
	}
	return d, nil
}

var (
	_ ports.RecordBackend      = (*stubBackend)(nil)
	_ ports.AppointmentBackend = (*stubBackend)(nil)
	_ ports.ProfileBackend     = (*stubBackend)(nil)
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

func TestRecordService_ListHighlights(t *testing.T) {
	b := newStubBackend()
	b.records = sampleRecords
	svc := NewRecordService(b, zerolog.Nop())

	hits, err := svc.List(context.Background(), domain.Identity{Role: domain.RolePatient}, ports.RecordQuery{Text: "flu"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Record.ID != "r2" || !hits[0].Notes[0].Match {
		t.Fatalf("expected r2 with highlighted notes, got %+v", hits[0])
	}
}

func TestRecordService_CreateDefaults(t *testing.T) {
	b := newStubBackend()
	svc := NewRecordService(b, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	doctor := domain.Identity{ID: "d1", Name: "Dr. Grey", Role: domain.RoleDoctor}
	if _, err := svc.Create(context.Background(), doctor, domain.MedicalRecord{PatientID: "p1", Diagnosis: "Flu"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got := b.created[0]
	if got.DoctorID != "d1" || got.DoctorName != "Dr. Grey" {
		t.Fatalf("expected doctor filled in, got %+v", got)
	}
	if got.Status != domain.RecordActive || !got.RecordDate.Equal(fixedNow) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func TestAppointmentService_BookForPatient(t *testing.T) {
	b := newStubBackend()
	svc := NewAppointmentService(b, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	patient := domain.Identity{ID: "p1", Role: domain.RolePatient}
	_, err := svc.Book(context.Background(), patient, domain.Appointment{
		PatientID: "someone-else",
		DoctorID:  "d1",
		StartsAt:  fixedNow.Add(24 * time.Hour),
		Status:    domain.AppointmentConfirmed,
	})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	got := b.booked[0]
	if got.PatientID != "p1" || got.Status != domain.AppointmentPending {
		t.Fatalf("unexpected booking: %+v", got)
	}
}

func TestAppointmentService_BookInPastRejected(t *testing.T) {
	b := newStubBackend()
	svc := NewAppointmentService(b, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	_, err := svc.Book(context.Background(), domain.Identity{ID: "p1"}, domain.Appointment{StartsAt: fixedNow.Add(-time.Hour)})
	if !errors.Is(err, domain.ErrInvalidAppointment) {
		t.Fatalf("expected ErrInvalidAppointment, got %v", err)
	}
	if len(b.booked) != 0 {
		t.Fatalf("backend must not be called")
	}
}

func TestAppointmentService_DetailResolvesDoctor(t *testing.T) {
	b := newStubBackend()
	b.appts["a1"] = &domain.Appointment{ID: "a1", DoctorID: "d1"}
	b.doctors["d1"] = &domain.Doctor{ID: "d1", Name: "Dr. Grey"}
	svc := NewAppointmentService(b, zerolog.Nop())

	appt, err := svc.Detail(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if appt.Doctor == nil || appt.Doctor.Name != "Dr. Grey" {
		t.Fatalf("expected doctor resolved, got %+v", appt.Doctor)
	}
}

func TestAppointmentService_DetailToleratesDoctorFailure(t *testing.T) {
	b := newStubBackend()
	b.appts["a1"] = &domain.Appointment{ID: "a1", DoctorID: "missing"}
	svc := NewAppointmentService(b, zerolog.Nop())

	appt, err := svc.Detail(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if appt.Doctor != nil {
		t.Fatalf("expected no doctor")
	}
}

func TestAppointmentService_DetailPropagatesExpiry(t *testing.T) {
	b := newStubBackend()
	b.appts["a1"] = &domain.Appointment{ID: "a1", DoctorID: "d1"}
	b.doctorErr = domain.ErrSessionExpired
	svc := NewAppointmentService(b, zerolog.Nop())

	if _, err := svc.Detail(context.Background(), "a1"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAppointmentService_SetStatus(t *testing.T) {
	cases := []struct {
		from, to domain.AppointmentStatus
		ok       bool
	}{
		{domain.AppointmentPending, domain.AppointmentConfirmed, true},
		{domain.AppointmentPending, domain.AppointmentCancelled, true},
		{domain.AppointmentConfirmed, domain.AppointmentCompleted, true},
		{domain.AppointmentPending, domain.AppointmentCompleted, false},
		{domain.AppointmentCancelled, domain.AppointmentConfirmed, false},
		{domain.AppointmentCompleted, domain.AppointmentCancelled, false},
	}
	for _, tc := range cases {
		b := newStubBackend()
		b.appts["a1"] = &domain.Appointment{ID: "a1", Status: tc.from}
		svc := NewAppointmentService(b, zerolog.Nop())

		err := svc.SetStatus(context.Background(), "a1", tc.to)
		if tc.ok && err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && !errors.Is(err, domain.ErrInvalidAppointment) {
			t.Fatalf("%s -> %s: expected ErrInvalidAppointment, got %v", tc.from, tc.to, err)
		}
		if _, sent := b.statusSet["a1"]; sent != tc.ok {
			t.Fatalf("%s -> %s: backend update sent=%v", tc.from, tc.to, sent)
		}
	}
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func TestDashboardService_Build(t *testing.T) {
	b := newStubBackend()
	b.records = sampleRecords
	b.appts["past"] = &domain.Appointment{ID: "past", StartsAt: fixedNow.Add(-time.Hour), Status: domain.AppointmentCompleted}
	b.appts["soon"] = &domain.Appointment{ID: "soon", StartsAt: fixedNow.Add(time.Hour), Status: domain.AppointmentConfirmed}
	b.appts["later"] = &domain.Appointment{ID: "later", StartsAt: fixedNow.Add(48 * time.Hour), Status: domain.AppointmentPending}
	b.appts["cancelled"] = &domain.Appointment{ID: "cancelled", StartsAt: fixedNow.Add(2 * time.Hour), Status: domain.AppointmentCancelled}

	appts := NewAppointmentService(b, zerolog.Nop())
	svc := NewDashboardService(appts, b, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	d, err := svc.Build(context.Background(), domain.Identity{ID: "p1", Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(d.Upcoming) != 2 || d.Upcoming[0].ID != "soon" || d.Upcoming[1].ID != "later" {
		t.Fatalf("unexpected upcoming: %+v", d.Upcoming)
	}
	if d.StatusCounts[domain.AppointmentCancelled] != 1 || d.StatusCounts[domain.AppointmentCompleted] != 1 {
		t.Fatalf("unexpected counts: %v", d.StatusCounts)
	}
	if d.RecordCount != 3 || len(d.RecentRecords) != 3 || d.RecentRecords[0].ID != "r3" {
		t.Fatalf("unexpected records: %+v", d.RecentRecords)
	}
	if d.PartialFailure {
		t.Fatalf("unexpected partial failure")
	}
}

func TestDashboardService_PartialFailure(t *testing.T) {
	b := newStubBackend()
	b.apptsErr = errors.New("503")
	b.records = sampleRecords

	svc := NewDashboardService(NewAppointmentService(b, zerolog.Nop()), b, zerolog.Nop())
	d, err := svc.Build(context.Background(), domain.Identity{ID: "p1"})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !d.PartialFailure || d.RecordCount != 3 {
		t.Fatalf("expected records with partial failure flag, got %+v", d)
	}
}

func TestDashboardService_ExpiredSessionAborts(t *testing.T) {
	b := newStubBackend()
	b.recordsErr = domain.ErrSessionExpired

	svc := NewDashboardService(NewAppointmentService(b, zerolog.Nop()), b, zerolog.Nop())
	if _, err := svc.Build(context.Background(), domain.Identity{ID: "p1"}); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Profile
// ---------------------------------------------------------------------------

func TestProfileService_UpdateMergesIntoSession(t *testing.T) {
	b := newStubBackend()
	sess := &stubSession{identity: &domain.Identity{ID: "1", Name: "Old", Role: domain.RolePatient}}
	svc := NewProfileService(b, zerolog.Nop())

	name := "New"
	got, err := svc.Update(context.Background(), sess, domain.IdentityPatch{Name: &name})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	want := domain.Identity{ID: "1", Name: "New", Role: domain.RolePatient}
	if got != want || *sess.identity != want {
		t.Fatalf("expected %+v, got %+v (session %+v)", want, got, *sess.identity)
	}
	if b.profilePatch == nil || *b.profilePatch.Name != "New" {
		t.Fatalf("backend did not receive the patch")
	}
}

func TestProfileService_EmptyPatchIsNoop(t *testing.T) {
	b := newStubBackend()
	sess := &stubSession{identity: &domain.Identity{ID: "1", Name: "Same"}}
	svc := NewProfileService(b, zerolog.Nop())

	got, err := svc.Update(context.Background(), sess, domain.IdentityPatch{})
	if err != nil || got.Name != "Same" {
		t.Fatalf("unexpected result %+v, %v", got, err)
	}
	if b.profilePatch != nil {
		t.Fatalf("backend must not be called for an empty patch")
	}
}

func TestProfileService_RejectsUnknownRole(t *testing.T) {
	svc := NewProfileService(newStubBackend(), zerolog.Nop())
	role := domain.Role("nurse")

	_, err := svc.Update(context.Background(), &stubSession{}, domain.IdentityPatch{Role: &role})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
