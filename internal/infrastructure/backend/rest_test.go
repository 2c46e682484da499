package backend

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/gateway"
)

// stubAPI answers GETs from a path→JSON table and records writes.
type stubAPI struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
	bodies    map[string]any
}

func newStubAPI() *stubAPI {
	return &stubAPI{responses: map[string]string{}, errs: map[string]error{}, bodies: map[string]any{}}
}

func (s *stubAPI) answer(method, path string, in, out any) error {
	key := method + " " + path
	s.calls = append(s.calls, key)
	if in != nil {
		s.bodies[key] = in
	}
	if err, ok := s.errs[key]; ok {
		return err
	}
	if raw, ok := s.responses[key]; ok && out != nil {
		return json.Unmarshal([]byte(raw), out)
	}
	return nil
}

func (s *stubAPI) Get(_ context.Context, path string, out any) error {
	return s.answer("GET", path, nil, out)
}

func (s *stubAPI) Post(_ context.Context, path string, in, out any) error {
	return s.answer("POST", path, in, out)
}

func (s *stubAPI) Put(_ context.Context, path string, in, out any) error {
	return s.answer("PUT", path, in, out)
}

func (s *stubAPI) Delete(_ context.Context, path string) error {
	return s.answer("DELETE", path, nil, nil)
}

func TestREST_Login(t *testing.T) {
	api := newStubAPI()
	api.responses["POST /auth/login"] = `{"token":"tok1","user":{"id":"u1","name":"Jo","role":"DOCTOR"}}`

	res, err := NewREST(api).Login(context.Background(), "jo@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	want := domain.Identity{ID: "u1", Name: "Jo", Role: domain.RoleDoctor}
	if res.Token != "tok1" || res.Identity != want {
		t.Fatalf("unexpected result: %+v", res)
	}
	body := api.bodies["POST /auth/login"].(loginRequest)
	if body.Email != "jo@example.com" || body.Password != "pw" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestREST_LoginRejected(t *testing.T) {
	api := newStubAPI()
	api.errs["POST /auth/login"] = domain.ErrSessionExpired

	_, err := NewREST(api).Login(context.Background(), "jo@example.com", "bad")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestREST_Register(t *testing.T) {
	api := newStubAPI()
	in := ports.RegisterInput{Name: "Jo", Email: "jo@example.com", Password: "pw", Role: domain.RolePatient}

	if err := NewREST(api).Register(context.Background(), in); err != nil {
		t.Fatalf("register: %v", err)
	}
	body := api.bodies["POST /auth/register"].(registerRequest)
	if body.Name != "Jo" || body.Role != domain.RolePatient {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestREST_ListRecordsByRole(t *testing.T) {
	cases := []struct {
		role domain.Role
		path string
	}{
		{domain.RoleAdmin, "GET /medical-records"},
		{domain.RolePatient, "GET /medical-records/my"},
		{domain.RoleDoctor, "GET /medical-records/doctor/d1"},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			api := newStubAPI()
			api.responses[tc.path] = `[{"id":"r1","diagnosis":"flu"}]`

			recs, err := NewREST(api).ListRecords(context.Background(), domain.Identity{ID: "d1", Role: tc.role})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(recs) != 1 || recs[0].ID != "r1" {
				t.Fatalf("unexpected records: %+v", recs)
			}
			if api.calls[0] != tc.path {
				t.Fatalf("expected %s, got %v", tc.path, api.calls)
			}
		})
	}
}

func TestREST_ListRecordsDoctorFallsBack(t *testing.T) {
	api := newStubAPI()
	api.errs["GET /medical-records/doctor/u7"] = &gateway.APIError{Status: 404}
	api.responses["GET /medical-records/my"] = `[{"id":"r2"}]`

	recs, err := NewREST(api).ListRecords(context.Background(), domain.Identity{ID: "u7", Role: domain.RoleDoctor})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "r2" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestREST_ResolveDoctorFallback(t *testing.T) {
	api := newStubAPI()
	api.errs["GET /doctors/u5"] = &gateway.APIError{Status: 404, Message: "doctor not found"}
	api.responses["GET /doctors/user/u5"] = `{"id":"d5","name":"Dr. House"}`

	d, err := NewREST(api).ResolveDoctor(context.Background(), "u5")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.ID != "d5" || d.Name != "Dr. House" {
		t.Fatalf("unexpected doctor: %+v", d)
	}
}

func TestREST_ResolveDoctorAllFail(t *testing.T) {
	api := newStubAPI()
	notFound := &gateway.APIError{Status: 404}
	api.errs["GET /doctors/x"] = notFound
	api.errs["GET /doctors/user/x"] = notFound

	_, err := NewREST(api).ResolveDoctor(context.Background(), "x")
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}
}

func TestREST_RecordWritesUseResolverPaths(t *testing.T) {
	api := newStubAPI()
	r := NewREST(api)
	ctx := context.Background()

	_, _ = r.UpdateRecord(ctx, "", domain.MedicalRecord{Diagnosis: "x"})
	_ = r.DeleteRecord(ctx, "abc-123")
	_ = r.UpdateAppointmentStatus(ctx, "a1", domain.AppointmentConfirmed)

	want := []string{"PUT /medical-records/", "DELETE /medical-records/abc-123", "PUT /appointments/a1/status"}
	for i, w := range want {
		if api.calls[i] != w {
			t.Fatalf("call %d: expected %s, got %s", i, w, api.calls[i])
		}
	}
	if got := api.bodies["PUT /appointments/a1/status"].(statusRequest); got.Status != domain.AppointmentConfirmed {
		t.Fatalf("unexpected status body: %+v", got)
	}
}

func TestREST_ErrorsAreWrapped(t *testing.T) {
	api := newStubAPI()
	api.errs["GET /appointments/my"] = domain.ErrSessionExpired

	_, err := NewREST(api).ListAppointments(context.Background(), domain.Identity{Role: domain.RolePatient})
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired to survive wrapping, got %v", err)
	}
}

func TestREST_Ping(t *testing.T) {
	api := newStubAPI()
	rest := NewREST(api)

	if err := rest.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if len(api.calls) != 1 || api.calls[0] != "GET /auth/health" {
		t.Fatalf("unexpected calls: %v", api.calls)
	}

	down := &gateway.APIError{Status: 503, Message: "maintenance"}
	api.errs["GET /auth/health"] = down
	if err := rest.Ping(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestREST_ListPatients_ByRole(t *testing.T) {
	api := newStubAPI()
	api.responses["GET /patients"] = `[{"id":"p1","name":"Ana"},{"id":"p2","name":"Luis"}]`
	api.responses["GET /patients/doctor/d1"] = `[{"id":"p2","name":"Luis"}]`
	api.responses["GET /patients/me"] = `{"id":"p3","name":"Eva"}`
	rest := NewREST(api)
	ctx := context.Background()

	cases := []struct {
		identity domain.Identity
		want     []string
	}{
		{domain.Identity{ID: "a1", Role: domain.RoleAdmin}, []string{"p1", "p2"}},
		{domain.Identity{ID: "d1", Role: domain.RoleDoctor}, []string{"p2"}},
		{domain.Identity{ID: "u3", Role: domain.RolePatient}, []string{"p3"}},
	}
	for _, tc := range cases {
		ps, err := rest.ListPatients(ctx, tc.identity)
		if err != nil {
			t.Fatalf("%s: %v", tc.identity.Role, err)
		}
		var got []string
		for _, p := range ps {
			got = append(got, p.ID)
		}
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Fatalf("%s: expected %v, got %v", tc.identity.Role, tc.want, got)
		}
	}
}

func TestREST_ListPaymentsAndReports(t *testing.T) {
	api := newStubAPI()
	api.responses["GET /payments"] = `[{"id":"pay1","amount":50}]`
	api.responses["GET /payments/my"] = `[{"id":"pay2","amount":20}]`
	api.responses["GET /reports/doctor/d1"] = `[{"id":"r1","title":"Weekly"}]`
	rest := NewREST(api)
	ctx := context.Background()

	pays, err := rest.ListPayments(ctx, domain.Identity{ID: "a1", Role: domain.RoleAdmin})
	if err != nil || len(pays) != 1 || pays[0].ID != "pay1" {
		t.Fatalf("admin payments: %+v %v", pays, err)
	}
	pays, err = rest.ListPayments(ctx, domain.Identity{ID: "u1", Role: domain.RolePatient})
	if err != nil || len(pays) != 1 || pays[0].ID != "pay2" {
		t.Fatalf("patient payments: %+v %v", pays, err)
	}

	reps, err := rest.ListReports(ctx, domain.Identity{ID: "d1", Role: domain.RoleDoctor})
	if err != nil || len(reps) != 1 || reps[0].Title != "Weekly" {
		t.Fatalf("doctor reports: %+v %v", reps, err)
	}
}

func TestREST_ListDoctors_PropagatesExpiry(t *testing.T) {
	api := newStubAPI()
	api.errs["GET /doctors"] = domain.ErrSessionExpired

	if _, err := NewREST(api).ListDoctors(context.Background()); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
