package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

func day(d int) time.Time { return time.Date(2026, 10, d, 9, 0, 0, 0, time.UTC) }

var sampleRecords = []domain.MedicalRecord{
	{ID: "r1", Diagnosis: "Seasonal Flu", Treatment: "Rest", Status: domain.RecordResolved, RecordDate: day(1), DoctorName: "Dr. Grey"},
	{ID: "r2", Diagnosis: "Migraine", Notes: "flu shot scheduled", Status: domain.RecordActive, RecordDate: day(5)},
	{ID: "r3", Diagnosis: "Fracture", Treatment: "Cast", Status: domain.RecordActive, RecordDate: day(9), PatientName: "Ana Flores"},
}

func ids(recs []domain.MedicalRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestRecordSearch_Filter(t *testing.T) {
	cases := []struct {
		name string
		q    ports.RecordQuery
		want []string
	}{
		{"no query returns newest first", ports.RecordQuery{}, []string{"r3", "r2", "r1"}},
		{"case insensitive over all fields", ports.RecordQuery{Text: "FLU"}, []string{"r2", "r1"}},
		{"patient name", ports.RecordQuery{Text: "flores"}, []string{"r3"}},
		{"diagnosis", ports.RecordQuery{Text: "migr"}, []string{"r2"}},
		{"doctor name", ports.RecordQuery{Text: "grey"}, []string{"r1"}},
		{"status", ports.RecordQuery{Status: domain.RecordActive}, []string{"r3", "r2"}},
		{"date range", ports.RecordQuery{From: day(2), To: day(8)}, []string{"r2"}},
		{"combined", ports.RecordQuery{Text: "flu", Status: domain.RecordResolved}, []string{"r1"}},
		{"no match", ports.RecordQuery{Text: "asthma"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(RecordSearch{}.Filter(sampleRecords, tc.q))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRecordSearch_FilterDoesNotReorderInput(t *testing.T) {
	in := append([]domain.MedicalRecord(nil), sampleRecords...)
	_ = RecordSearch{}.Filter(in, ports.RecordQuery{})
	if !reflect.DeepEqual(ids(in), []string{"r1", "r2", "r3"}) {
		t.Fatalf("input was reordered: %v", ids(in))
	}
}

func TestRecordSearch_Highlight(t *testing.T) {
	cases := []struct {
		name string
		text string
		term string
		want []ports.Segment
	}{
		{"empty text", "", "flu", nil},
		{"empty term", "Seasonal Flu", "", []ports.Segment{{Text: "Seasonal Flu"}}},
		{"single match", "Seasonal Flu", "flu", []ports.Segment{{Text: "Seasonal "}, {Text: "Flu", Match: true}}},
		{"leading match", "flu shot", "FLU", []ports.Segment{{Text: "flu", Match: true}, {Text: " shot"}}},
		{"repeated", "aXa", "a", []ports.Segment{{Text: "a", Match: true}, {Text: "X"}, {Text: "a", Match: true}}},
		{"no match", "Cast", "flu", []ports.Segment{{Text: "Cast"}}},
		{"unicode", "Dolor de CABEZA ÁGUDO", "águdo", []ports.Segment{{Text: "Dolor de CABEZA "}, {Text: "ÁGUDO", Match: true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RecordSearch{}.Highlight(tc.text, tc.term)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
