package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/core/ports"
)

// RecordSearch filters records the way the records screen does: a
// case-insensitive text match over the free-text fields plus optional
// status and date bounds.
type RecordSearch struct{}

// Filter returns the records matching q, newest first. The input slice is not
// modified.
func (RecordSearch) Filter(records []domain.MedicalRecord, q ports.RecordQuery) []domain.MedicalRecord {
	term := strings.TrimSpace(q.Text)
	out := make([]domain.MedicalRecord, 0, len(records))
	for _, r := range records {
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if !q.From.IsZero() && r.RecordDate.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && r.RecordDate.After(q.To) {
			continue
		}
		if term != "" && !matchesAny(term, r.Diagnosis, r.Treatment, r.Notes, r.DoctorName, r.PatientName) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordDate.After(out[j].RecordDate) })
	return out
}

func matchesAny(term string, fields ...string) bool {
	for _, f := range fields {
		if start, _ := indexFold(f, term); start >= 0 {
			return true
		}
	}
	return false
}

// Highlight splits text around every case-insensitive occurrence of term.
// An empty term yields the whole text as one unmatched segment.
func (RecordSearch) Highlight(text, term string) []ports.Segment {
	term = strings.TrimSpace(term)
	if text == "" {
		return nil
	}
	if term == "" {
		return []ports.Segment{{Text: text}}
	}

	var segs []ports.Segment
	rest := text
	for rest != "" {
		start, end := indexFold(rest, term)
		if start < 0 {
			segs = append(segs, ports.Segment{Text: rest})
			break
		}
		if start > 0 {
			segs = append(segs, ports.Segment{Text: rest[:start]})
		}
		segs = append(segs, ports.Segment{Text: rest[start:end], Match: true})
		rest = rest[end:]
	}
	return segs
}

// indexFold finds term in s ignoring case and returns the byte bounds of the
// match, or -1, -1. Matching walks runes so case mappings that change the
// encoded length stay aligned with s.
func indexFold(s, term string) (int, int) {
	n := utf8.RuneCountInString(term)
	if n == 0 {
		return 0, 0
	}
	for i := 0; i < len(s); {
		j := i
		for k := 0; k < n && j < len(s); k++ {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
		}
		if strings.EqualFold(s[i:j], term) {
			return i, j
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}
