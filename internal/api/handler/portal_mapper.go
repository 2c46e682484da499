package handler

import (
	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/session"
)

// --- Request → domain ---

func toRecord(req recordRequest) domain.MedicalRecord {
	return domain.MedicalRecord{
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		DoctorID:    req.DoctorID,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Notes:       req.Notes,
		Status:      domain.RecordStatus(req.Status),
		RecordDate:  req.RecordDate.UTC(),
	}
}

func toAppointment(req appointmentRequest) domain.Appointment {
	return domain.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartsAt:  req.StartsAt.UTC(),
		Reason:    req.Reason,
	}
}

func toPatch(req profileRequest) domain.IdentityPatch {
	return domain.IdentityPatch{Name: req.Name, Email: req.Email}
}

// --- Session → view ---

func toSessionView(snap session.Snapshot) sessionView {
	return sessionView{
		Authenticated: snap.IsAuthenticated(),
		Loading:       snap.Loading(),
		Identity:      snap.Identity,
		Placeholder:   snap.Credential == session.PlaceholderCredential,
	}
}

// dashboardFor is where a freshly signed-in user lands.
func dashboardFor(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleDoctor:
		return "/doctor/dashboard"
	default:
		return "/dashboard"
	}
}
