package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// Appointment mirrors the backend's appointment resource.
type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patientId"`
	DoctorID  string            `json:"doctorId"`
	Doctor    *Doctor           `json:"doctor,omitempty"`
	StartsAt  time.Time         `json:"appointmentDate"`
	Reason    string            `json:"reason,omitempty"`
	Status    AppointmentStatus `json:"status"`
}

// Doctor is the public doctor profile shown next to appointments.
type Doctor struct {
	ID             string `json:"id"`
	UserID         string `json:"userId,omitempty"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
	Email          string `json:"email,omitempty"`
}
