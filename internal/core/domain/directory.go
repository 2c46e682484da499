package domain

import "time"

type Patient struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

type Payment struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patientId"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Report struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type,omitempty"`
	DoctorID  string    `json:"doctorId,omitempty"`
	PatientID string    `json:"patientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
