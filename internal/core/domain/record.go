package domain

import "time"

// RecordStatus is the lifecycle label the backend attaches to a medical record.
type RecordStatus string

const (
	RecordActive   RecordStatus = "ACTIVE"
	RecordResolved RecordStatus = "RESOLVED"
	RecordArchived RecordStatus = "ARCHIVED"
)

// MedicalRecord mirrors the backend's medical record resource.
type MedicalRecord struct {
	ID          string       `json:"id"`
	PatientID   string       `json:"patientId"`
	PatientName string       `json:"patientName,omitempty"`
	DoctorID    string       `json:"doctorId"`
	DoctorName  string       `json:"doctorName,omitempty"`
	Diagnosis   string       `json:"diagnosis"`
	Treatment   string       `json:"treatment,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Status      RecordStatus `json:"status,omitempty"`
	RecordDate  time.Time    `json:"recordDate"`
}
