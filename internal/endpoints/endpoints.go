// Package endpoints is the single place backend paths are built.
//
// Parameterized entries interpolate their argument naively: nothing is
// validated and nothing panics. nil formats as "null" and Undefined as
// "undefined", so a missing id yields a well-formed but wrong path that the
// backend rejects.
package endpoints

import (
	"fmt"
	"reflect"
)

// Resource roots.
const (
	Auth           = "/auth"
	Profile        = "/profile"
	Patients       = "/patients"
	Appointments   = "/appointments"
	Doctors        = "/doctors"
	Payments       = "/payments"
	Reports        = "/reports"
	MedicalRecords = "/medical-records"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined stands in for an argument that was never supplied.
var Undefined fmt.Stringer = undefined{}

// join appends each argument to root as its own path segment.
func join(root string, args ...any) string {
	p := root
	for _, a := range args {
		p += "/" + segment(a)
	}
	return p
}

func segment(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case undefined:
		return "undefined"
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return "null"
		}
	}
	// fmt recovers from panicking String methods, which keeps this total.
	return fmt.Sprint(rv.Interface())
}

// --- auth ---

const (
	Login       = Auth + "/login"
	Register    = Auth + "/register"
	HealthCheck = Auth + "/health"
)

// --- profile ---

const (
	GetProfile    = Profile
	UpdateProfile = Profile
)

// --- patients ---

const (
	ListPatients   = Patients
	CreatePatient  = Patients
	SearchPatients = Patients + "/search"
	MyPatient      = Patients + "/me"
)

func GetPatient(id any) string { return join(Patients, id) }
func UpdatePatient(id any) string { return join(Patients, id) }
func DeletePatient(id any) string { return join(Patients, id) }
func PatientByUser(userID any) string { return join(Patients+"/user", userID) }
func PatientsByDoctor(doctorID any) string { return join(Patients+"/doctor", doctorID) }

// --- appointments ---

const (
	ListMyAppointments  = Appointments + "/my"
	ListAllAppointments = Appointments
	CreateAppointment   = Appointments
	SearchAppointments  = Appointments + "/search"
)

func GetAppointment(id any) string { return join(Appointments, id) }
func UpdateAppointment(id any) string { return join(Appointments, id) }
func DeleteAppointment(id any) string { return join(Appointments, id) }
func UpdateAppointmentStatus(id any) string { return join(Appointments, id, "status") }
func AppointmentsByPatient(patientID any) string { return join(Appointments+"/patient", patientID) }
func AppointmentsByDoctor(doctorID any) string { return join(Appointments+"/doctor", doctorID) }
func CancelAppointment(id any) string { return join(Appointments, id, "cancel") }

// --- doctors ---

const (
	ListDoctors    = Doctors
	CreateDoctor   = Doctors
	SearchDoctors  = Doctors + "/search"
	MyDoctor       = Doctors + "/me"
	AvailableSlots = Doctors + "/available"
)

func GetDoctor(id any) string { return join(Doctors, id) }
func UpdateDoctor(id any) string { return join(Doctors, id) }
func DeleteDoctor(id any) string { return join(Doctors, id) }
func DoctorByUser(userID any) string { return join(Doctors+"/user", userID) }
func DoctorSchedule(id, date any) string { return join(Doctors, id, "schedule", date) }

// --- payments ---

const (
	ListMyPayments  = Payments + "/my"
	ListAllPayments = Payments
	CreatePayment   = Payments
	CreateCheckout  = Payments + "/create-checkout-session"
	VerifyPayment   = Payments + "/verify"
)

func GetPayment(id any) string { return join(Payments, id) }
func PaymentsByPatient(patientID any) string { return join(Payments+"/patient", patientID) }
func PaymentForAppointment(apptID any) string { return join(Payments+"/appointment", apptID) }
func UpdatePaymentStatus(id any) string { return join(Payments, id, "status") }

// --- reports ---

const (
	ListReports    = Reports
	CreateReport   = Reports
	DashboardStats = Reports + "/dashboard"
	RevenueReport  = Reports + "/revenue"
)

func GetReport(id any) string { return join(Reports, id) }
func DeleteReport(id any) string { return join(Reports, id) }
func ReportsByDoctor(doctorID any) string { return join(Reports+"/doctor", doctorID) }
func ReportsByPatient(patientID any) string { return join(Reports+"/patient", patientID) }

// --- medical records ---

const (
	ListMyMedicalRecords  = MedicalRecords + "/my"
	ListAllMedicalRecords = MedicalRecords
	CreateMedicalRecord   = MedicalRecords
	SearchMedicalRecords  = MedicalRecords + "/search"
)

func GetMedicalRecord(id any) string { return join(MedicalRecords, id) }
func UpdateMedicalRecord(id any) string { return join(MedicalRecords, id) }
func DeleteMedicalRecord(id any) string { return join(MedicalRecords, id) }
func MedicalRecordsByPatient(patientID any) string { return join(MedicalRecords+"/patient", patientID) }
func MedicalRecordsByDoctor(doctorID any) string { return join(MedicalRecords+"/doctor", doctorID) }
func UpdateMedicalRecordStatus(id any) string { return join(MedicalRecords, id, "status") }
