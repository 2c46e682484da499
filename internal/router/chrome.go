// Package router decides which navigation chrome a path gets and whether a
// protected screen may render.
package router

import (
	"strings"

	"github.com/medportal/portal/internal/session"
)

// Chrome is the navigation bar variant shown around a screen.
type Chrome string

const (
	ChromeNone    Chrome = "none"
	ChromeAdmin   Chrome = "admin"
	ChromeDoctor  Chrome = "doctor"
	ChromeDefault Chrome = "default"
)

// authPaths render without chrome.
var authPaths = map[string]struct{}{
	"/login":    {},
	"/register": {},
}

// SelectChrome picks exactly one chrome for path. Auth pages come first, then
// the /admin prefix, then the /doctor prefix; everything else gets the
// default chrome. The session is accepted but not consulted: chrome follows
// the path, not the role.
func SelectChrome(path string, _ session.Snapshot) Chrome {
	p := normalize(path)
	if _, ok := authPaths[p]; ok {
		return ChromeNone
	}
	if strings.HasPrefix(p, "/admin") {
		return ChromeAdmin
	}
	if strings.HasPrefix(p, "/doctor") {
		return ChromeDoctor
	}
	return ChromeDefault
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Link is one navigation entry.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Links returns the navigation entries shown by c. Role-specific screens are
// reachable through these links only; nothing else hides them.
func (c Chrome) Links() []Link {
	switch c {
	case ChromeAdmin:
		return []Link{
			{Label: "Dashboard", Path: "/admin/dashboard"},
			{Label: "Appointments", Path: "/admin/appointments"},
			{Label: "Doctors", Path: "/admin/doctors"},
			{Label: "Patients", Path: "/admin/patients"},
			{Label: "Payments", Path: "/admin/payments"},
			{Label: "Reports", Path: "/admin/reports"},
			{Label: "Medical Records", Path: "/medical-records"},
		}
	case ChromeDoctor:
		return []Link{
			{Label: "Dashboard", Path: "/doctor/dashboard"},
			{Label: "Appointments", Path: "/doctor/appointments"},
			{Label: "Patients", Path: "/doctor/patients"},
			{Label: "Medical Records", Path: "/medical-records"},
			{Label: "Profile", Path: "/profile"},
		}
	case ChromeDefault:
		return []Link{
			{Label: "Dashboard", Path: "/dashboard"},
			{Label: "Appointments", Path: "/appointments"},
			{Label: "Medical Records", Path: "/medical-records"},
			{Label: "Payments", Path: "/payments"},
			{Label: "Profile", Path: "/profile"},
		}
	}
	return nil
}
