package model

// DashboardSummary is the aggregate view rendered on the portal landing page.
type DashboardSummary struct {
	User              *User        `json:"user"`
	UpcomingCount     int          `json:"upcoming_count"`
	NextAppointment   *Appointment `json:"next_appointment,omitempty"`
	PrescriptionCount int          `json:"prescription_count"`
}
