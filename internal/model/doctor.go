package model

// Doctor is read-only roster data; no user flow mutates it.
type Doctor struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Specialty  string  `json:"specialty"`
	Avatar     string  `json:"avatar"`
	Rating     float64 `json:"rating"`
	Experience string  `json:"experience"`
}

// TimeSlot is a labeled booking window for one doctor on one date.
// Availability is simulated, not backed by a reservation system.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
