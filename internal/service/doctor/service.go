package doctor

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/pkg/errors"
)

// roster is the fixed set of doctors patients can book with. Static for the
// process lifetime.
var roster = []model.Doctor{
	{
		ID:         "1",
		Name:       "Dr. Sarah Johnson",
		Specialty:  "Cardiologist",
		Avatar:     "https://images.pexels.com/photos/5327585/pexels-photo-5327585.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
		Rating:     4.9,
		Experience: "15 years",
	},
	{
		ID:         "2",
		Name:       "Dr. Michael Chen",
		Specialty:  "Neurologist",
		Avatar:     "https://images.pexels.com/photos/5215024/pexels-photo-5215024.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
		Rating:     4.8,
		Experience: "12 years",
	},
	{
		ID:         "3",
		Name:       "Dr. Emily Rodriguez",
		Specialty:  "Dermatologist",
		Avatar:     "https://images.pexels.com/photos/4173239/pexels-photo-4173239.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
		Rating:     4.9,
		Experience: "10 years",
	},
	{
		ID:         "4",
		Name:       "Dr. David Thompson",
		Specialty:  "Orthopedic Surgeon",
		Avatar:     "https://images.pexels.com/photos/6749773/pexels-photo-6749773.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
		Rating:     4.7,
		Experience: "18 years",
	},
}

// slotTimes are the bookable windows for every doctor on every date.
var slotTimes = []string{
	"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM", "4:00 PM", "4:30 PM",
}

const availabilityRate = 0.7

type Service struct {
	// slots memoizes generated availability per (doctor, date) so repeated
	// queries within the cache window agree. Availability is simulated; there
	// is no reservation backing it.
	slots *cache.Cache
}

func NewService() *Service {
	return &Service{
		slots: cache.New(24*time.Hour, time.Hour),
	}
}

// List returns the full roster.
func (s *Service) List() []model.Doctor {
	doctors := make([]model.Doctor, len(roster))
	copy(doctors, roster)
	return doctors
}

// Get returns the doctor with the given id.
func (s *Service) Get(id string) (*model.Doctor, error) {
	for i := range roster {
		if roster[i].ID == id {
			doctor := roster[i]
			return &doctor, nil
		}
	}
	return nil, errors.NotFound("doctor", nil)
}

// Slots returns the bookable windows for a doctor on a date. Generated
// availability is cached so clients asking twice see the same answer.
func (s *Service) Slots(doctorID, date string) ([]model.TimeSlot, error) {
	if _, err := s.Get(doctorID); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errors.BadRequest("invalid date format, expected YYYY-MM-DD", err)
	}

	key := fmt.Sprintf("%s_%s", doctorID, date)
	if cached, ok := s.slots.Get(key); ok {
		return cached.([]model.TimeSlot), nil
	}

	slots := make([]model.TimeSlot, 0, len(slotTimes))
	for _, t := range slotTimes {
		slots = append(slots, model.TimeSlot{
			Time:      t,
			Available: rand.Float64() < availabilityRate,
		})
	}

	s.slots.Set(key, slots, cache.DefaultExpiration)
	return slots, nil
}

// HasSlot reports whether label is one of the canonical slot times.
func (s *Service) HasSlot(label string) bool {
	for _, t := range slotTimes {
		if t == label {
			return true
		}
	}
	return false
}
