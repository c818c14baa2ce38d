package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusUpcoming  AppointmentStatus = "upcoming"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booked visit. Doctor name and specialty are denormalized
// at booking time so the record renders without a roster lookup.
type Appointment struct {
	ID         uuid.UUID         `json:"id"`
	DoctorID   string            `json:"doctor_id"`
	DoctorName string            `json:"doctor_name"`
	Specialty  string            `json:"specialty"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Status     AppointmentStatus `json:"status"`
	Reason     string            `json:"reason"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (a Appointment) RecordID() uuid.UUID {
	return a.ID
}

func (a Appointment) WithID(id uuid.UUID) Appointment {
	a.ID = id
	return a
}

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string `json:"time" binding:"required"`
	Reason   string `json:"reason" binding:"required,max=1000"`
}
