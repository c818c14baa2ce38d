package model

import (
	"time"

	"github.com/google/uuid"
)

// Medication is a value object owned by its prescription; entries have no
// identity outside their list position.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type Prescription struct {
	ID           uuid.UUID    `json:"id"`
	DoctorName   string       `json:"doctor_name"`
	Date         string       `json:"date"`
	Medications  []Medication `json:"medications"`
	Instructions string       `json:"instructions"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (p Prescription) RecordID() uuid.UUID {
	return p.ID
}

func (p Prescription) WithID(id uuid.UUID) Prescription {
	p.ID = id
	return p
}

// MedicationDraft is the unvalidated edit-form shape of a medication entry.
type MedicationDraft struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage" validate:"required"`
	Frequency string `json:"frequency" validate:"required"`
	Duration  string `json:"duration" validate:"required"`
}

// PrescriptionDraft is the edit-form state of a prescription. It is distinct
// from the persisted Prescription and converted only at submit time, after
// validation.
type PrescriptionDraft struct {
	DoctorName   string            `json:"doctor_name" validate:"required"`
	Date         string            `json:"date" validate:"required,datetime=2006-01-02"`
	Instructions string            `json:"instructions" validate:"max=2000"`
	Medications  []MedicationDraft `json:"medications" validate:"required,min=1,dive"`
}

// ToPrescription converts a validated draft into a persistable record.
// The store assigns the id.
func (d *PrescriptionDraft) ToPrescription() Prescription {
	meds := make([]Medication, 0, len(d.Medications))
	for _, m := range d.Medications {
		meds = append(meds, Medication(m))
	}
	return Prescription{
		DoctorName:   d.DoctorName,
		Date:         d.Date,
		Medications:  meds,
		Instructions: d.Instructions,
	}
}
