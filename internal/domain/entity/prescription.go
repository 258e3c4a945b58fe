package entity

import (
	"database/sql/driver"
	"time"
)

// PrescriptionStatus represents the dispensing state of a prescription
type PrescriptionStatus string

const (
	PrescriptionStatusPending   PrescriptionStatus = "pending"
	PrescriptionStatusCompleted PrescriptionStatus = "completed"
)

// PrescriptionItem is one medicine line of a prescription
type PrescriptionItem struct {
	MedicineID string   `json:"id"`
	Name       string   `json:"name"`
	Dosage     string   `json:"dosage"`
	Quantity   Quantity `json:"amount"`
}

// PrescriptionItems is stored as a jsonb column
type PrescriptionItems []PrescriptionItem

// Value returns json value, implement driver.Valuer interface
func (p PrescriptionItems) Value() (driver.Value, error) {
	return jsonValue(p)
}

// Scan scan value into PrescriptionItems, implements sql.Scanner interface
func (p *PrescriptionItems) Scan(value interface{}) error {
	return jsonScan(value, p)
}

// Prescription is the ordered medicine list a doctor issued for a patient
type Prescription struct {
	Identity
	PatientID   string             `gorm:"type:varchar(64);not null;index" json:"patientId"`
	PatientName string             `gorm:"type:varchar(255);not null" json:"patientName"`
	Medicines   PrescriptionItems  `gorm:"type:jsonb;not null" json:"medicines"`
	Status      PrescriptionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func (Prescription) TableName() string {
	return string(CollectionPrescriptions)
}

// IsPending checks if the prescription still waits for dispensing
func (p *Prescription) IsPending() bool {
	return p.Status == PrescriptionStatusPending
}

// IsCompleted checks if the prescription was dispensed
func (p *Prescription) IsCompleted() bool {
	return p.Status == PrescriptionStatusCompleted
}
