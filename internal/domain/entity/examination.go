package entity

import "time"

// Examination records a doctor's findings for one visit
type Examination struct {
	Identity
	PatientID       string    `gorm:"type:varchar(64);not null;index" json:"patientId"`
	PatientName     string    `gorm:"type:varchar(255);not null" json:"patientName"`
	Diagnosis       string    `gorm:"type:text;not null" json:"diagnosis"`
	Notes           string    `gorm:"type:text" json:"notes"`
	HasPrescription bool      `gorm:"not null;default:false" json:"hasPrescription"`
	Date            time.Time `gorm:"not null;index" json:"date"`
}

func (Examination) TableName() string {
	return string(CollectionExaminations)
}
