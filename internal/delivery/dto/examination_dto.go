package dto

import "time"

// Request DTOs

type PrescriptionLineRequest struct {
	MedicineID string `json:"medicine_id" validate:"required"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type FileExaminationRequest struct {
	PatientID   string                    `json:"patient_id" validate:"required"`
	PatientName string                    `json:"patient_name"`
	Diagnosis   string                    `json:"diagnosis" validate:"required"`
	Notes       string                    `json:"notes"`
	Medicines   []PrescriptionLineRequest `json:"medicines" validate:"dive"`
}

// Response DTOs

type ExaminationResponse struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id"`
	PatientName     string    `json:"patient_name"`
	Diagnosis       string    `json:"diagnosis"`
	Notes           string    `json:"notes"`
	HasPrescription bool      `json:"has_prescription"`
	Date            time.Time `json:"date"`
}

type FileExaminationResponse struct {
	Examination  ExaminationResponse   `json:"examination"`
	Prescription *PrescriptionResponse `json:"prescription,omitempty"`
	QueueStatus  string                `json:"queue_status,omitempty"`
}

type ExaminationListResponse struct {
	Examinations []ExaminationResponse `json:"examinations"`
	Total        int                   `json:"total"`
}
