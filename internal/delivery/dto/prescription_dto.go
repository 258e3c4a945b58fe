package dto

import "time"

// Request DTOs

type AddPrescriptionRequest struct {
	PatientID   string                    `json:"patient_id" validate:"required"`
	PatientName string                    `json:"patient_name"`
	Medicines   []PrescriptionLineRequest `json:"medicines" validate:"required,min=1,dive"`
}

// Response DTOs

type PrescriptionItemResponse struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage"`
	Quantity   int    `json:"quantity"`
}

type PrescriptionResponse struct {
	ID          string                     `json:"id"`
	PatientID   string                     `json:"patient_id"`
	PatientName string                     `json:"patient_name"`
	Medicines   []PrescriptionItemResponse `json:"medicines"`
	Status      string                     `json:"status"`
	CreatedAt   time.Time                  `json:"created_at"`
}

type PrescriptionListResponse struct {
	Pending   []PrescriptionResponse `json:"pending"`
	Completed []PrescriptionResponse `json:"completed"`
}

type DispenseResponse struct {
	Prescription PrescriptionResponse `json:"prescription"`
	QueueStatus  string               `json:"queue_status,omitempty"`
}
