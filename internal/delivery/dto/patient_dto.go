package dto

import "time"

// Request DTOs

type RegisterPatientRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Age       int    `json:"age" validate:"gte=0,lte=150"`
	Contact   string `json:"contact" validate:"max=50"`
	Complaint string `json:"complaint" validate:"required"`
}

type TransitionRequest struct {
	Event string `json:"event" validate:"required,oneof=call examination_filed paid_with_prescription paid dispensed"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=waiting examining payment pharmacy completed"`
}

// Response DTOs

type PatientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Contact      string    `json:"contact"`
	Complaint    string    `json:"complaint"`
	RegisteredAt time.Time `json:"registered_at"`
}

type QueueEntryResponse struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Status      string    `json:"status"`
	JoinedAt    time.Time `json:"joined_at"`
}

type RegistrationResponse struct {
	Patient    PatientResponse    `json:"patient"`
	QueueEntry QueueEntryResponse `json:"queue_entry"`
}

type QueueListResponse struct {
	Entries  []QueueEntryResponse `json:"entries"`
	Total    int                  `json:"total"`
	ByStatus map[string]int       `json:"by_status"`
}
