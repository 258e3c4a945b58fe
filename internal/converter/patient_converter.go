package converter

import (
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:           patient.ID,
		Name:         patient.Name,
		Age:          patient.Age,
		Contact:      patient.Contact,
		Complaint:    patient.Complaint,
		RegisteredAt: patient.RegisteredAt,
	}
}

// QueueEntryToResponse converts a QueueEntry entity to QueueEntryResponse DTO
func QueueEntryToResponse(entry *entity.QueueEntry) *dto.QueueEntryResponse {
	if entry == nil {
		return nil
	}

	return &dto.QueueEntryResponse{
		ID:          entry.ID,
		PatientID:   entry.PatientID,
		PatientName: entry.PatientName,
		Status:      string(entry.Status),
		JoinedAt:    entry.JoinedAt,
	}
}

// QueueEntriesToResponses converts a slice of QueueEntry entities
func QueueEntriesToResponses(entries []entity.QueueEntry) []dto.QueueEntryResponse {
	responses := make([]dto.QueueEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *QueueEntryToResponse(&entries[i]))
	}
	return responses
}
