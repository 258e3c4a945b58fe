package converter

import (
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
)

func ExaminationToResponse(exam *entity.Examination) *dto.ExaminationResponse {
	if exam == nil {
		return nil
	}

	return &dto.ExaminationResponse{
		ID:              exam.ID,
		PatientID:       exam.PatientID,
		PatientName:     exam.PatientName,
		Diagnosis:       exam.Diagnosis,
		Notes:           exam.Notes,
		HasPrescription: exam.HasPrescription,
		Date:            exam.Date,
	}
}

func ExaminationsToResponses(exams []entity.Examination) []dto.ExaminationResponse {
	responses := make([]dto.ExaminationResponse, 0, len(exams))
	for i := range exams {
		responses = append(responses, *ExaminationToResponse(&exams[i]))
	}
	return responses
}
