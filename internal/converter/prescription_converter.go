package converter

import (
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
)

// PrescriptionLinesToItems converts request lines to prescription items
func PrescriptionLinesToItems(lines []dto.PrescriptionLineRequest) entity.PrescriptionItems {
	items := make(entity.PrescriptionItems, 0, len(lines))
	for _, line := range lines {
		items = append(items, entity.PrescriptionItem{
			MedicineID: line.MedicineID,
			Name:       line.Name,
			Dosage:     line.Dosage,
			Quantity:   entity.Quantity(line.Quantity),
		})
	}
	return items
}

func PrescriptionToResponse(rx *entity.Prescription) *dto.PrescriptionResponse {
	if rx == nil {
		return nil
	}

	items := make([]dto.PrescriptionItemResponse, 0, len(rx.Medicines))
	for _, item := range rx.Medicines {
		items = append(items, dto.PrescriptionItemResponse{
			MedicineID: item.MedicineID,
			Name:       item.Name,
			Dosage:     item.Dosage,
			Quantity:   item.Quantity.Int(),
		})
	}

	return &dto.PrescriptionResponse{
		ID:          rx.ID,
		PatientID:   rx.PatientID,
		PatientName: rx.PatientName,
		Medicines:   items,
		Status:      string(rx.Status),
		CreatedAt:   rx.CreatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		responses = append(responses, *PrescriptionToResponse(&prescriptions[i]))
	}
	return responses
}
