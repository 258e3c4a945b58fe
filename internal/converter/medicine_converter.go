package converter

import (
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
)

// MedicineToResponse flags the medicine as low stock below threshold
func MedicineToResponse(medicine *entity.Medicine, threshold int) *dto.MedicineResponse {
	if medicine == nil {
		return nil
	}

	return &dto.MedicineResponse{
		ID:       medicine.ID,
		Name:     medicine.Name,
		Unit:     medicine.Unit,
		Price:    medicine.Price,
		Stock:    medicine.Stock,
		LowStock: medicine.IsLowStock(threshold),
	}
}

func MedicinesToResponses(medicines []entity.Medicine, threshold int) []dto.MedicineResponse {
	responses := make([]dto.MedicineResponse, 0, len(medicines))
	for i := range medicines {
		responses = append(responses, *MedicineToResponse(&medicines[i], threshold))
	}
	return responses
}
