package converter

import (
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
)

func LineItemsToResponses(items entity.LineItems) []dto.LineItemResponse {
	responses := make([]dto.LineItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.LineItemResponse{Name: item.Name, Amount: item.Amount})
	}
	return responses
}

func LineItemRequestsToEntities(items []dto.LineItemRequest) entity.LineItems {
	out := make(entity.LineItems, 0, len(items))
	for _, item := range items {
		out = append(out, entity.LineItem{Name: item.Name, Amount: item.Amount})
	}
	return out
}

func TransactionToResponse(tx *entity.Transaction) *dto.TransactionResponse {
	if tx == nil {
		return nil
	}

	return &dto.TransactionResponse{
		ID:          tx.ID,
		PatientID:   tx.PatientID,
		PatientName: tx.PatientName,
		Amount:      tx.Amount,
		Method:      string(tx.Method),
		Items:       LineItemsToResponses(tx.Items),
		Date:        tx.Date,
	}
}

func TransactionsToResponses(transactions []entity.Transaction) []dto.TransactionResponse {
	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, *TransactionToResponse(&transactions[i]))
	}
	return responses
}
