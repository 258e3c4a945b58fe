package converter

import (
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/service"
)

func NotificationsToResponses(notifications []service.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, dto.NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
			ExpiresAt: n.ExpiresAt,
		})
	}
	return responses
}

func BillToResponse(bill *service.Bill, prescriptionID string) *dto.BillResponse {
	return &dto.BillResponse{
		PatientID:      bill.PatientID,
		PatientName:    bill.PatientName,
		PrescriptionID: prescriptionID,
		ExamFee:        bill.ExamFee,
		MedicineFee:    bill.MedicineFee,
		Total:          bill.Total,
		Items:          LineItemsToResponses(bill.Items),
	}
}

func DailyRevenueToResponses(days []service.DailyRevenue) []dto.DailyRevenueResponse {
	responses := make([]dto.DailyRevenueResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, dto.DailyRevenueResponse{Date: d.Date, Revenue: d.Revenue, Profit: d.Profit})
	}
	return responses
}
