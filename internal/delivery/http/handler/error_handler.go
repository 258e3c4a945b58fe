package handler

import (
	"errors"
	"net/http"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/usecase"
	"klinik-sentosa/pkg/response"
)

// writeClinicError maps clinic rule violations to 4xx responses. Anything
// else is a backend failure and is reported with fallback.
func writeClinicError(w http.ResponseWriter, err error, fallback string) {
	var stockErr *usecase.InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		response.UnprocessableEntity(w, "Insufficient stock", map[string]interface{}{
			"medicine_id": stockErr.MedicineID,
			"name":        stockErr.Name,
			"requested":   stockErr.Requested,
			"available":   stockErr.Available,
		})
	case errors.Is(err, usecase.ErrQueueEntryNotFound):
		response.NotFound(w, "Queue entry not found")
	case errors.Is(err, usecase.ErrPrescriptionNotFound):
		response.NotFound(w, "Prescription not found")
	case errors.Is(err, usecase.ErrMedicineNotFound):
		response.NotFound(w, "Medicine not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrNotificationNotFound):
		response.NotFound(w, "Notification not found")
	case errors.Is(err, entity.ErrInvalidTransition):
		response.Conflict(w, "Invalid queue transition", err.Error())
	case errors.Is(err, usecase.ErrPrescriptionCompleted):
		response.Conflict(w, "Prescription is already completed", nil)
	case errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrInvalidPaymentMethod),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidStock):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
