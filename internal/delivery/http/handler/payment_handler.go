package handler

import (
	"encoding/json"
	"net/http"

	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/usecase"
	"klinik-sentosa/pkg/response"
	"klinik-sentosa/pkg/validator"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	clinicFlow usecase.ClinicFlowUsecase
	dashboard  usecase.DashboardUsecase
	validator  *validator.CustomValidator
}

func NewPaymentHandler(clinicFlow usecase.ClinicFlowUsecase, dashboard usecase.DashboardUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		clinicFlow: clinicFlow,
		dashboard:  dashboard,
		validator:  validator,
	}
}

// Bill returns the amount due for a patient
// @Summary Get bill
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param patientId path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{patientId}/bill [get]
func (h *PaymentHandler) Bill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.dashboard.Bill(r.Context(), mux.Vars(r)["patientId"])
	if err != nil {
		writeClinicError(w, err, "Failed to compute bill")
		return
	}

	response.Success(w, http.StatusOK, "Bill computed successfully", bill)
}

// Create records a payment at the cashier
// @Summary Record payment
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RecordPaymentRequest true "Record Payment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	payment, err := h.clinicFlow.RecordPayment(r.Context(), &req)
	if err != nil {
		writeClinicError(w, err, "Failed to process payment")
		return
	}

	response.Success(w, http.StatusCreated, "Payment processed successfully", payment)
}

// Transactions is the payment report
// @Summary List transactions
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param patientId query string false "Patient ID"
// @Param search query string false "Patient name or method"
// @Success 200 {object} response.Response
// @Router /transactions [get]
func (h *PaymentHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	report, err := h.dashboard.Transactions(r.Context(), query.Get("patientId"), query.Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to get transactions")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Transactions retrieved successfully", report, &response.Meta{Total: report.Total})
}
