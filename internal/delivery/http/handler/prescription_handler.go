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

type PrescriptionHandler struct {
	clinicFlow usecase.ClinicFlowUsecase
	dashboard  usecase.DashboardUsecase
	validator  *validator.CustomValidator
}

func NewPrescriptionHandler(clinicFlow usecase.ClinicFlowUsecase, dashboard usecase.DashboardUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		clinicFlow: clinicFlow,
		dashboard:  dashboard,
		validator:  validator,
	}
}

// Create handles a prescription written outside of an examination
// @Summary Add prescription
// @Tags Prescriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddPrescriptionRequest true "Add Prescription Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /prescriptions [post]
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.clinicFlow.AddPrescription(r.Context(), &req)
	if err != nil {
		writeClinicError(w, err, "Failed to create prescription")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

// List returns pending and completed prescriptions
// @Summary List prescriptions
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /prescriptions [get]
func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.dashboard.Prescriptions(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

// Dispense completes a prescription at the pharmacy counter
// @Summary Dispense prescription
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Prescription ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /prescriptions/{id}/dispense [post]
func (h *PrescriptionHandler) Dispense(w http.ResponseWriter, r *http.Request) {
	dispensed, err := h.clinicFlow.Dispense(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeClinicError(w, err, "Failed to dispense prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription dispensed", dispensed)
}
