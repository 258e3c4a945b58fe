package handler

import (
	"encoding/json"
	"net/http"

	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/usecase"
	"klinik-sentosa/pkg/response"
	"klinik-sentosa/pkg/validator"

	"github.com/gorilla/mux"
)

// PatientHandler serves registration and the queue
type PatientHandler struct {
	clinicFlow usecase.ClinicFlowUsecase
	dashboard  usecase.DashboardUsecase
	validator  *validator.CustomValidator
}

func NewPatientHandler(clinicFlow usecase.ClinicFlowUsecase, dashboard usecase.DashboardUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		clinicFlow: clinicFlow,
		dashboard:  dashboard,
		validator:  validator,
	}
}

// Register handles patient registration at the front desk
// @Summary Register a patient
// @Description Create the patient and put them in the waiting queue
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterPatientRequest true "Register Patient Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	registration, err := h.clinicFlow.RegisterPatient(r.Context(), &req)
	if err != nil {
		writeClinicError(w, err, "Failed to register patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", registration)
}

// ActiveQueue lists every patient still in the clinic
// @Summary Active queue
// @Tags Queue
// @Security BearerAuth
// @Produce json
// @Param search query string false "Patient name"
// @Success 200 {object} response.Response
// @Router /queue [get]
func (h *PatientHandler) ActiveQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.dashboard.ActiveQueue(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to get queue")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Queue retrieved successfully", queue, &response.Meta{Total: queue.Total})
}

// Call moves a waiting patient into the examination room
// @Summary Call patient
// @Tags Queue
// @Security BearerAuth
// @Produce json
// @Param id path string true "Queue entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /queue/{id}/call [post]
func (h *PatientHandler) Call(w http.ResponseWriter, r *http.Request) {
	entry, err := h.clinicFlow.CallPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeClinicError(w, err, "Failed to call patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient called", entry)
}

// Transition applies a queue event
// @Summary Apply queue event
// @Tags Queue
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Queue entry ID"
// @Param request body dto.TransitionRequest true "Transition Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /queue/{id}/transitions [post]
func (h *PatientHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.clinicFlow.Transition(r.Context(), mux.Vars(r)["id"], entity.QueueEvent(req.Event))
	if err != nil {
		writeClinicError(w, err, "Failed to update queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue updated successfully", entry)
}

// AdvanceStatus sets the next status explicitly
// @Summary Advance queue status
// @Tags Queue
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Queue entry ID"
// @Param request body dto.AdvanceStatusRequest true "Advance Status Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /queue/{id} [patch]
func (h *PatientHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.AdvanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.clinicFlow.AdvanceStatus(r.Context(), mux.Vars(r)["id"], entity.QueueStatus(req.Status))
	if err != nil {
		writeClinicError(w, err, "Failed to update queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue updated successfully", entry)
}
