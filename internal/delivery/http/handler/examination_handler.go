package handler

import (
	"encoding/json"
	"net/http"

	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/usecase"
	"klinik-sentosa/pkg/response"
	"klinik-sentosa/pkg/validator"
)

type ExaminationHandler struct {
	clinicFlow usecase.ClinicFlowUsecase
	dashboard  usecase.DashboardUsecase
	validator  *validator.CustomValidator
}

func NewExaminationHandler(clinicFlow usecase.ClinicFlowUsecase, dashboard usecase.DashboardUsecase, validator *validator.CustomValidator) *ExaminationHandler {
	return &ExaminationHandler{
		clinicFlow: clinicFlow,
		dashboard:  dashboard,
		validator:  validator,
	}
}

// Create files the doctor's examination, with an optional prescription
// @Summary File examination
// @Tags Examinations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.FileExaminationRequest true "File Examination Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /examinations [post]
func (h *ExaminationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.FileExaminationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	exam, err := h.clinicFlow.FileExamination(r.Context(), &req)
	if err != nil {
		writeClinicError(w, err, "Failed to save examination")
		return
	}

	response.Success(w, http.StatusCreated, "Examination saved successfully", exam)
}

// List is the medical history
// @Summary List examinations
// @Tags Examinations
// @Security BearerAuth
// @Produce json
// @Param patientId query string false "Patient ID"
// @Param search query string false "Patient name or diagnosis"
// @Success 200 {object} response.Response
// @Router /examinations [get]
func (h *ExaminationHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	exams, err := h.dashboard.Examinations(r.Context(), query.Get("patientId"), query.Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to get examinations")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Examinations retrieved successfully", exams.Examinations, &response.Meta{Total: exams.Total})
}
