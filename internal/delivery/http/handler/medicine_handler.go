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

type MedicineHandler struct {
	medicineUsecase usecase.MedicineUsecase
	validator       *validator.CustomValidator
}

func NewMedicineHandler(medicineUsecase usecase.MedicineUsecase, validator *validator.CustomValidator) *MedicineHandler {
	return &MedicineHandler{
		medicineUsecase: medicineUsecase,
		validator:       validator,
	}
}

// Create handles medicine creation
// @Summary Create a medicine
// @Tags Medicines
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMedicineRequest true "Create Medicine Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /medicines [post]
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medicine, err := h.medicineUsecase.Create(r.Context(), &req)
	if err != nil {
		writeClinicError(w, err, "Failed to create medicine")
		return
	}

	response.Success(w, http.StatusCreated, "Medicine created successfully", medicine)
}

// GetAll lists the inventory
// @Summary List medicines
// @Tags Medicines
// @Security BearerAuth
// @Produce json
// @Param search query string false "Medicine name"
// @Success 200 {object} response.Response
// @Router /medicines [get]
func (h *MedicineHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.medicineUsecase.GetAll(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to get medicines")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Medicines retrieved successfully", medicines.Medicines, &response.Meta{Total: medicines.Total})
}

// Update handles medicine update and restock
// @Summary Update a medicine
// @Tags Medicines
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Medicine ID"
// @Param request body dto.UpdateMedicineRequest true "Update Medicine Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medicines/{id} [put]
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medicine, err := h.medicineUsecase.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeClinicError(w, err, "Failed to update medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine updated successfully", medicine)
}

// Delete handles medicine deletion
// @Summary Delete a medicine
// @Tags Medicines
// @Security BearerAuth
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medicines/{id} [delete]
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.medicineUsecase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeClinicError(w, err, "Failed to delete medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine deleted successfully", nil)
}
