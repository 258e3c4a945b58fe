package handler

import (
	"net/http"

	"klinik-sentosa/internal/usecase"
	"klinik-sentosa/pkg/response"

	"github.com/gorilla/mux"
)

// DashboardHandler serves the per-role dashboards, the toasts and the
// mirror controls
type DashboardHandler struct {
	dashboard  usecase.DashboardUsecase
	clinicFlow usecase.ClinicFlowUsecase
}

func NewDashboardHandler(dashboard usecase.DashboardUsecase, clinicFlow usecase.ClinicFlowUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboard:  dashboard,
		clinicFlow: clinicFlow,
	}
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboard.AdminDashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build dashboard")
		return
	}
	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", data)
}

func (h *DashboardHandler) Doctor(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboard.DoctorDashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build dashboard")
		return
	}
	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", data)
}

func (h *DashboardHandler) Pharmacy(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboard.PharmacyDashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build dashboard")
		return
	}
	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", data)
}

func (h *DashboardHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	toasts, err := h.dashboard.Notifications(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get notifications")
		return
	}
	response.SuccessWithMeta(w, http.StatusOK, "Notifications retrieved successfully", toasts, &response.Meta{Total: len(toasts)})
}

func (h *DashboardHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.DismissNotification(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeClinicError(w, err, "Failed to dismiss notification")
		return
	}
	response.Success(w, http.StatusOK, "Notification dismissed", nil)
}

func (h *DashboardHandler) MirrorStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.dashboard.MirrorStatus(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get mirror status")
		return
	}
	response.Success(w, http.StatusOK, "Mirror status retrieved successfully", status)
}

// RefreshMirror re-reads every collection from the data backend
// @Summary Refresh mirror
// @Tags Mirror
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /mirror/refresh [post]
func (h *DashboardHandler) RefreshMirror(w http.ResponseWriter, r *http.Request) {
	status, err := h.clinicFlow.Refresh(r.Context())
	if err != nil {
		response.Error(w, http.StatusBadGateway, "Failed to refresh data from backend", nil)
		return
	}
	response.Success(w, http.StatusOK, "Mirror refreshed", status)
}
