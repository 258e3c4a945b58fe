package http

import (
	"net/http"

	"klinik-sentosa/internal/delivery/http/handler"
	"klinik-sentosa/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	patientHandler      *handler.PatientHandler
	examinationHandler  *handler.ExaminationHandler
	prescriptionHandler *handler.PrescriptionHandler
	paymentHandler      *handler.PaymentHandler
	medicineHandler     *handler.MedicineHandler
	dashboardHandler    *handler.DashboardHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	metricsMiddleware   *middleware.MetricsMiddleware
	metricsHandler      http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	examinationHandler *handler.ExaminationHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	paymentHandler *handler.PaymentHandler,
	medicineHandler *handler.MedicineHandler,
	dashboardHandler *handler.DashboardHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		patientHandler:      patientHandler,
		examinationHandler:  examinationHandler,
		prescriptionHandler: prescriptionHandler,
		paymentHandler:      paymentHandler,
		medicineHandler:     medicineHandler,
		dashboardHandler:    dashboardHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		metricsMiddleware:   metricsMiddleware,
		metricsHandler:      metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	// Prometheus scrape endpoint
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	api.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)

	// Everything below needs a session
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Queue (any role)
	protected.HandleFunc("/queue", r.patientHandler.ActiveQueue).Methods(http.MethodGet)
	protected.HandleFunc("/queue/{id}/transitions", r.patientHandler.Transition).Methods(http.MethodPost)

	// Notifications and mirror (any role)
	protected.HandleFunc("/notifications", r.dashboardHandler.Notifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}", r.dashboardHandler.DismissNotification).Methods(http.MethodDelete)
	protected.HandleFunc("/mirror", r.dashboardHandler.MirrorStatus).Methods(http.MethodGet)
	protected.HandleFunc("/mirror/refresh", r.dashboardHandler.RefreshMirror).Methods(http.MethodPost)
	protected.HandleFunc("/medicines", r.medicineHandler.GetAll).Methods(http.MethodGet)

	// Front desk and cashier (admin)
	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/patients", r.patientHandler.Register).Methods(http.MethodPost)
	admin.HandleFunc("/queue/{id}", r.patientHandler.AdvanceStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/payments", r.paymentHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/payments/{patientId}/bill", r.paymentHandler.Bill).Methods(http.MethodGet)
	admin.HandleFunc("/transactions", r.paymentHandler.Transactions).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/admin", r.dashboardHandler.Admin).Methods(http.MethodGet)

	// Calling a patient (admin or doctor)
	caller := protected.NewRoute().Subrouter()
	caller.Use(middleware.RequireAdminOrDoctor)
	caller.HandleFunc("/queue/{id}/call", r.patientHandler.Call).Methods(http.MethodPost)

	// Examination room (doctor)
	doctor := protected.NewRoute().Subrouter()
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/examinations", r.examinationHandler.Create).Methods(http.MethodPost)
	doctor.HandleFunc("/examinations", r.examinationHandler.List).Methods(http.MethodGet)
	doctor.HandleFunc("/prescriptions", r.prescriptionHandler.Create).Methods(http.MethodPost)
	doctor.HandleFunc("/dashboard/doctor", r.dashboardHandler.Doctor).Methods(http.MethodGet)

	// Pharmacy counter (pharmacy)
	pharmacy := protected.NewRoute().Subrouter()
	pharmacy.Use(middleware.RequirePharmacy)
	pharmacy.HandleFunc("/prescriptions", r.prescriptionHandler.List).Methods(http.MethodGet)
	pharmacy.HandleFunc("/prescriptions/{id}/dispense", r.prescriptionHandler.Dispense).Methods(http.MethodPost)
	pharmacy.HandleFunc("/medicines", r.medicineHandler.Create).Methods(http.MethodPost)
	pharmacy.HandleFunc("/medicines/{id}", r.medicineHandler.Update).Methods(http.MethodPut)
	pharmacy.HandleFunc("/medicines/{id}", r.medicineHandler.Delete).Methods(http.MethodDelete)
	pharmacy.HandleFunc("/dashboard/pharmacy", r.dashboardHandler.Pharmacy).Methods(http.MethodGet)

	// Add CORS and metrics middleware
	r.router.Use(r.corsMiddleware.Handle)
	if r.metricsMiddleware != nil {
		r.router.Use(r.metricsMiddleware.Handle)
	}

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
