package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type DailyRevenueResponse struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

type AdminDashboardResponse struct {
	PatientsToday      int                    `json:"patients_today"`
	PendingPayments    []QueueEntryResponse   `json:"pending_payments"`
	Revenue            decimal.Decimal        `json:"revenue"`
	Profit             decimal.Decimal        `json:"profit"`
	Last7Days          []DailyRevenueResponse `json:"last_7_days"`
	RecentTransactions []TransactionResponse  `json:"recent_transactions"`
}

type CurrentPatientResponse struct {
	QueueEntry QueueEntryResponse `json:"queue_entry"`
	Patient    *PatientResponse   `json:"patient,omitempty"`
}

type DoctorDashboardResponse struct {
	WaitingCount      int                     `json:"waiting_count"`
	ExaminationsToday int                     `json:"examinations_today"`
	PatientsToday     int                     `json:"patients_today"`
	CurrentPatient    *CurrentPatientResponse `json:"current_patient,omitempty"`
	NextWaiting       []QueueEntryResponse    `json:"next_waiting"`
}

type PharmacyDashboardResponse struct {
	TotalPrescriptions int                    `json:"total_prescriptions"`
	PendingCount       int                    `json:"pending_count"`
	LowStockCount      int                    `json:"low_stock_count"`
	Pending            []PrescriptionResponse `json:"pending"`
	RecentCompleted    []PrescriptionResponse `json:"recent_completed"`
	LowStock           []MedicineResponse     `json:"low_stock"`
}

type MirrorStatusResponse struct {
	Mode        string         `json:"mode"`
	RefreshedAt time.Time      `json:"refreshed_at"`
	Counts      map[string]int `json:"counts"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
