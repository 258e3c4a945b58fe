package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"klinik-sentosa/internal/converter"
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

const (
	revenueDays       = 7
	dashboardListSize = 5
)

// DashboardUsecase derives the per-role views from the mirror. It never
// writes.
type DashboardUsecase interface {
	AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	DoctorDashboard(ctx context.Context) (*dto.DoctorDashboardResponse, error)
	PharmacyDashboard(ctx context.Context) (*dto.PharmacyDashboardResponse, error)
	ActiveQueue(ctx context.Context, search string) (*dto.QueueListResponse, error)
	Examinations(ctx context.Context, patientID, search string) (*dto.ExaminationListResponse, error)
	Prescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error)
	Transactions(ctx context.Context, patientID, search string) (*dto.TransactionReportResponse, error)
	Bill(ctx context.Context, patientID string) (*dto.BillResponse, error)
	MirrorStatus(ctx context.Context) (*dto.MirrorStatusResponse, error)
	Notifications(ctx context.Context) ([]dto.NotificationResponse, error)
	DismissNotification(ctx context.Context, id string) error
}

type dashboardUsecase struct {
	log               *logrus.Logger
	mirror            *service.MirrorSyncService
	billing           *service.BillingService
	notifier          *service.NotificationService
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardUsecase(
	log *logrus.Logger,
	mirror *service.MirrorSyncService,
	billing *service.BillingService,
	notifier *service.NotificationService,
	lowStockThreshold int,
) DashboardUsecase {
	return &dashboardUsecase{
		log:               log,
		mirror:            mirror,
		billing:           billing,
		notifier:          notifier,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// AdminDashboard: patients registered today, patients waiting to pay, total
// revenue with profit and the takings of the last seven days
func (u *dashboardUsecase) AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	snap := u.mirror.Snapshot()
	now := u.now()

	patientsToday := 0
	for _, p := range snap.Patients {
		if sameDay(p.RegisteredAt, now) {
			patientsToday++
		}
	}

	revenue := u.billing.Revenue(snap.Transactions)

	recent := make([]entity.Transaction, len(snap.Transactions))
	copy(recent, snap.Transactions)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })

	return &dto.AdminDashboardResponse{
		PatientsToday:      patientsToday,
		PendingPayments:    converter.QueueEntriesToResponses(queueWithStatus(snap.Queue, entity.QueueStatusPayment)),
		Revenue:            revenue,
		Profit:             u.billing.Profit(revenue),
		Last7Days:          converter.DailyRevenueToResponses(u.billing.RevenueByDay(snap.Transactions, now, revenueDays)),
		RecentTransactions: converter.TransactionsToResponses(firstN(recent, dashboardListSize)),
	}, nil
}

// DoctorDashboard: the patient being examined and who is waiting next
func (u *dashboardUsecase) DoctorDashboard(ctx context.Context) (*dto.DoctorDashboardResponse, error) {
	snap := u.mirror.Snapshot()
	now := u.now()

	waiting := queueWithStatus(snap.Queue, entity.QueueStatusWaiting)

	examinationsToday := 0
	for _, e := range snap.Examinations {
		if sameDay(e.Date, now) {
			examinationsToday++
		}
	}

	patientsToday := 0
	for _, p := range snap.Patients {
		if sameDay(p.RegisteredAt, now) {
			patientsToday++
		}
	}

	resp := &dto.DoctorDashboardResponse{
		WaitingCount:      len(waiting),
		ExaminationsToday: examinationsToday,
		PatientsToday:     patientsToday,
		NextWaiting:       converter.QueueEntriesToResponses(firstN(waiting, dashboardListSize)),
	}

	// the patient being examined, else the first one waiting
	var current *entity.QueueEntry
	if examining := queueWithStatus(snap.Queue, entity.QueueStatusExamining); len(examining) > 0 {
		current = &examining[0]
	} else if len(waiting) > 0 {
		current = &waiting[0]
	}
	if current != nil {
		resp.CurrentPatient = &dto.CurrentPatientResponse{QueueEntry: *converter.QueueEntryToResponse(current)}
		if patient, ok := u.mirror.Patient(current.PatientID); ok {
			resp.CurrentPatient.Patient = converter.PatientToResponse(patient)
		}
	}

	return resp, nil
}

// PharmacyDashboard: prescriptions ready to prepare, recently completed ones
// and medicines running low
func (u *dashboardUsecase) PharmacyDashboard(ctx context.Context) (*dto.PharmacyDashboardResponse, error) {
	snap := u.mirror.Snapshot()

	atPharmacy := make(map[string]bool)
	for _, q := range snap.Queue {
		if q.Status == entity.QueueStatusPharmacy {
			atPharmacy[q.PatientID] = true
		}
	}

	var pending, completed []entity.Prescription
	for _, rx := range snap.Prescriptions {
		switch {
		case rx.IsPending() && atPharmacy[rx.PatientID]:
			pending = append(pending, rx)
		case rx.IsCompleted():
			completed = append(completed, rx)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool { return completed[i].CreatedAt.After(completed[j].CreatedAt) })

	var lowStock []entity.Medicine
	for i := range snap.Medicines {
		if snap.Medicines[i].IsLowStock(u.lowStockThreshold) {
			lowStock = append(lowStock, snap.Medicines[i])
		}
	}

	return &dto.PharmacyDashboardResponse{
		TotalPrescriptions: len(snap.Prescriptions),
		PendingCount:       len(pending),
		LowStockCount:      len(lowStock),
		Pending:            converter.PrescriptionsToResponses(pending),
		RecentCompleted:    converter.PrescriptionsToResponses(firstN(completed, dashboardListSize)),
		LowStock:           converter.MedicinesToResponses(lowStock, u.lowStockThreshold),
	}, nil
}

// ActiveQueue lists every entry that is not completed, in arrival order,
// optionally filtered by patient name
func (u *dashboardUsecase) ActiveQueue(ctx context.Context, search string) (*dto.QueueListResponse, error) {
	snap := u.mirror.Snapshot()
	search = normalizeSearch(search)

	byStatus := make(map[string]int)
	active := make([]entity.QueueEntry, 0, len(snap.Queue))
	for i := range snap.Queue {
		q := snap.Queue[i]
		if !q.IsActive() || !matches(search, q.PatientName) {
			continue
		}
		active = append(active, q)
		byStatus[string(q.Status)]++
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].JoinedAt.Before(active[j].JoinedAt) })

	return &dto.QueueListResponse{
		Entries:  converter.QueueEntriesToResponses(active),
		Total:    len(active),
		ByStatus: byStatus,
	}, nil
}

// Examinations is the medical history, newest first
func (u *dashboardUsecase) Examinations(ctx context.Context, patientID, search string) (*dto.ExaminationListResponse, error) {
	snap := u.mirror.Snapshot()
	search = normalizeSearch(search)

	exams := make([]entity.Examination, 0, len(snap.Examinations))
	for _, e := range snap.Examinations {
		if patientID != "" && e.PatientID != patientID {
			continue
		}
		if !matches(search, e.PatientName, e.Diagnosis) {
			continue
		}
		exams = append(exams, e)
	}
	sort.SliceStable(exams, func(i, j int) bool { return exams[i].Date.After(exams[j].Date) })

	return &dto.ExaminationListResponse{
		Examinations: converter.ExaminationsToResponses(exams),
		Total:        len(exams),
	}, nil
}

func (u *dashboardUsecase) Prescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	snap := u.mirror.Snapshot()

	var pending, completed []entity.Prescription
	for _, rx := range snap.Prescriptions {
		if rx.IsCompleted() {
			completed = append(completed, rx)
			continue
		}
		pending = append(pending, rx)
	}

	return &dto.PrescriptionListResponse{
		Pending:   converter.PrescriptionsToResponses(pending),
		Completed: converter.PrescriptionsToResponses(completed),
	}, nil
}

// Transactions is the payment report, newest first
func (u *dashboardUsecase) Transactions(ctx context.Context, patientID, search string) (*dto.TransactionReportResponse, error) {
	snap := u.mirror.Snapshot()
	search = normalizeSearch(search)

	txs := make([]entity.Transaction, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		if patientID != "" && t.PatientID != patientID {
			continue
		}
		if !matches(search, t.PatientName, string(t.Method)) {
			continue
		}
		txs = append(txs, t)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

	revenue := u.billing.Revenue(txs)
	average := decimal.Zero
	if len(txs) > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(len(txs)))).Round(2)
	}

	return &dto.TransactionReportResponse{
		Transactions: converter.TransactionsToResponses(txs),
		Total:        len(txs),
		Revenue:      revenue,
		Average:      average,
	}, nil
}

// Bill prices the visit of a patient against the latest pending prescription
func (u *dashboardUsecase) Bill(ctx context.Context, patientID string) (*dto.BillResponse, error) {
	patient, ok := u.mirror.Patient(patientID)
	if !ok {
		return nil, ErrPatientNotFound
	}

	prescription, _ := u.mirror.PendingPrescription(patientID)
	bill := u.billing.Compute(patient.ID, patient.Name, prescription)

	prescriptionID := ""
	if prescription != nil {
		prescriptionID = prescription.ID
	}
	return converter.BillToResponse(&bill, prescriptionID), nil
}

func (u *dashboardUsecase) MirrorStatus(ctx context.Context) (*dto.MirrorStatusResponse, error) {
	return mirrorStatusResponse(u.mirror.Mode(), u.mirror.Snapshot()), nil
}

func (u *dashboardUsecase) Notifications(ctx context.Context) ([]dto.NotificationResponse, error) {
	return converter.NotificationsToResponses(u.notifier.List()), nil
}

func (u *dashboardUsecase) DismissNotification(ctx context.Context, id string) error {
	if !u.notifier.Dismiss(id) {
		return ErrNotificationNotFound
	}
	return nil
}

// =============================================================================
// Private Helper Functions
// =============================================================================

func mirrorStatusResponse(mode string, snap service.Snapshot) *dto.MirrorStatusResponse {
	return &dto.MirrorStatusResponse{
		Mode:        mode,
		RefreshedAt: snap.RefreshedAt,
		Counts: map[string]int{
			string(entity.CollectionPatients):      len(snap.Patients),
			string(entity.CollectionQueue):         len(snap.Queue),
			string(entity.CollectionExaminations):  len(snap.Examinations),
			string(entity.CollectionPrescriptions): len(snap.Prescriptions),
			string(entity.CollectionTransactions):  len(snap.Transactions),
			string(entity.CollectionMedicines):     len(snap.Medicines),
		},
	}
}

func queueWithStatus(queue []entity.QueueEntry, status entity.QueueStatus) []entity.QueueEntry {
	out := make([]entity.QueueEntry, 0)
	for _, q := range queue {
		if q.Status == status {
			out = append(out, q)
		}
	}
	return out
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// sameDay compares calendar dates in the location of ref
func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func normalizeSearch(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// matches reports whether any field contains search. An empty search
// matches everything.
func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
