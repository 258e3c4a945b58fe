package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"klinik-sentosa/config"
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/internal/infrastructure/metrics"
	"klinik-sentosa/internal/infrastructure/store"
	"klinik-sentosa/internal/repository"
	"klinik-sentosa/internal/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clinicNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// faultyStore fails writes to one collection while armed
type faultyStore struct {
	domainRepo.RecordStore
	insertFails entity.Collection
	patchFails  entity.Collection
	deleteFails entity.Collection
}

var errBackendDown = errors.New("backend unavailable")

func (s *faultyStore) Insert(ctx context.Context, c entity.Collection, rec entity.Record) error {
	if c == s.insertFails {
		return errBackendDown
	}
	return s.RecordStore.Insert(ctx, c, rec)
}

func (s *faultyStore) Patch(ctx context.Context, c entity.Collection, id string, fields map[string]interface{}) error {
	if c == s.patchFails {
		return errBackendDown
	}
	return s.RecordStore.Patch(ctx, c, id, fields)
}

func (s *faultyStore) Delete(ctx context.Context, c entity.Collection, id string) error {
	if c == s.deleteFails {
		return errBackendDown
	}
	return s.RecordStore.Delete(ctx, c, id)
}

type clinicFixture struct {
	backend  *store.MemoryStore
	store    *faultyStore
	mirror   *service.MirrorSyncService
	notifier *service.NotificationService
	metrics  *metrics.Metrics
	flow     *clinicFlowUsecase
	dash     *dashboardUsecase
}

func newClinicFixture(t *testing.T, deductOn string) *clinicFixture {
	t.Helper()
	return newClinicFixtureWithMode(t, deductOn, config.MirrorModeIncremental)
}

func newClinicFixtureWithMode(t *testing.T, deductOn, mirrorMode string) *clinicFixture {
	t.Helper()
	ctx := context.Background()
	log := quietLogger()

	backend := store.NewMemoryStore()
	require.NoError(t, backend.Insert(ctx, entity.CollectionMedicines, &entity.Medicine{
		Identity: entity.Identity{ID: "m1"}, Name: "Paracetamol", Unit: "tablet", Price: decimal.NewFromInt(5000), Stock: 50,
	}))
	require.NoError(t, backend.Insert(ctx, entity.CollectionMedicines, &entity.Medicine{
		Identity: entity.Identity{ID: "m2"}, Name: "Amoxicillin", Unit: "kapsul", Price: decimal.NewFromInt(12000), Stock: 20,
	}))

	s := &faultyStore{RecordStore: backend}
	patients := repository.NewPatientRepository(s)
	queue := repository.NewQueueRepository(s)
	exams := repository.NewExaminationRepository(s)
	prescriptions := repository.NewPrescriptionRepository(s)
	transactions := repository.NewTransactionRepository(s)
	medicines := repository.NewMedicineRepository(s)

	mirror := service.NewMirrorSyncService(service.MirrorRepositories{
		Patients:      patients,
		Queue:         queue,
		Examinations:  exams,
		Prescriptions: prescriptions,
		Transactions:  transactions,
		Medicines:     medicines,
	}, mirrorMode, log)
	require.NoError(t, mirror.Refresh(ctx))

	billing := service.NewBillingService(config.BillingConfig{
		ExamFee:         decimal.NewFromInt(50000),
		MedicineLineFee: decimal.NewFromInt(15000),
		ProfitMargin:    decimal.RequireFromString("0.4"),
	})
	notifier := service.NewNotificationService(time.Minute, log)
	m := metrics.New("klinik_test")

	flow := NewClinicFlowUsecase(log, patients, queue, exams, prescriptions, transactions, medicines,
		mirror, billing, notifier, m, config.InventoryConfig{LowStockThreshold: 10, DeductOn: deductOn}).(*clinicFlowUsecase)
	flow.now = func() time.Time { return clinicNow }

	dash := NewDashboardUsecase(log, mirror, billing, notifier, 10).(*dashboardUsecase)
	dash.now = func() time.Time { return clinicNow }

	return &clinicFixture{
		backend:  backend,
		store:    s,
		mirror:   mirror,
		notifier: notifier,
		metrics:  m,
		flow:     flow,
		dash:     dash,
	}
}

func (f *clinicFixture) register(t *testing.T, name string) *dto.RegistrationResponse {
	t.Helper()
	resp, err := f.flow.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Name: name, Age: 30, Contact: "08123", Complaint: "Demam",
	})
	require.NoError(t, err)
	return resp
}

func (f *clinicFixture) stock(t *testing.T, medicineID string) int {
	t.Helper()
	var meds []entity.Medicine
	require.NoError(t, f.backend.FindBy(context.Background(), entity.CollectionMedicines, map[string]string{"id": medicineID}, &meds))
	require.Len(t, meds, 1)
	return meds[0].Stock
}

func (f *clinicFixture) count(t *testing.T, c entity.Collection) int {
	t.Helper()
	out, err := entity.NewRecordList(c)
	require.NoError(t, err)
	require.NoError(t, f.backend.List(context.Background(), c, out))
	switch list := out.(type) {
	case *[]entity.Patient:
		return len(*list)
	case *[]entity.QueueEntry:
		return len(*list)
	case *[]entity.Examination:
		return len(*list)
	case *[]entity.Prescription:
		return len(*list)
	case *[]entity.Transaction:
		return len(*list)
	}
	t.Fatalf("unexpected collection %s", c)
	return 0
}

func TestClinicFlow_VisitWithPrescription(t *testing.T) {
	for _, mode := range []string{config.MirrorModeIncremental, config.MirrorModeFull} {
		t.Run(mode, func(t *testing.T) {
			ctx := context.Background()
			f := newClinicFixtureWithMode(t, config.DeductOnPrescribe, mode)

			reg := f.register(t, "Budi")
			assert.Equal(t, string(entity.QueueStatusWaiting), reg.QueueEntry.Status)
			assert.Equal(t, reg.Patient.ID, reg.QueueEntry.PatientID)
			assert.True(t, clinicNow.Equal(reg.Patient.RegisteredAt))

			called, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
			require.NoError(t, err)
			assert.Equal(t, string(entity.QueueStatusExamining), called.Status)

			exam, err := f.flow.FileExamination(ctx, &dto.FileExaminationRequest{
				PatientID: reg.Patient.ID,
				Diagnosis: "Flu",
				Medicines: []dto.PrescriptionLineRequest{{MedicineID: "m1", Dosage: "3x1", Quantity: 10}},
			})
			require.NoError(t, err)
			assert.True(t, exam.Examination.HasPrescription)
			assert.Equal(t, "Budi", exam.Examination.PatientName)
			require.NotNil(t, exam.Prescription)
			assert.Equal(t, "Paracetamol", exam.Prescription.Medicines[0].Name)
			assert.Equal(t, string(entity.QueueStatusPayment), exam.QueueStatus)
			assert.Equal(t, 40, f.stock(t, "m1"))

			med, ok := f.mirror.Medicine("m1")
			require.True(t, ok)
			assert.Equal(t, 40, med.Stock)

			bill, err := f.dash.Bill(ctx, reg.Patient.ID)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(65000).Equal(bill.Total))
			assert.Equal(t, exam.Prescription.ID, bill.PrescriptionID)

			paid, err := f.flow.RecordPayment(ctx, &dto.RecordPaymentRequest{PatientID: reg.Patient.ID, Method: "Tunai"})
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(65000).Equal(paid.Transaction.Amount))
			assert.Equal(t, "Budi", paid.Transaction.PatientName)
			require.Len(t, paid.Transaction.Items, 2)
			assert.Equal(t, service.BillItemExamination, paid.Transaction.Items[0].Name)
			assert.Equal(t, string(entity.QueueStatusPharmacy), paid.QueueStatus)

			pharmacy, err := f.dash.PharmacyDashboard(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, pharmacy.PendingCount)

			dispensed, err := f.flow.Dispense(ctx, exam.Prescription.ID)
			require.NoError(t, err)
			assert.Equal(t, string(entity.PrescriptionStatusCompleted), dispensed.Prescription.Status)
			assert.Equal(t, string(entity.QueueStatusCompleted), dispensed.QueueStatus)
			assert.Equal(t, 40, f.stock(t, "m1"), "stock is deducted once")

			queue, err := f.dash.ActiveQueue(ctx, "")
			require.NoError(t, err)
			assert.Zero(t, queue.Total)

			_, err = f.flow.Dispense(ctx, exam.Prescription.ID)
			assert.ErrorIs(t, err, ErrPrescriptionCompleted)
		})
	}
}

func TestClinicFlow_VisitWithoutPrescription(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Sari")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)

	exam, err := f.flow.FileExamination(ctx, &dto.FileExaminationRequest{PatientID: reg.Patient.ID, Diagnosis: "Sehat"})
	require.NoError(t, err)
	assert.False(t, exam.Examination.HasPrescription)
	assert.Nil(t, exam.Prescription)

	paid, err := f.flow.RecordPayment(ctx, &dto.RecordPaymentRequest{PatientID: reg.Patient.ID, Method: "QRIS"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(paid.Transaction.Amount))
	assert.Equal(t, string(entity.QueueStatusCompleted), paid.QueueStatus)

	admin, err := f.dash.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, admin.PatientsToday)
	assert.Empty(t, admin.PendingPayments)
	assert.True(t, decimal.NewFromInt(50000).Equal(admin.Revenue))
	assert.True(t, decimal.NewFromInt(20000).Equal(admin.Profit))
	require.Len(t, admin.Last7Days, 7)
	assert.Equal(t, "2024-03-01", admin.Last7Days[6].Date)
}

func TestClinicFlow_RegisterCompensatesWhenQueueInsertFails(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)
	f.store.insertFails = entity.CollectionQueue

	_, err := f.flow.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{Name: "Budi", Complaint: "Demam"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackendDown)

	assert.Zero(t, f.count(t, entity.CollectionPatients), "no orphan patient")
	assert.Empty(t, f.mirror.Snapshot().Patients)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ClinicActions.WithLabelValues(actionRegister, metrics.OutcomeFailure)))

	toasts := f.notifier.List()
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Gagal mendaftarkan pasien.", toasts[len(toasts)-1].Message)
}

func TestClinicFlow_InsufficientStockWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Budi")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)

	_, err = f.flow.FileExamination(ctx, &dto.FileExaminationRequest{
		PatientID: reg.Patient.ID,
		Diagnosis: "Flu",
		Medicines: []dto.PrescriptionLineRequest{
			{MedicineID: "m1", Dosage: "3x1", Quantity: 10},
			{MedicineID: "m2", Dosage: "2x1", Quantity: 21},
		},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Amoxicillin", stockErr.Name)
	assert.Equal(t, 20, stockErr.Available)

	assert.Zero(t, f.count(t, entity.CollectionExaminations))
	assert.Zero(t, f.count(t, entity.CollectionPrescriptions))
	assert.Equal(t, 50, f.stock(t, "m1"))
	assert.Equal(t, 20, f.stock(t, "m2"))

	entry, ok := f.mirror.QueueEntry(reg.QueueEntry.ID)
	require.True(t, ok)
	assert.Equal(t, entity.QueueStatusExamining, entry.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ClinicActions.WithLabelValues(actionFileExamination, metrics.OutcomeRejected)))
}

func TestClinicFlow_StockCheckSumsRepeatedLines(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)

	_, err := f.flow.AddPrescription(context.Background(), &dto.AddPrescriptionRequest{
		PatientID: "p1",
		Medicines: []dto.PrescriptionLineRequest{
			{MedicineID: "m2", Dosage: "2x1", Quantity: 15},
			{MedicineID: "m2", Dosage: "1x1", Quantity: 10},
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 20, f.stock(t, "m2"))
}

func TestClinicFlow_UnknownMedicine(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)

	_, err := f.flow.AddPrescription(context.Background(), &dto.AddPrescriptionRequest{
		PatientID: "p1",
		Medicines: []dto.PrescriptionLineRequest{{MedicineID: "m9", Dosage: "1x1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrMedicineNotFound)
	assert.Zero(t, f.count(t, entity.CollectionPrescriptions))
}

func TestClinicFlow_FailedQueueWriteUndoesExamination(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Budi")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)

	f.store.patchFails = entity.CollectionQueue
	_, err = f.flow.FileExamination(ctx, &dto.FileExaminationRequest{
		PatientID: reg.Patient.ID,
		Diagnosis: "Flu",
		Medicines: []dto.PrescriptionLineRequest{
			{MedicineID: "m1", Dosage: "3x1", Quantity: 10},
			{MedicineID: "m2", Dosage: "2x1", Quantity: 5},
		},
	})
	require.ErrorIs(t, err, errBackendDown)

	assert.Zero(t, f.count(t, entity.CollectionExaminations))
	assert.Zero(t, f.count(t, entity.CollectionPrescriptions))
	assert.Equal(t, 50, f.stock(t, "m1"))
	assert.Equal(t, 20, f.stock(t, "m2"))

	med, ok := f.mirror.Medicine("m1")
	require.True(t, ok)
	assert.Equal(t, 50, med.Stock)
}

func TestClinicFlow_PaymentCompensatesWhenQueueWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Sari")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)
	_, err = f.flow.FileExamination(ctx, &dto.FileExaminationRequest{PatientID: reg.Patient.ID, Diagnosis: "Sehat"})
	require.NoError(t, err)

	f.store.patchFails = entity.CollectionQueue
	_, err = f.flow.RecordPayment(ctx, &dto.RecordPaymentRequest{PatientID: reg.Patient.ID, Method: "Debit"})
	require.Error(t, err)

	assert.Zero(t, f.count(t, entity.CollectionTransactions))
	assert.Empty(t, f.mirror.Snapshot().Transactions)
}

func TestClinicFlow_IncompleteRollbackRefreshesMirror(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Sari")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)
	_, err = f.flow.FileExamination(ctx, &dto.FileExaminationRequest{PatientID: reg.Patient.ID, Diagnosis: "Sehat"})
	require.NoError(t, err)

	f.store.patchFails = entity.CollectionQueue
	f.store.deleteFails = entity.CollectionTransactions
	_, err = f.flow.RecordPayment(ctx, &dto.RecordPaymentRequest{PatientID: reg.Patient.ID, Method: "Debit"})
	require.ErrorIs(t, err, errBackendDown)

	// the orphan transaction is visible after the refresh
	assert.Equal(t, 1, f.count(t, entity.CollectionTransactions))
	assert.Len(t, f.mirror.Snapshot().Transactions, 1)
}

func TestClinicFlow_AdvanceStatus(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)
	reg := f.register(t, "Budi")

	_, err := f.flow.AdvanceStatus(ctx, reg.QueueEntry.ID, entity.QueueStatusPayment)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition, "skipping examining")

	_, err = f.flow.AdvanceStatus(ctx, reg.QueueEntry.ID, entity.QueueStatus("lost"))
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	resp, err := f.flow.AdvanceStatus(ctx, reg.QueueEntry.ID, entity.QueueStatusExamining)
	require.NoError(t, err)
	assert.Equal(t, string(entity.QueueStatusExamining), resp.Status)

	_, err = f.flow.AdvanceStatus(ctx, reg.QueueEntry.ID, entity.QueueStatusWaiting)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition, "moving backwards")

	_, err = f.flow.AdvanceStatus(ctx, "missing", entity.QueueStatusExamining)
	assert.ErrorIs(t, err, ErrQueueEntryNotFound)
}

func TestClinicFlow_TransitionRejectsWrongEvent(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)
	reg := f.register(t, "Budi")

	_, err := f.flow.Transition(ctx, reg.QueueEntry.ID, entity.QueueEventPaid)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	var queue []entity.QueueEntry
	require.NoError(t, f.backend.List(ctx, entity.CollectionQueue, &queue))
	require.Len(t, queue, 1)
	assert.Equal(t, entity.QueueStatusWaiting, queue[0].Status)
}

func TestClinicFlow_TransitionAcceptsOnlyCall(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Budi")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)
	exam, err := f.flow.FileExamination(ctx, &dto.FileExaminationRequest{
		PatientID: reg.Patient.ID,
		Diagnosis: "Flu",
		Medicines: []dto.PrescriptionLineRequest{{MedicineID: "m1", Dosage: "3x1", Quantity: 10}},
	})
	require.NoError(t, err)
	_, err = f.flow.RecordPayment(ctx, &dto.RecordPaymentRequest{PatientID: reg.Patient.ID, Method: "Tunai"})
	require.NoError(t, err)

	// the entry sits at pharmacy where dispensed is a table edge, but only
	// Dispense may fire it
	_, err = f.flow.Transition(ctx, reg.QueueEntry.ID, entity.QueueEventDispensed)
	var transitionErr *entity.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, entity.QueueStatusPharmacy, transitionErr.From)
	assert.Equal(t, entity.QueueEventDispensed, transitionErr.Event)

	_, err = f.flow.AdvanceStatus(ctx, reg.QueueEntry.ID, entity.QueueStatusCompleted)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	entry, ok := f.mirror.QueueEntry(reg.QueueEntry.ID)
	require.True(t, ok)
	assert.Equal(t, entity.QueueStatusPharmacy, entry.Status)
	rx, ok := f.mirror.Prescription(exam.Prescription.ID)
	require.True(t, ok)
	assert.True(t, rx.IsPending())

	_, err = f.flow.Dispense(ctx, exam.Prescription.ID)
	require.NoError(t, err)
	entry, ok = f.mirror.QueueEntry(reg.QueueEntry.ID)
	require.True(t, ok)
	assert.Equal(t, entity.QueueStatusCompleted, entry.Status)
}

func TestClinicFlow_AdvanceStatusCannotSkipPharmacy(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnPrescribe)

	reg := f.register(t, "Budi")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)
	_, err = f.flow.FileExamination(ctx, &dto.FileExaminationRequest{
		PatientID: reg.Patient.ID,
		Diagnosis: "Flu",
		Medicines: []dto.PrescriptionLineRequest{{MedicineID: "m1", Dosage: "3x1", Quantity: 10}},
	})
	require.NoError(t, err)

	for _, status := range []entity.QueueStatus{entity.QueueStatusCompleted, entity.QueueStatusPharmacy} {
		_, err = f.flow.AdvanceStatus(ctx, reg.QueueEntry.ID, status)
		assert.ErrorIs(t, err, entity.ErrInvalidTransition, "payment -> %s", status)
	}
	for _, event := range []entity.QueueEvent{entity.QueueEventPaid, entity.QueueEventPaidWithPrescription} {
		_, err = f.flow.Transition(ctx, reg.QueueEntry.ID, event)
		assert.ErrorIs(t, err, entity.ErrInvalidTransition, "event %s", event)
	}

	var queue []entity.QueueEntry
	require.NoError(t, f.backend.List(ctx, entity.CollectionQueue, &queue))
	require.Len(t, queue, 1)
	assert.Equal(t, entity.QueueStatusPayment, queue[0].Status)
	assert.Zero(t, f.count(t, entity.CollectionTransactions))
}

func TestClinicFlow_ExaminationWithoutQueueEntryIsNoop(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)

	resp, err := f.flow.FileExamination(context.Background(), &dto.FileExaminationRequest{
		PatientID: "walk-in", PatientName: "Tamu", Diagnosis: "Kontrol",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.QueueStatus)
	assert.Equal(t, 1, f.count(t, entity.CollectionExaminations))
}

func TestClinicFlow_DeductOnDispense(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnDispense)

	reg := f.register(t, "Budi")
	_, err := f.flow.CallPatient(ctx, reg.QueueEntry.ID)
	require.NoError(t, err)

	exam, err := f.flow.FileExamination(ctx, &dto.FileExaminationRequest{
		PatientID: reg.Patient.ID,
		Diagnosis: "Infeksi",
		Medicines: []dto.PrescriptionLineRequest{{MedicineID: "m2", Dosage: "3x1", Quantity: 15}},
	})
	require.NoError(t, err)
	assert.Equal(t, 20, f.stock(t, "m2"), "nothing deducted when prescribing")

	_, err = f.flow.RecordPayment(ctx, &dto.RecordPaymentRequest{PatientID: reg.Patient.ID, Method: "Tunai"})
	require.NoError(t, err)

	_, err = f.flow.Dispense(ctx, exam.Prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, "m2"))
}

func TestClinicFlow_DispenseRejectsShortStock(t *testing.T) {
	ctx := context.Background()
	f := newClinicFixture(t, config.DeductOnDispense)

	rx, err := f.flow.AddPrescription(ctx, &dto.AddPrescriptionRequest{
		PatientID: "p1",
		Medicines: []dto.PrescriptionLineRequest{{MedicineID: "m2", Dosage: "3x1", Quantity: 15}},
	})
	require.NoError(t, err)

	require.NoError(t, f.backend.Patch(ctx, entity.CollectionMedicines, "m2", map[string]interface{}{entity.FieldStock: 3}))
	require.NoError(t, f.mirror.Refresh(ctx))

	_, err = f.flow.Dispense(ctx, rx.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, ok := f.mirror.Prescription(rx.ID)
	require.True(t, ok)
	assert.True(t, got.IsPending())
	assert.Equal(t, 3, f.stock(t, "m2"))
}

func TestClinicFlow_DispenseUnknownPrescription(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)

	_, err := f.flow.Dispense(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}

func TestClinicFlow_RecordPaymentOverrides(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)

	amount := decimal.NewFromInt(75000)
	resp, err := f.flow.RecordPayment(context.Background(), &dto.RecordPaymentRequest{
		PatientID:   "p1",
		PatientName: "Budi",
		Method:      "Debit",
		Amount:      &amount,
		Items:       []dto.LineItemRequest{{Name: "Tindakan", Amount: amount}},
	})
	require.NoError(t, err)
	assert.True(t, amount.Equal(resp.Transaction.Amount))
	require.Len(t, resp.Transaction.Items, 1)
	assert.Equal(t, "Tindakan", resp.Transaction.Items[0].Name)
	assert.Empty(t, resp.QueueStatus)

	_, err = f.flow.RecordPayment(context.Background(), &dto.RecordPaymentRequest{PatientID: "p1", Method: "Cek"})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestClinicFlow_Refresh(t *testing.T) {
	f := newClinicFixture(t, config.DeductOnPrescribe)
	require.NoError(t, f.backend.Insert(context.Background(), entity.CollectionPatients, &entity.Patient{Name: "Rina"}))

	status, err := f.flow.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.MirrorModeIncremental, status.Mode)
	assert.Equal(t, 1, status.Counts["patients"])
	assert.Equal(t, 2, status.Counts["medicines"])
}
