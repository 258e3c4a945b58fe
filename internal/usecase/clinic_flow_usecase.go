package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"klinik-sentosa/config"
	"klinik-sentosa/internal/converter"
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/internal/infrastructure/metrics"
	"klinik-sentosa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrQueueEntryNotFound    = errors.New("queue entry not found")
	ErrPrescriptionNotFound  = errors.New("prescription not found")
	ErrPrescriptionCompleted = errors.New("prescription is already completed")
	ErrMedicineNotFound      = errors.New("medicine not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidAmount         = errors.New("amount must not be negative")
)

// InsufficientStockError names the medicine that cannot cover a request
type InsufficientStockError struct {
	MedicineID string
	Name       string
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Action names, used for metrics and logs
const (
	actionRegister        = "register_patient"
	actionTransition      = "transition"
	actionAdvanceStatus   = "advance_status"
	actionFileExamination = "file_examination"
	actionAddPrescription = "add_prescription"
	actionDispense        = "dispense"
	actionRecordPayment   = "record_payment"
)

// ClinicFlowUsecase is the single writer of the clinic pipeline. Every action
// performs its writes against the data backend, then updates the mirror.
type ClinicFlowUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegistrationResponse, error)
	CallPatient(ctx context.Context, queueID string) (*dto.QueueEntryResponse, error)
	Transition(ctx context.Context, queueID string, event entity.QueueEvent) (*dto.QueueEntryResponse, error)
	AdvanceStatus(ctx context.Context, queueID string, status entity.QueueStatus) (*dto.QueueEntryResponse, error)
	FileExamination(ctx context.Context, req *dto.FileExaminationRequest) (*dto.FileExaminationResponse, error)
	AddPrescription(ctx context.Context, req *dto.AddPrescriptionRequest) (*dto.PrescriptionResponse, error)
	Dispense(ctx context.Context, prescriptionID string) (*dto.DispenseResponse, error)
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	Refresh(ctx context.Context) (*dto.MirrorStatusResponse, error)
}

type clinicFlowUsecase struct {
	log              *logrus.Logger
	patientRepo      repository.PatientRepository
	queueRepo        repository.QueueRepository
	examinationRepo  repository.ExaminationRepository
	prescriptionRepo repository.PrescriptionRepository
	transactionRepo  repository.TransactionRepository
	medicineRepo     repository.MedicineRepository
	mirror           *service.MirrorSyncService
	billing          *service.BillingService
	notifier         *service.NotificationService
	metrics          *metrics.Metrics
	inventory        config.InventoryConfig
	now              func() time.Time
}

func NewClinicFlowUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	queueRepo repository.QueueRepository,
	examinationRepo repository.ExaminationRepository,
	prescriptionRepo repository.PrescriptionRepository,
	transactionRepo repository.TransactionRepository,
	medicineRepo repository.MedicineRepository,
	mirror *service.MirrorSyncService,
	billing *service.BillingService,
	notifier *service.NotificationService,
	m *metrics.Metrics,
	inventory config.InventoryConfig,
) ClinicFlowUsecase {
	return &clinicFlowUsecase{
		log:              log,
		patientRepo:      patientRepo,
		queueRepo:        queueRepo,
		examinationRepo:  examinationRepo,
		prescriptionRepo: prescriptionRepo,
		transactionRepo:  transactionRepo,
		medicineRepo:     medicineRepo,
		mirror:           mirror,
		billing:          billing,
		notifier:         notifier,
		metrics:          m,
		inventory:        inventory,
		now:              time.Now,
	}
}

// RegisterPatient creates the patient and its waiting queue entry.
//
// Flow:
// 1. Insert patient
// 2. Insert queue entry {waiting} for the new patient id
// 3. If the queue insert fails -> compensate: delete the patient
func (u *clinicFlowUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegistrationResponse, error) {
	now := u.now()
	patient := &entity.Patient{
		Name:         req.Name,
		Age:          req.Age,
		Contact:      req.Contact,
		Complaint:    req.Complaint,
		RegisteredAt: now,
	}

	sg := newSaga(actionRegister, u.log)
	err := sg.Run(ctx, "create patient",
		func(ctx context.Context) error { return u.patientRepo.Create(ctx, patient) },
		func(ctx context.Context) error { return u.patientRepo.Delete(ctx, patient.ID) },
	)
	if err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, u.finish(ctx, sg, actionRegister, err, "", "Gagal mendaftarkan pasien.")
	}

	entry := &entity.QueueEntry{
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Status:      entity.QueueStatusWaiting,
		JoinedAt:    now,
	}
	err = sg.Run(ctx, "create queue entry",
		func(ctx context.Context) error { return u.queueRepo.Create(ctx, entry) },
		nil,
	)
	if err != nil {
		u.log.Warnf("Failed to create queue entry for patient %s: %+v", patient.ID, err)
		return nil, u.finish(ctx, sg, actionRegister, err, "", "Gagal mendaftarkan pasien.")
	}

	u.sync(ctx, service.UpsertPatient(*patient), service.UpsertQueueEntry(*entry))
	u.finish(ctx, sg, actionRegister, nil, "Pasien berhasil didaftarkan!", "")

	u.log.Infof("Patient registered: id=%s, queue=%s", patient.ID, entry.ID)
	return &dto.RegistrationResponse{
		Patient:    *converter.PatientToResponse(patient),
		QueueEntry: *converter.QueueEntryToResponse(entry),
	}, nil
}

// CallPatient moves a waiting entry to examining
func (u *clinicFlowUsecase) CallPatient(ctx context.Context, queueID string) (*dto.QueueEntryResponse, error) {
	return u.Transition(ctx, queueID, entity.QueueEventCall)
}

// Transition applies event to the queue entry through the transition table.
// Only manual events are accepted here.
func (u *clinicFlowUsecase) Transition(ctx context.Context, queueID string, event entity.QueueEvent) (*dto.QueueEntryResponse, error) {
	entry, ok := u.mirror.QueueEntry(queueID)
	if !ok {
		return nil, u.finish(ctx, nil, actionTransition, ErrQueueEntryNotFound, "", "")
	}
	if !entity.IsManualEvent(event) {
		err := &entity.InvalidTransitionError{From: entry.Status, Event: event}
		return nil, u.finish(ctx, nil, actionTransition, err, "", "")
	}

	if err := u.advance(ctx, nil, entry, event); err != nil {
		return nil, u.finish(ctx, nil, actionTransition, err, "", "")
	}

	u.sync(ctx, service.SetQueueStatus(entry.ID, entry.Status))
	u.finish(ctx, nil, actionTransition, nil, "", "")
	return converter.QueueEntryToResponse(entry), nil
}

// AdvanceStatus writes an explicit status, accepted only when it is the
// next step of the transition table from the current status and that step
// is a manual event
func (u *clinicFlowUsecase) AdvanceStatus(ctx context.Context, queueID string, status entity.QueueStatus) (*dto.QueueEntryResponse, error) {
	entry, ok := u.mirror.QueueEntry(queueID)
	if !ok {
		return nil, u.finish(ctx, nil, actionAdvanceStatus, ErrQueueEntryNotFound, "", "")
	}

	event, ok := entity.EventFor(entry.Status, status)
	if !ok || !entity.IsManualEvent(event) {
		err := &entity.InvalidTransitionError{From: entry.Status, To: status}
		return nil, u.finish(ctx, nil, actionAdvanceStatus, err, "", "")
	}

	if err := u.advance(ctx, nil, entry, event); err != nil {
		return nil, u.finish(ctx, nil, actionAdvanceStatus, err, "", "")
	}

	u.sync(ctx, service.SetQueueStatus(entry.ID, entry.Status))
	u.finish(ctx, nil, actionAdvanceStatus, nil, "", "")
	return converter.QueueEntryToResponse(entry), nil
}

// FileExamination records the doctor's findings and sends the patient on to
// payment.
//
// Flow:
// 1. Check stock for every prescribed line against the mirror
// 2. Insert examination
// 3. If medicines were prescribed -> insert prescription, deduct stock per line
// 4. Advance the patient's examining entry to payment (skipped if none)
// Any failure undoes the completed steps.
func (u *clinicFlowUsecase) FileExamination(ctx context.Context, req *dto.FileExaminationRequest) (*dto.FileExaminationResponse, error) {
	items := converter.PrescriptionLinesToItems(req.Medicines)
	hasPrescription := len(items) > 0

	if hasPrescription {
		if err := u.checkStock(items); err != nil {
			return nil, u.finish(ctx, nil, actionFileExamination, err, "", "")
		}
	}

	patientName := u.patientName(req.PatientID, req.PatientName)
	exam := &entity.Examination{
		PatientID:       req.PatientID,
		PatientName:     patientName,
		Diagnosis:       req.Diagnosis,
		Notes:           req.Notes,
		HasPrescription: hasPrescription,
		Date:            u.now(),
	}

	sg := newSaga(actionFileExamination, u.log)
	err := sg.Run(ctx, "create examination",
		func(ctx context.Context) error { return u.examinationRepo.Create(ctx, exam) },
		func(ctx context.Context) error { return u.examinationRepo.Delete(ctx, exam.ID) },
	)
	if err != nil {
		u.log.Warnf("Failed to create examination for patient %s: %+v", req.PatientID, err)
		return nil, u.finish(ctx, sg, actionFileExamination, err, "", "Gagal menyimpan pemeriksaan.")
	}
	changes := []service.Change{service.UpsertExamination(*exam)}

	var prescription *entity.Prescription
	if hasPrescription {
		var rxChanges []service.Change
		prescription, rxChanges, err = u.prescribe(ctx, sg, req.PatientID, patientName, items)
		if err != nil {
			return nil, u.finish(ctx, sg, actionFileExamination, err, "", "Gagal menyimpan pemeriksaan.")
		}
		changes = append(changes, rxChanges...)
	}

	resp := &dto.FileExaminationResponse{
		Examination:  *converter.ExaminationToResponse(exam),
		Prescription: converter.PrescriptionToResponse(prescription),
	}

	entry, found := u.mirror.FindQueueEntry(req.PatientID, entity.QueueStatusExamining)
	if found {
		if err := u.advance(ctx, sg, entry, entity.QueueEventExaminationFiled); err != nil {
			return nil, u.finish(ctx, sg, actionFileExamination, err, "", "Gagal menyimpan pemeriksaan.")
		}
		changes = append(changes, service.SetQueueStatus(entry.ID, entry.Status))
		resp.QueueStatus = string(entry.Status)
	} else {
		u.log.Infof("No examining queue entry for patient %s, transition skipped", req.PatientID)
	}

	u.sync(ctx, changes...)
	u.finish(ctx, sg, actionFileExamination, nil, "Pemeriksaan selesai!", "")
	return resp, nil
}

// AddPrescription creates a pending prescription outside of an examination
func (u *clinicFlowUsecase) AddPrescription(ctx context.Context, req *dto.AddPrescriptionRequest) (*dto.PrescriptionResponse, error) {
	items := converter.PrescriptionLinesToItems(req.Medicines)
	if err := u.checkStock(items); err != nil {
		return nil, u.finish(ctx, nil, actionAddPrescription, err, "", "")
	}

	sg := newSaga(actionAddPrescription, u.log)
	prescription, changes, err := u.prescribe(ctx, sg, req.PatientID, u.patientName(req.PatientID, req.PatientName), items)
	if err != nil {
		return nil, u.finish(ctx, sg, actionAddPrescription, err, "", "Gagal membuat resep.")
	}

	u.sync(ctx, changes...)
	u.finish(ctx, sg, actionAddPrescription, nil, "Resep berhasil dibuat", "")
	return converter.PrescriptionToResponse(prescription), nil
}

// Dispense completes a pending prescription and finishes the patient's visit.
//
// Flow:
// 1. If stock is deducted on dispense -> check every line, then deduct
// 2. Mark the prescription completed
// 3. Advance the patient's pharmacy entry to completed (skipped if none)
func (u *clinicFlowUsecase) Dispense(ctx context.Context, prescriptionID string) (*dto.DispenseResponse, error) {
	prescription, ok := u.mirror.Prescription(prescriptionID)
	if !ok {
		return nil, u.finish(ctx, nil, actionDispense, ErrPrescriptionNotFound, "", "")
	}
	if prescription.IsCompleted() {
		return nil, u.finish(ctx, nil, actionDispense, ErrPrescriptionCompleted, "", "")
	}

	sg := newSaga(actionDispense, u.log)
	var changes []service.Change

	if u.inventory.DeductOn == config.DeductOnDispense {
		if err := u.checkStock(prescription.Medicines); err != nil {
			return nil, u.finish(ctx, nil, actionDispense, err, "", "")
		}
		stockChanges, err := u.deductStock(ctx, sg, prescription.Medicines)
		if err != nil {
			return nil, u.finish(ctx, sg, actionDispense, err, "", "Gagal menyelesaikan resep")
		}
		changes = append(changes, stockChanges...)
	}

	err := sg.Run(ctx, "complete prescription",
		func(ctx context.Context) error {
			return u.prescriptionRepo.UpdateStatus(ctx, prescription.ID, entity.PrescriptionStatusCompleted)
		},
		func(ctx context.Context) error {
			return u.prescriptionRepo.UpdateStatus(ctx, prescription.ID, entity.PrescriptionStatusPending)
		},
	)
	if err != nil {
		u.log.Warnf("Failed to complete prescription %s: %+v", prescription.ID, err)
		return nil, u.finish(ctx, sg, actionDispense, err, "", "Gagal menyelesaikan resep")
	}
	prescription.Status = entity.PrescriptionStatusCompleted
	changes = append(changes, service.SetPrescriptionStatus(prescription.ID, prescription.Status))

	resp := &dto.DispenseResponse{}

	entry, found := u.mirror.FindQueueEntry(prescription.PatientID, entity.QueueStatusPharmacy)
	if found {
		if err := u.advance(ctx, sg, entry, entity.QueueEventDispensed); err != nil {
			return nil, u.finish(ctx, sg, actionDispense, err, "", "Gagal menyelesaikan resep")
		}
		changes = append(changes, service.SetQueueStatus(entry.ID, entry.Status))
		resp.QueueStatus = string(entry.Status)
	} else {
		u.log.Infof("No pharmacy queue entry for patient %s, transition skipped", prescription.PatientID)
	}

	u.sync(ctx, changes...)
	u.finish(ctx, sg, actionDispense, nil, "Resep selesai disiapkan!", "")

	resp.Prescription = *converter.PrescriptionToResponse(prescription)
	return resp, nil
}

// RecordPayment stores the transaction and routes the patient to the
// pharmacy when a pending prescription exists, otherwise completes the visit.
//
// Flow:
// 1. Compute the bill unless amount and items were given
// 2. Insert transaction
// 3. Advance the patient's payment entry (skipped if none)
// 4. If the queue write fails -> compensate: delete the transaction
func (u *clinicFlowUsecase) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	method := entity.PaymentMethod(req.Method)
	if !entity.IsValidPaymentMethod(method) {
		return nil, u.finish(ctx, nil, actionRecordPayment, ErrInvalidPaymentMethod, "", "")
	}

	patientName := u.patientName(req.PatientID, req.PatientName)
	pending, hasPending := u.mirror.PendingPrescription(req.PatientID)
	bill := u.billing.Compute(req.PatientID, patientName, pending)

	amount := bill.Total
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount.LessThan(decimal.Zero) {
		return nil, u.finish(ctx, nil, actionRecordPayment, ErrInvalidAmount, "", "")
	}
	items := bill.Items
	if len(req.Items) > 0 {
		items = converter.LineItemRequestsToEntities(req.Items)
	}

	transaction := &entity.Transaction{
		PatientID:   req.PatientID,
		PatientName: patientName,
		Amount:      amount,
		Method:      method,
		Items:       items,
		Date:        u.now(),
	}

	sg := newSaga(actionRecordPayment, u.log)
	err := sg.Run(ctx, "create transaction",
		func(ctx context.Context) error { return u.transactionRepo.Create(ctx, transaction) },
		func(ctx context.Context) error { return u.transactionRepo.Delete(ctx, transaction.ID) },
	)
	if err != nil {
		u.log.Warnf("Failed to create transaction for patient %s: %+v", req.PatientID, err)
		return nil, u.finish(ctx, sg, actionRecordPayment, err, "", "Gagal memproses pembayaran.")
	}
	changes := []service.Change{service.UpsertTransaction(*transaction)}

	resp := &dto.PaymentResponse{}

	entry, found := u.mirror.FindQueueEntry(req.PatientID, entity.QueueStatusPayment)
	if found {
		event := entity.QueueEventPaid
		if hasPending {
			event = entity.QueueEventPaidWithPrescription
		}
		if err := u.advance(ctx, sg, entry, event); err != nil {
			return nil, u.finish(ctx, sg, actionRecordPayment, err, "", "Gagal memproses pembayaran.")
		}
		changes = append(changes, service.SetQueueStatus(entry.ID, entry.Status))
		resp.QueueStatus = string(entry.Status)
	} else {
		u.log.Infof("No payment queue entry for patient %s, transition skipped", req.PatientID)
	}

	u.sync(ctx, changes...)
	u.finish(ctx, sg, actionRecordPayment, nil, "Pembayaran berhasil diproses!", "")

	resp.Transaction = *converter.TransactionToResponse(transaction)
	return resp, nil
}

// Refresh re-reads all six collections into the mirror
func (u *clinicFlowUsecase) Refresh(ctx context.Context) (*dto.MirrorStatusResponse, error) {
	if err := u.mirror.Refresh(ctx); err != nil {
		return nil, err
	}
	return mirrorStatusResponse(u.mirror.Mode(), u.mirror.Snapshot()), nil
}

// =============================================================================
// Private Helper Methods
// =============================================================================

// advance writes the next status of entry for event and updates entry in
// place. When sg is not nil the write runs as a saga step.
func (u *clinicFlowUsecase) advance(ctx context.Context, sg *saga, entry *entity.QueueEntry, event entity.QueueEvent) error {
	next, err := entity.NextQueueStatus(entry.Status, event)
	if err != nil {
		if sg != nil {
			return sg.Fail(ctx, err)
		}
		return err
	}

	write := func(ctx context.Context) error { return u.queueRepo.UpdateStatus(ctx, entry.ID, next) }
	if sg != nil {
		err = sg.Run(ctx, "advance queue entry", write, nil)
	} else {
		err = write(ctx)
	}
	if err != nil {
		u.log.Warnf("Failed to move queue entry %s from %s to %s: %+v", entry.ID, entry.Status, next, err)
		return err
	}

	u.log.Infof("Queue entry %s: %s --%s--> %s", entry.ID, entry.Status, event, next)
	entry.Status = next
	return nil
}

// prescribe inserts a pending prescription and, when stock is deducted at
// prescription time, deducts every line
func (u *clinicFlowUsecase) prescribe(ctx context.Context, sg *saga, patientID, patientName string, items entity.PrescriptionItems) (*entity.Prescription, []service.Change, error) {
	prescription := &entity.Prescription{
		PatientID:   patientID,
		PatientName: patientName,
		Medicines:   u.withMedicineNames(items),
		Status:      entity.PrescriptionStatusPending,
		CreatedAt:   u.now(),
	}

	err := sg.Run(ctx, "create prescription",
		func(ctx context.Context) error { return u.prescriptionRepo.Create(ctx, prescription) },
		func(ctx context.Context) error { return u.prescriptionRepo.Delete(ctx, prescription.ID) },
	)
	if err != nil {
		u.log.Warnf("Failed to create prescription for patient %s: %+v", patientID, err)
		return nil, nil, err
	}
	changes := []service.Change{service.UpsertPrescription(*prescription)}

	if u.inventory.DeductOn != config.DeductOnDispense {
		stockChanges, err := u.deductStock(ctx, sg, prescription.Medicines)
		if err != nil {
			return nil, nil, err
		}
		changes = append(changes, stockChanges...)
	}

	return prescription, changes, nil
}

// checkStock verifies every medicine exists and covers the summed quantity
// of its lines
func (u *clinicFlowUsecase) checkStock(items entity.PrescriptionItems) error {
	requested := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity.Int() <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidQuantity, item.MedicineID)
		}
		requested[item.MedicineID] += item.Quantity.Int()
	}

	for _, item := range items {
		med, ok := u.mirror.Medicine(item.MedicineID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMedicineNotFound, item.MedicineID)
		}
		if !med.HasStock(requested[item.MedicineID]) {
			return &InsufficientStockError{
				MedicineID: med.ID,
				Name:       med.Name,
				Requested:  requested[item.MedicineID],
				Available:  med.Stock,
			}
		}
	}
	return nil
}

// deductStock writes stock - quantity for each line in order. Every line is
// its own saga step that restores the previous stock on rollback.
func (u *clinicFlowUsecase) deductStock(ctx context.Context, sg *saga, items entity.PrescriptionItems) ([]service.Change, error) {
	stock := make(map[string]int, len(items))
	changes := make([]service.Change, 0, len(items))

	for _, item := range items {
		current, seen := stock[item.MedicineID]
		if !seen {
			med, ok := u.mirror.Medicine(item.MedicineID)
			if !ok {
				return nil, sg.Fail(ctx, fmt.Errorf("%w: %s", ErrMedicineNotFound, item.MedicineID))
			}
			current = med.Stock
		}

		medicineID := item.MedicineID
		previous := current
		next := current - item.Quantity.Int()
		if next < 0 {
			return nil, sg.Fail(ctx, &InsufficientStockError{
				MedicineID: medicineID,
				Name:       item.Name,
				Requested:  item.Quantity.Int(),
				Available:  current,
			})
		}

		err := sg.Run(ctx, "deduct stock "+medicineID,
			func(ctx context.Context) error { return u.medicineRepo.UpdateStock(ctx, medicineID, next) },
			func(ctx context.Context) error { return u.medicineRepo.UpdateStock(ctx, medicineID, previous) },
		)
		if err != nil {
			u.log.Warnf("Failed to deduct stock of medicine %s: %+v", medicineID, err)
			return nil, err
		}

		stock[medicineID] = next
		changes = append(changes, service.SetMedicineStock(medicineID, next))
	}

	return changes, nil
}

// withMedicineNames fills empty line names from the inventory
func (u *clinicFlowUsecase) withMedicineNames(items entity.PrescriptionItems) entity.PrescriptionItems {
	out := make(entity.PrescriptionItems, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Name != "" {
			continue
		}
		if med, ok := u.mirror.Medicine(out[i].MedicineID); ok {
			out[i].Name = med.Name
		}
	}
	return out
}

// patientName prefers the given name and falls back to the mirror
func (u *clinicFlowUsecase) patientName(patientID, given string) string {
	if given != "" {
		return given
	}
	if patient, ok := u.mirror.Patient(patientID); ok {
		return patient.Name
	}
	return ""
}

// sync applies the changes of a successful action to the mirror. The writes
// already happened, so a failure here only leaves the mirror stale.
func (u *clinicFlowUsecase) sync(ctx context.Context, changes ...service.Change) {
	if err := u.mirror.Apply(ctx, changes...); err != nil {
		u.log.Warnf("Failed to update mirror, it stays stale until the next refresh: %+v", err)
	}
}

// finish records the outcome of an action and returns err unchanged. A saga
// that could not undo its writes triggers a full refresh so the mirror shows
// what was left behind.
func (u *clinicFlowUsecase) finish(ctx context.Context, sg *saga, action string, err error, successMsg, failureMsg string) error {
	rejected := isRejection(err)
	u.metrics.ObserveAction(action, err, rejected)

	if err != nil && sg != nil && sg.Dirty() {
		if refreshErr := u.mirror.Refresh(context.WithoutCancel(ctx)); refreshErr != nil {
			u.log.Warnf("Failed to refresh mirror after incomplete rollback: %+v", refreshErr)
		}
	}

	if u.notifier == nil {
		return err
	}
	switch {
	case err == nil && successMsg != "":
		u.notifier.Success(successMsg)
	case err != nil:
		u.notifier.Error(failureMessage(err, failureMsg))
	}
	return err
}

// isRejection reports whether err is a business rule violation found before
// or between writes
func isRejection(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		ErrQueueEntryNotFound,
		ErrPrescriptionNotFound,
		ErrPrescriptionCompleted,
		ErrMedicineNotFound,
		ErrInsufficientStock,
		ErrInvalidQuantity,
		ErrInvalidPaymentMethod,
		ErrInvalidAmount,
		entity.ErrInvalidTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func failureMessage(err error, fallback string) string {
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return fmt.Sprintf("Stok %s tidak mencukupi! Sisa: %d", stockErr.Name, stockErr.Available)
	case errors.Is(err, ErrMedicineNotFound):
		return "Obat tidak ditemukan."
	case errors.Is(err, entity.ErrInvalidTransition):
		return "Status antrian tidak dapat diubah."
	case fallback != "":
		return fallback
	}
	return "Terjadi kesalahan, silakan coba lagi."
}
