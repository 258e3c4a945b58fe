package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"klinik-sentosa/config"
	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// Types
// =============================================================================

// Snapshot is a point-in-time copy of the six clinic collections
type Snapshot struct {
	Patients      []entity.Patient
	Queue         []entity.QueueEntry
	Examinations  []entity.Examination
	Prescriptions []entity.Prescription
	Transactions  []entity.Transaction
	Medicines     []entity.Medicine
	RefreshedAt   time.Time
}

// MirrorRepositories are the collections the mirror reads from
type MirrorRepositories struct {
	Patients      repository.PatientRepository
	Queue         repository.QueueRepository
	Examinations  repository.ExaminationRepository
	Prescriptions repository.PrescriptionRepository
	Transactions  repository.TransactionRepository
	Medicines     repository.MedicineRepository
}

// Change is an incremental update applied to the mirror after a write
type Change func(*Snapshot)

// MirrorSyncService owns the in-memory copy of the clinic collections.
//
// The clinic flow coordinator is the only writer. Everyone else reads through
// Snapshot or the lookup helpers, which return copies.
//
// Modes:
// - full: every write is followed by a re-fetch of all six collections
// - incremental: every write patches the mirror by record id
type MirrorSyncService struct {
	repos MirrorRepositories
	mode  string
	log   *logrus.Logger

	mu    sync.RWMutex
	state Snapshot

	// Background refresh
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

// =============================================================================
// Constructor
// =============================================================================

func NewMirrorSyncService(repos MirrorRepositories, mode string, log *logrus.Logger) *MirrorSyncService {
	if mode != config.MirrorModeFull {
		mode = config.MirrorModeIncremental
	}
	return &MirrorSyncService{
		repos:    repos,
		mode:     mode,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// =============================================================================
// Lifecycle Methods
// =============================================================================

// StartAutoRefresh re-fetches the mirror every interval in the background, so
// writes made by other clients of the data backend show up. A zero interval
// disables it. Call Stop() during graceful shutdown.
func (s *MirrorSyncService) StartAutoRefresh(interval time.Duration) {
	if interval <= 0 || !s.started.CompareAndSwap(false, true) {
		return
	}

	s.wg.Add(1)
	go s.autoRefreshLoop(interval)
}

// Stop ends the background refresh. Safe to call multiple times.
func (s *MirrorSyncService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("MirrorSyncService stopped")
	}
}

func (s *MirrorSyncService) autoRefreshLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mirror auto refresh stopping")
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			// failures are logged by Refresh and the old mirror is kept
			_ = s.Refresh(ctx)
			cancel()
		}
	}
}

// =============================================================================
// Sync Methods
// =============================================================================

// Refresh re-reads all six collections concurrently and swaps them in
// together. On any read failure the previous mirror is kept.
func (s *MirrorSyncService) Refresh(ctx context.Context) error {
	startTime := time.Now()
	var next Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Patients, err = s.repos.Patients.FindAll(gctx)
		return wrapFetch(entity.CollectionPatients, err)
	})
	g.Go(func() (err error) {
		next.Queue, err = s.repos.Queue.FindAll(gctx)
		return wrapFetch(entity.CollectionQueue, err)
	})
	g.Go(func() (err error) {
		next.Examinations, err = s.repos.Examinations.FindAll(gctx)
		return wrapFetch(entity.CollectionExaminations, err)
	})
	g.Go(func() (err error) {
		next.Prescriptions, err = s.repos.Prescriptions.FindAll(gctx)
		return wrapFetch(entity.CollectionPrescriptions, err)
	})
	g.Go(func() (err error) {
		next.Transactions, err = s.repos.Transactions.FindAll(gctx)
		return wrapFetch(entity.CollectionTransactions, err)
	})
	g.Go(func() (err error) {
		next.Medicines, err = s.repos.Medicines.FindAll(gctx)
		return wrapFetch(entity.CollectionMedicines, err)
	})

	if err := g.Wait(); err != nil {
		s.log.Warnf("Failed to refresh mirror: %+v", err)
		return err
	}
	next.RefreshedAt = time.Now()

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.log.Debugf("Mirror refreshed in %v: %d patients, %d queue entries, %d medicines",
		time.Since(startTime), len(next.Patients), len(next.Queue), len(next.Medicines))
	return nil
}

// Apply brings the mirror up to date after a successful write
func (s *MirrorSyncService) Apply(ctx context.Context, changes ...Change) error {
	if s.mode == config.MirrorModeFull {
		return s.Refresh(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, change := range changes {
		change(&s.state)
	}
	return nil
}

func (s *MirrorSyncService) Mode() string {
	return s.mode
}

func wrapFetch(c entity.Collection, err error) error {
	if err != nil {
		return fmt.Errorf("fetch %s: %w", c, err)
	}
	return nil
}

// =============================================================================
// Read Methods
// =============================================================================

// Snapshot returns a deep copy of the mirror
func (s *MirrorSyncService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.state)
}

func (s *MirrorSyncService) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshedAt
}

// QueueEntry finds a queue entry by id
func (s *MirrorSyncService) QueueEntry(id string) (*entity.QueueEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.state.Queue {
		if q.ID == id {
			entry := q
			return &entry, true
		}
	}
	return nil, false
}

// FindQueueEntry returns the first entry of the patient in the given status
func (s *MirrorSyncService) FindQueueEntry(patientID string, status entity.QueueStatus) (*entity.QueueEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.state.Queue {
		if q.PatientID == patientID && q.Status == status {
			entry := q
			return &entry, true
		}
	}
	return nil, false
}

// HasActiveVisit reports whether the patient has a non-completed queue entry
func (s *MirrorSyncService) HasActiveVisit(patientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.state.Queue {
		if q.PatientID == patientID && q.IsActive() {
			return true
		}
	}
	return false
}

func (s *MirrorSyncService) Patient(id string) (*entity.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.state.Patients {
		if p.ID == id {
			patient := p
			return &patient, true
		}
	}
	return nil, false
}

func (s *MirrorSyncService) Prescription(id string) (*entity.Prescription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.state.Prescriptions {
		if p.ID == id {
			rx := clonePrescription(p)
			return &rx, true
		}
	}
	return nil, false
}

// PendingPrescription returns the latest pending prescription of a patient
func (s *MirrorSyncService) PendingPrescription(patientID string) (*entity.Prescription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.state.Prescriptions) - 1; i >= 0; i-- {
		p := s.state.Prescriptions[i]
		if p.PatientID == patientID && p.IsPending() {
			rx := clonePrescription(p)
			return &rx, true
		}
	}
	return nil, false
}

// HasPendingPrescription reports whether any prescription of the patient
// still waits for dispensing
func (s *MirrorSyncService) HasPendingPrescription(patientID string) bool {
	_, ok := s.PendingPrescription(patientID)
	return ok
}

func (s *MirrorSyncService) Medicine(id string) (*entity.Medicine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.state.Medicines {
		if m.ID == id {
			med := m
			return &med, true
		}
	}
	return nil, false
}

// =============================================================================
// Changes
// =============================================================================

func UpsertPatient(p entity.Patient) Change {
	return func(s *Snapshot) { s.Patients = upsert(s.Patients, p) }
}

func RemovePatient(id string) Change {
	return func(s *Snapshot) { s.Patients = remove(s.Patients, id) }
}

func UpsertQueueEntry(q entity.QueueEntry) Change {
	return func(s *Snapshot) { s.Queue = upsert(s.Queue, q) }
}

func SetQueueStatus(id string, status entity.QueueStatus) Change {
	return func(s *Snapshot) {
		update(s.Queue, id, func(q *entity.QueueEntry) { q.Status = status })
	}
}

func UpsertExamination(e entity.Examination) Change {
	return func(s *Snapshot) { s.Examinations = upsert(s.Examinations, e) }
}

func UpsertPrescription(p entity.Prescription) Change {
	p = clonePrescription(p)
	return func(s *Snapshot) { s.Prescriptions = upsert(s.Prescriptions, p) }
}

func SetPrescriptionStatus(id string, status entity.PrescriptionStatus) Change {
	return func(s *Snapshot) {
		update(s.Prescriptions, id, func(p *entity.Prescription) { p.Status = status })
	}
}

func UpsertTransaction(t entity.Transaction) Change {
	t = cloneTransaction(t)
	return func(s *Snapshot) { s.Transactions = upsert(s.Transactions, t) }
}

func UpsertMedicine(m entity.Medicine) Change {
	return func(s *Snapshot) { s.Medicines = upsert(s.Medicines, m) }
}

func SetMedicineStock(id string, stock int) Change {
	return func(s *Snapshot) {
		update(s.Medicines, id, func(m *entity.Medicine) { m.Stock = stock })
	}
}

func RemoveMedicine(id string) Change {
	return func(s *Snapshot) { s.Medicines = remove(s.Medicines, id) }
}

// =============================================================================
// Private Helper Methods
// =============================================================================

type identified interface {
	GetID() string
}

func upsert[T identified](list []T, rec T) []T {
	for i := range list {
		if list[i].GetID() == rec.GetID() {
			list[i] = rec
			return list
		}
	}
	return append(list, rec)
}

func update[T identified](list []T, id string, fn func(*T)) {
	for i := range list {
		if list[i].GetID() == id {
			fn(&list[i])
			return
		}
	}
}

func remove[T identified](list []T, id string) []T {
	out := list[:0]
	for _, rec := range list {
		if rec.GetID() != id {
			out = append(out, rec)
		}
	}
	return out
}

func clonePrescription(p entity.Prescription) entity.Prescription {
	if p.Medicines != nil {
		p.Medicines = append(entity.PrescriptionItems(nil), p.Medicines...)
	}
	return p
}

func cloneTransaction(t entity.Transaction) entity.Transaction {
	if t.Items != nil {
		t.Items = append(entity.LineItems(nil), t.Items...)
	}
	return t
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := Snapshot{
		Patients:     append([]entity.Patient(nil), s.Patients...),
		Queue:        append([]entity.QueueEntry(nil), s.Queue...),
		Examinations: append([]entity.Examination(nil), s.Examinations...),
		Medicines:    append([]entity.Medicine(nil), s.Medicines...),
		RefreshedAt:  s.RefreshedAt,
	}
	out.Prescriptions = make([]entity.Prescription, 0, len(s.Prescriptions))
	for _, p := range s.Prescriptions {
		out.Prescriptions = append(out.Prescriptions, clonePrescription(p))
	}
	out.Transactions = make([]entity.Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		out.Transactions = append(out.Transactions, cloneTransaction(t))
	}
	return out
}
