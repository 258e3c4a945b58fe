package entity

import (
	"errors"
	"fmt"
	"time"
)

// QueueStatus is the position of a patient's visit in the clinic pipeline
type QueueStatus string

const (
	QueueStatusWaiting   QueueStatus = "waiting"
	QueueStatusExamining QueueStatus = "examining"
	QueueStatusPayment   QueueStatus = "payment"
	QueueStatusPharmacy  QueueStatus = "pharmacy"
	QueueStatusCompleted QueueStatus = "completed"
)

// QueueEvent is an action that moves a queue entry forward
type QueueEvent string

const (
	QueueEventCall                 QueueEvent = "call"
	QueueEventExaminationFiled     QueueEvent = "examination_filed"
	QueueEventPaidWithPrescription QueueEvent = "paid_with_prescription"
	QueueEventPaid                 QueueEvent = "paid"
	QueueEventDispensed            QueueEvent = "dispensed"
)

// ErrInvalidTransition is matched by every *InvalidTransitionError
var ErrInvalidTransition = errors.New("invalid queue transition")

// InvalidTransitionError describes a rejected transition
type InvalidTransitionError struct {
	From  QueueStatus
	Event QueueEvent
	To    QueueStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.Event != "" {
		return fmt.Sprintf("invalid queue transition: event %q not allowed from %q", e.Event, e.From)
	}
	return fmt.Sprintf("invalid queue transition: %q -> %q", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type queueEdge struct {
	from QueueStatus
	to   QueueStatus
}

var queueTransitions = map[QueueEvent]queueEdge{
	QueueEventCall:                 {QueueStatusWaiting, QueueStatusExamining},
	QueueEventExaminationFiled:     {QueueStatusExamining, QueueStatusPayment},
	QueueEventPaidWithPrescription: {QueueStatusPayment, QueueStatusPharmacy},
	QueueEventPaid:                 {QueueStatusPayment, QueueStatusCompleted},
	QueueEventDispensed:            {QueueStatusPharmacy, QueueStatusCompleted},
}

// IsManualEvent reports whether event may be applied on its own. The other
// events belong to examination, payment and dispensing and only fire as
// part of those actions.
func IsManualEvent(event QueueEvent) bool {
	return event == QueueEventCall
}

// NextQueueStatus applies event to from. It is the only place the
// transition table is consulted.
func NextQueueStatus(from QueueStatus, event QueueEvent) (QueueStatus, error) {
	edge, ok := queueTransitions[event]
	if !ok || edge.from != from {
		return "", &InvalidTransitionError{From: from, Event: event}
	}
	return edge.to, nil
}

// CanAdvance reports whether from -> to is an edge of the transition table
func CanAdvance(from, to QueueStatus) bool {
	_, ok := EventFor(from, to)
	return ok
}

// EventFor returns the event that moves from -> to, if any
func EventFor(from, to QueueStatus) (QueueEvent, bool) {
	for event, edge := range queueTransitions {
		if edge.from == from && edge.to == to {
			return event, true
		}
	}
	return "", false
}

// IsValidQueueStatus checks s against the fixed status sequence
func IsValidQueueStatus(s QueueStatus) bool {
	return s.Rank() >= 0
}

// Rank is the position of s in waiting, examining, payment, pharmacy,
// completed, or -1 for unknown values.
func (s QueueStatus) Rank() int {
	switch s {
	case QueueStatusWaiting:
		return 0
	case QueueStatusExamining:
		return 1
	case QueueStatusPayment:
		return 2
	case QueueStatusPharmacy:
		return 3
	case QueueStatusCompleted:
		return 4
	}
	return -1
}

// QueueEntry tracks one patient visit through the clinic
type QueueEntry struct {
	Identity
	PatientID   string      `gorm:"type:varchar(64);not null;index" json:"patientId"`
	PatientName string      `gorm:"type:varchar(255);not null" json:"patientName"`
	Status      QueueStatus `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	JoinedAt    time.Time   `gorm:"not null;index" json:"joinedAt"`
}

func (QueueEntry) TableName() string {
	return string(CollectionQueue)
}

// IsActive reports whether the visit has not finished yet
func (q *QueueEntry) IsActive() bool {
	return q.Status != QueueStatusCompleted
}
