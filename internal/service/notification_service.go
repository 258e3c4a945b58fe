package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// NotificationType controls how a toast is shown
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// Notification is a short-lived toast message for the staff UI
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// NotificationService keeps toasts until they expire or are dismissed.
// Every toast has its own expiry, independent of the others.
type NotificationService struct {
	cache    *cache.Cache
	duration time.Duration
	log      *logrus.Logger
}

func NewNotificationService(duration time.Duration, log *logrus.Logger) *NotificationService {
	if duration <= 0 {
		duration = 3 * time.Second
	}
	return &NotificationService{
		cache:    cache.New(duration, time.Minute),
		duration: duration,
		log:      log,
	}
}

// Push adds a toast that disappears after the configured duration
func (s *NotificationService) Push(kind NotificationType, message string) Notification {
	now := time.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
	}
	s.cache.Set(n.ID, n, cache.DefaultExpiration)
	s.log.Debugf("Notification %s (%s): %s", n.ID, kind, message)
	return n
}

func (s *NotificationService) Success(message string) Notification {
	return s.Push(NotificationSuccess, message)
}

func (s *NotificationService) Error(message string) Notification {
	return s.Push(NotificationError, message)
}

func (s *NotificationService) Info(message string) Notification {
	return s.Push(NotificationInfo, message)
}

// List returns the unexpired toasts, oldest first
func (s *NotificationService) List() []Notification {
	items := s.cache.Items()
	out := make([]Notification, 0, len(items))
	for _, item := range items {
		if n, ok := item.Object.(Notification); ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Dismiss removes a toast before it expires. It reports whether it existed.
func (s *NotificationService) Dismiss(id string) bool {
	if _, found := s.cache.Get(id); !found {
		return false
	}
	s.cache.Delete(id)
	return true
}
