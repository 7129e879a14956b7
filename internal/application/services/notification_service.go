package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/config"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// NotificationService handles notification creation and lifecycle. Every
// creation passes through a per-(type,title) rate limiter so repeated
// detection passes cannot flood the feed with duplicates.
type NotificationService struct {
	notificationRepo ports.NotificationRepository
	logger           *logger.Logger
	emitted          *prometheus.CounterVec

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	window   rate.Limit
}

// NewNotificationService creates a new notification service. The registry
// may be nil when metrics are disabled.
func NewNotificationService(notificationRepo ports.NotificationRepository, cfg config.NotifierConfig, appLogger *logger.Logger, registry *prometheus.Registry) *NotificationService {
	s := &NotificationService{
		notificationRepo: notificationRepo,
		logger:           appLogger,
		emitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zephyr_notifications_emitted_total",
				Help: "Total number of notifications created, by type",
			},
			[]string{"type"},
		),
		limiters: make(map[string]*rate.Limiter),
		window:   rate.Every(cfg.DedupWindow),
	}

	if registry != nil {
		registry.MustRegister(s.emitted)
	}

	return s
}

// ListNotifications returns the feed newest first.
func (s *NotificationService) ListNotifications(ctx context.Context) ([]entities.Notification, error) {
	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	notifications, err := s.notificationRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return unread, nil
}

// Notify creates a notification unless one with the same type and title was
// created inside the dedup window. Returns nil when suppressed.
func (s *NotificationService) Notify(ctx context.Context, req ports.CreateNotificationRequest) (*entities.Notification, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("unknown notification type %q", req.Type)
	}

	if !s.allow(string(req.Type) + "\x00" + req.Title) {
		s.logger.Debugw("Notification suppressed by dedup window", "type", req.Type, "title", req.Title)
		return nil, nil
	}

	notification, err := s.notificationRepo.Add(ctx, entities.Notification{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Action:   req.Action,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.emitted.WithLabelValues(string(req.Type)).Inc()
	s.logger.LogNotification(string(req.Type), req.Title)
	return notification, nil
}

// allow consults the keyed limiter for the identity, creating it on first
// sight. Each identity admits one notification per dedup window.
func (s *NotificationService) allow(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[identity]
	if !ok {
		limiter = rate.NewLimiter(s.window, 1)
		s.limiters[identity] = limiter
	}
	return limiter.Allow()
}

// MarkRead flags one notification as read. A missing id returns (nil, nil).
func (s *NotificationService) MarkRead(ctx context.Context, id string) (*entities.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return notification, nil
}

// MarkAllRead flags every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := s.notificationRepo.MarkAllRead(ctx); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// ClearAll empties the notification feed.
func (s *NotificationService) ClearAll(ctx context.Context) error {
	if err := s.notificationRepo.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
