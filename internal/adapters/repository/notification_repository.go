package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// NotificationRepositoryImpl implements the NotificationRepository
// interface. The log is bounded by age, not by count: every save prunes
// entries past the retention window.
type NotificationRepositoryImpl struct {
	kv        ports.KV
	logger    *logger.Logger
	retention time.Duration
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(kv ports.KV, appLogger *logger.Logger, retention time.Duration) ports.NotificationRepository {
	return &NotificationRepositoryImpl{
		kv:        kv,
		logger:    appLogger.WithComponent("notifications"),
		retention: retention,
	}
}

func (r *NotificationRepositoryImpl) List(ctx context.Context) ([]entities.Notification, error) {
	items, err := loadItems[entities.Notification](ctx, r.kv, KeyNotifications)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (r *NotificationRepositoryImpl) Add(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	if n.ID == "" {
		n.ID = entities.NewID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Metadata == nil {
		n.Metadata = map[string]string{}
	}

	items = append(items, n)
	if err := r.save(ctx, items); err != nil {
		return nil, fmt.Errorf("add notification: %w", err)
	}

	return &n, nil
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id string) (*entities.Notification, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}

		items[i].Read = true
		if err := r.save(ctx, items); err != nil {
			return nil, fmt.Errorf("mark notification read: %w", err)
		}
		return &items[i], nil
	}

	return nil, nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context) error {
	items, err := r.List(ctx)
	if err != nil {
		return err
	}

	for i := range items {
		items[i].Read = true
	}

	if err := r.save(ctx, items); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepositoryImpl) ClearAll(ctx context.Context) error {
	if err := saveItems(ctx, r.kv, KeyNotifications, []entities.Notification{}); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// save prunes aged-out entries before persisting.
func (r *NotificationRepositoryImpl) save(ctx context.Context, items []entities.Notification) error {
	now := time.Now()
	kept := items[:0]
	for _, n := range items {
		if n.IsExpired(now, r.retention) {
			continue
		}
		kept = append(kept, n)
	}
	return saveItems(ctx, r.kv, KeyNotifications, kept)
}
