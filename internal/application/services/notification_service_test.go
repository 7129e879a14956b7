package services

import (
	"context"
	"testing"
	"time"

	"github.com/zephyr-app/core/internal/adapters/repository"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/config"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/infrastructure/storage"
	"github.com/zephyr-app/core/internal/ports"
)

func newNotificationService(t *testing.T, window time.Duration) *NotificationService {
	t.Helper()
	repo := repository.NewNotificationRepository(storage.NewMemory(), logger.NewNop(), 24*time.Hour)
	return NewNotificationService(repo, config.NotifierConfig{DedupWindow: window}, logger.NewNop(), nil)
}

func TestNotify_SuppressesDuplicateInsideWindow(t *testing.T) {
	svc := newNotificationService(t, time.Hour)
	ctx := context.Background()

	req := ports.CreateNotificationRequest{
		Type:  entities.NotificationTask,
		Title: "Overdue: report",
	}

	first, err := svc.Notify(ctx, req)
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if first == nil {
		t.Fatal("first notification must not be suppressed")
	}

	second, err := svc.Notify(ctx, req)
	if err != nil {
		t.Fatalf("second Notify failed: %v", err)
	}
	if second != nil {
		t.Fatalf("duplicate inside window must be suppressed, got %+v", second)
	}

	// A different title is a different identity.
	other, err := svc.Notify(ctx, ports.CreateNotificationRequest{
		Type:  entities.NotificationTask,
		Title: "Due today: report",
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if other == nil {
		t.Fatal("distinct identity must not be suppressed")
	}

	list, err := svc.ListNotifications(ctx)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("feed length = %d, want 2", len(list))
	}
}

func TestNotify_RejectsUnknownType(t *testing.T) {
	svc := newNotificationService(t, time.Hour)

	_, err := svc.Notify(context.Background(), ports.CreateNotificationRequest{
		Type:  "carrier_pigeon",
		Title: "x",
	})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	svc := newNotificationService(t, time.Hour)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := svc.Notify(ctx, ports.CreateNotificationRequest{Type: entities.NotificationTimer, Title: title}); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}

	count, err := svc.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("unread = %d, want 3", count)
	}

	if err := svc.MarkAllRead(ctx); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	count, _ = svc.UnreadCount(ctx)
	if count != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", count)
	}
}
