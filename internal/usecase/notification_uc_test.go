package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
)

func seedNotif(repo *memNotificationRepo, id, userID string, read bool) {
	_ = repo.Create(context.Background(), &model.Notification{
		ID: id, UserID: userID, Title: "t", Message: "m",
		Type: model.NotificationTypeNewBid, Read: read, CreatedAt: time.Now(),
	})
}

func TestNotificationCenter_Ownership(t *testing.T) {
	t.Parallel()
	notifs := newMemNotificationRepo()
	users := newMemUserRepo()
	uc := NewNotificationUseCase(notifs, users, &mockPush{}, newTestLogger())
	ctx := context.Background()

	seedNotif(notifs, "N1", "U1", false)
	seedNotif(notifs, "N2", "U1", false)
	seedNotif(notifs, "N3", "U2", false)

	if err := uc.MarkRead(ctx, "N1", "U2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign mark-read: want ErrForbidden, got %v", err)
	}
	if err := uc.Delete(ctx, "N1", "U2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign delete: want ErrForbidden, got %v", err)
	}

	if err := uc.MarkRead(ctx, "N1", "U1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	count, _ := uc.CountUnread(ctx, "U1")
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	if err := uc.MarkAllRead(ctx, "U1"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	count, _ = uc.CountUnread(ctx, "U1")
	if count != 0 {
		t.Fatalf("expected 0 unread after read-all, got %d", count)
	}

	// U2's inbox is untouched.
	count, _ = uc.CountUnread(ctx, "U2")
	if count != 1 {
		t.Fatalf("read-all leaked to another user")
	}

	if err := uc.Delete(ctx, "N1", "U1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := uc.MarkRead(ctx, "missing", "U1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing id: want ErrNotFound, got %v", err)
	}
}

func TestDispatchPending(t *testing.T) {
	t.Parallel()
	notifs := newMemNotificationRepo()
	users := newMemUserRepo()
	push := &mockPush{}
	uc := NewNotificationUseCase(notifs, users, push, newTestLogger())
	ctx := context.Background()

	users.store["U1"] = &model.User{ID: "U1", Role: model.UserRoleClient, FullName: "a", DeviceToken: "tok-1"}
	users.store["U2"] = &model.User{ID: "U2", Role: model.UserRoleClient, FullName: "b"} // no device

	seedNotif(notifs, "N1", "U1", false)
	seedNotif(notifs, "N2", "U2", false)
	seedNotif(notifs, "N3", "U1", false)

	sent, err := uc.DispatchPending(ctx, 10)
	if err != nil {
		t.Fatalf("DispatchPending: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 pushes sent, got %d", sent)
	}
	if len(push.sent) != 2 || push.sent[0].DeviceToken != "tok-1" {
		t.Fatalf("unexpected push deliveries: %+v", push.sent)
	}

	// Everything is marked pushed, including the token-less row.
	left, _ := notifs.ListUnpushed(ctx, 10)
	if len(left) != 0 {
		t.Fatalf("expected no unpushed rows left, got %d", len(left))
	}

	// A second sweep finds nothing.
	sent, _ = uc.DispatchPending(ctx, 10)
	if sent != 0 {
		t.Fatalf("second sweep should send nothing, got %d", sent)
	}
}

func TestDispatchPending_PushFailureLeavesRowForRetry(t *testing.T) {
	t.Parallel()
	notifs := newMemNotificationRepo()
	users := newMemUserRepo()
	push := &mockPush{sendErr: errors.New("fcm 503")}
	uc := NewNotificationUseCase(notifs, users, push, newTestLogger())
	ctx := context.Background()

	users.store["U1"] = &model.User{ID: "U1", Role: model.UserRoleClient, FullName: "a", DeviceToken: "tok-1"}
	seedNotif(notifs, "N1", "U1", false)

	sent, err := uc.DispatchPending(ctx, 10)
	if err != nil {
		t.Fatalf("DispatchPending: %v", err)
	}
	if sent != 0 {
		t.Fatalf("failed push should not count as sent")
	}
	left, _ := notifs.ListUnpushed(ctx, 10)
	if len(left) != 1 {
		t.Fatalf("failed row should stay unpushed for the next sweep")
	}
}
