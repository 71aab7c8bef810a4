package audithook_test

import (
	"context"
	"testing"

	audithook "github.com/xraph/storefront/audit_hook"
	"github.com/xraph/storefront/id"
)

func TestEventsCarryMintedIDs(t *testing.T) {
	var events []*audithook.AuditEvent
	rec := audithook.RecorderFunc(func(_ context.Context, evt *audithook.AuditEvent) error {
		events = append(events, evt)
		return nil
	})

	ext := audithook.New(rec)
	ctx := context.Background()
	if err := ext.OnTierChanged(ctx, "free", "gold"); err != nil {
		t.Fatalf("OnTierChanged: %v", err)
	}
	if err := ext.OnOwnershipChanged(ctx, "remove_ads", true); err != nil {
		t.Fatalf("OnOwnershipChanged: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events))
	}
	for _, evt := range events {
		if evt.ID.IsNil() {
			t.Errorf("event %q has a nil ID", evt.Action)
		}
		if evt.ID.Prefix() != id.PrefixEvent {
			t.Errorf("event %q ID prefix = %q, want %q", evt.Action, evt.ID.Prefix(), id.PrefixEvent)
		}
	}
	if events[0].ID == events[1].ID {
		t.Error("consecutive events share an ID")
	}
	if events[0].Action != audithook.ActionTierChanged {
		t.Errorf("action = %q, want %q", events[0].Action, audithook.ActionTierChanged)
	}
	if events[1].Action != audithook.ActionOwnershipGranted {
		t.Errorf("action = %q, want %q", events[1].Action, audithook.ActionOwnershipGranted)
	}
}

func TestDisabledActionsAreNotRecorded(t *testing.T) {
	var events []*audithook.AuditEvent
	rec := audithook.RecorderFunc(func(_ context.Context, evt *audithook.AuditEvent) error {
		events = append(events, evt)
		return nil
	})

	ext := audithook.New(rec, audithook.WithDisabledActions(audithook.ActionTierChanged))
	ctx := context.Background()
	if err := ext.OnTierChanged(ctx, "free", "gold"); err != nil {
		t.Fatalf("OnTierChanged: %v", err)
	}
	if err := ext.OnStatusRefreshed(ctx, "premium", "gold"); err != nil {
		t.Fatalf("OnStatusRefreshed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	if events[0].Action != audithook.ActionStatusRefreshed {
		t.Errorf("action = %q, want %q", events[0].Action, audithook.ActionStatusRefreshed)
	}
}
