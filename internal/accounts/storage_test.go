package accounts

import (
	"context"
	"testing"
	"time"

	"tinymeal/internal/cache"
)

func TestFindOrCreateByID(t *testing.T) {
	ctx := context.Background()
	store := NewStorage(cache.NewInMemoryCache())

	profile, err := store.FindOrCreateByID(ctx, "user_123", "Test@Example.com")
	if err != nil {
		t.Fatalf("expected profile to be created, got error: %v", err)
	}
	if got, want := profile.ID, "user_123"; got != want {
		t.Fatalf("unexpected profile ID: got %s want %s", got, want)
	}
	if len(profile.Email) != 1 || profile.Email[0] != "test@example.com" {
		t.Fatalf("unexpected email list: %#v", profile.Email)
	}
	if profile.TrialStartDate.IsZero() {
		t.Fatal("expected trial clock to start on creation")
	}

	byEmail, err := store.GetByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("expected profile to be indexed by email, got error: %v", err)
	}
	if byEmail.ID != profile.ID {
		t.Fatalf("email lookup returned wrong profile: got %s want %s", byEmail.ID, profile.ID)
	}
}

func TestFindOrCreateByIDAddsEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStorage(cache.NewInMemoryCache())

	if _, err := store.FindOrCreateByID(ctx, "user_456", "first@example.com"); err != nil {
		t.Fatalf("expected profile to be created, got error: %v", err)
	}

	profile, err := store.FindOrCreateByID(ctx, "user_456", "second@example.com")
	if err != nil {
		t.Fatalf("expected profile to be updated, got error: %v", err)
	}
	if len(profile.Email) != 2 {
		t.Fatalf("expected two emails, got %d", len(profile.Email))
	}
}

func TestRecordGeneration(t *testing.T) {
	ctx := context.Background()
	store := NewStorage(cache.NewInMemoryCache())

	profile, err := store.FindOrCreateByID(ctx, "user_789", "gen@example.com")
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	count, err := store.RecordGeneration(ctx, profile.ID)
	if err != nil {
		t.Fatalf("failed to record generation: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	reloaded, err := store.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.MealPlansGenerated != 1 {
		t.Fatalf("expected persisted count 1, got %d", reloaded.MealPlansGenerated)
	}
	if reloaded.TrialUsed {
		t.Fatal("trial should not be marked used inside the window")
	}

	// Push the trial start into the past and confirm the flag flips.
	reloaded.TrialStartDate = time.Now().Add(-time.Duration(TrialDays+1) * 24 * time.Hour)
	if err := store.Update(ctx, reloaded); err != nil {
		t.Fatalf("failed to backdate trial: %v", err)
	}
	if _, err := store.RecordGeneration(ctx, profile.ID); err != nil {
		t.Fatalf("failed to record generation: %v", err)
	}
	final, err := store.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if !final.TrialUsed {
		t.Fatal("expected trial to be marked used after the window lapsed")
	}
}

func TestUpdateSubscription(t *testing.T) {
	ctx := context.Background()
	store := NewStorage(cache.NewInMemoryCache())

	profile, err := store.FindOrCreateByID(ctx, "user_sub", "sub@example.com")
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	end := time.Now().AddDate(1, 0, 0)
	if err := store.UpdateSubscription(ctx, profile.ID, "sub_1", "cus_1", SubscriptionActive, &end); err != nil {
		t.Fatalf("failed to update subscription: %v", err)
	}

	reloaded, err := store.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.SubscriptionStatus != SubscriptionActive || reloaded.SubscriptionID != "sub_1" {
		t.Fatalf("subscription not persisted: %+v", reloaded)
	}
	if reloaded.StripeCustomerID != "cus_1" {
		t.Fatalf("customer id not persisted: %+v", reloaded)
	}

	// a renewal without a customer id keeps the stored one
	if err := store.UpdateSubscription(ctx, profile.ID, "sub_2", "", SubscriptionActive, nil); err != nil {
		t.Fatalf("failed to update subscription: %v", err)
	}
	reloaded, err = store.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.StripeCustomerID != "cus_1" || reloaded.SubscriptionID != "sub_2" {
		t.Fatalf("customer id should survive renewal: %+v", reloaded)
	}
}
