package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"tinymeal/internal/cache"
)

const (
	profilePrefix    = "profile/"
	emailIndexPrefix = "profile_email/"
)

var ErrNotFound = errors.New("profile not found")

type Storage struct {
	cache cache.Cache
}

func NewStorage(c cache.Cache) *Storage {
	return &Storage{cache: c}
}

func (s *Storage) GetByID(ctx context.Context, id string) (*Profile, error) {
	reader, err := s.cache.Get(ctx, profilePrefix+id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closeQuietly(ctx, reader, id)

	var profile Profile
	if err := json.NewDecoder(reader).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	reader, err := s.cache.Get(ctx, emailIndexPrefix+normalizeEmail(email))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closeQuietly(ctx, reader, email)

	id, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, string(id))
}

// FindOrCreateByID returns the profile for an auth subject, creating it on
// first sight with the trial clock started. A new email on an existing
// profile is appended and indexed.
func (s *Storage) FindOrCreateByID(ctx context.Context, id, email string) (*Profile, error) {
	email = normalizeEmail(email)

	profile, err := s.GetByID(ctx, id)
	if err == nil {
		if email != "" && !slices.Contains(profile.Email, email) {
			profile.Email = append(profile.Email, email)
			if err := s.Update(ctx, profile); err != nil {
				return nil, err
			}
			if err := s.indexEmail(ctx, email, id); err != nil {
				return nil, err
			}
		}
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	newProfile := &Profile{
		ID:             id,
		TrialStartDate: now,
		CreatedAt:      now,
	}
	if email != "" {
		newProfile.Email = []string{email}
	}
	if err := s.Update(ctx, newProfile); err != nil {
		return nil, fmt.Errorf("failed to store new profile: %w", err)
	}
	if email != "" {
		//no transactions
		if err := s.indexEmail(ctx, email, id); err != nil {
			return nil, fmt.Errorf("failed to index new profile by email: %w", err)
		}
	}
	return newProfile, nil
}

func (s *Storage) Update(ctx context.Context, profile *Profile) error {
	profileJSON := lo.Must(json.Marshal(profile))
	return s.cache.Put(ctx, profilePrefix+profile.ID, string(profileJSON), cache.Unconditional())
}

// RecordGeneration increments the generated-plan counter and, once the trial
// window has lapsed, marks the trial consumed. Callers run this fire and
// forget after a successful generation.
func (s *Storage) RecordGeneration(ctx context.Context, id string) (int, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	profile.MealPlansGenerated++
	if !time.Now().Before(TrialExpiry(profile.TrialStartDate)) {
		profile.TrialUsed = true
	}

	if err := s.Update(ctx, profile); err != nil {
		return 0, err
	}
	return profile.MealPlansGenerated, nil
}

// UpdateSubscription records a payment-flow outcome on the profile. An empty
// customerID leaves the stored one alone; the customer outlives any one
// subscription.
func (s *Storage) UpdateSubscription(ctx context.Context, id, subscriptionID, customerID, status string, endDate *time.Time) error {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	profile.SubscriptionID = subscriptionID
	if customerID != "" {
		profile.StripeCustomerID = customerID
	}
	profile.SubscriptionStatus = status
	profile.SubscriptionEndDate = endDate
	return s.Update(ctx, profile)
}

func (s *Storage) indexEmail(ctx context.Context, email, id string) error {
	return s.cache.Put(ctx, emailIndexPrefix+email, id, cache.Unconditional())
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func closeQuietly(ctx context.Context, closer io.Closer, key string) {
	if err := closer.Close(); err != nil {
		slog.ErrorContext(ctx, "failed to close cached profile reader", "key", key, "error", err)
	}
}
