package sharing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"tinymeal/internal/ai"
	"tinymeal/internal/cache"
	"tinymeal/internal/recipes"
)

const (
	sharedRecipePrefix = "shared_recipe/"
	sharedListPrefix   = "shared_list/"
	ownerPrefix        = "shares/"
)

var ErrNotFound = errors.New("share not found")

// Service creates and resolves public share links. Share ids are opaque
// random tokens; the snapshot behind one never changes after creation except
// for the view counter.
type Service struct {
	cache   cache.Cache
	baseURL string
}

func NewService(c cache.Cache, baseURL string) *Service {
	return &Service{cache: c, baseURL: baseURL}
}

// ShareRecipe snapshots the recipe under a fresh share id and returns the
// public URL.
func (s *Service) ShareRecipe(ctx context.Context, userID, sharerName string, recipe recipes.SavedRecipe) (*ShareRef, error) {
	id, err := newShareID()
	if err != nil {
		return nil, err
	}

	shared := SharedRecipe{
		ID:           id,
		Recipe:       recipe,
		SharedByName: sharerName,
		CreatedAt:    time.Now(),
	}
	if err := s.putJSON(ctx, sharedRecipePrefix+id, shared, cache.IfNoneMatch()); err != nil {
		return nil, fmt.Errorf("storing shared recipe: %w", err)
	}

	ref := ShareRef{
		ID:        id,
		Kind:      KindRecipe,
		Title:     recipe.Name,
		URL:       fmt.Sprintf("%s?share=%s", s.baseURL, id),
		CreatedAt: shared.CreatedAt,
	}
	if err := s.index(ctx, userID, ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// ShareShoppingList snapshots the consolidated ingredients under a fresh
// share id and returns the public URL.
func (s *Service) ShareShoppingList(ctx context.Context, userID, sharerName string, ingredients []ai.ConsolidatedIngredient) (*ShareRef, error) {
	id, err := newShareID()
	if err != nil {
		return nil, err
	}

	shared := SharedShoppingList{
		ID:           id,
		Ingredients:  ingredients,
		SharedByName: sharerName,
		CreatedAt:    time.Now(),
	}
	if err := s.putJSON(ctx, sharedListPrefix+id, shared, cache.IfNoneMatch()); err != nil {
		return nil, fmt.Errorf("storing shared shopping list: %w", err)
	}

	ref := ShareRef{
		ID:        id,
		Kind:      KindShoppingList,
		Title:     fmt.Sprintf("Shopping list (%d ingredients)", len(ingredients)),
		URL:       fmt.Sprintf("%s?shoppingList=%s", s.baseURL, id),
		CreatedAt: shared.CreatedAt,
	}
	if err := s.index(ctx, userID, ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// ResolveRecipe looks up a shared recipe by id, counting the view. The
// counter write is best effort.
func (s *Service) ResolveRecipe(ctx context.Context, id string) (*SharedRecipe, error) {
	var shared SharedRecipe
	if err := s.readJSON(ctx, sharedRecipePrefix+id, &shared); err != nil {
		return nil, err
	}
	if shared.RevokedAt != nil {
		return nil, ErrNotFound
	}

	shared.ViewCount++
	if err := s.putJSON(ctx, sharedRecipePrefix+id, shared, cache.Unconditional()); err != nil {
		slog.WarnContext(ctx, "failed to record share view", "share", id, "error", err)
	}
	return &shared, nil
}

func (s *Service) ResolveShoppingList(ctx context.Context, id string) (*SharedShoppingList, error) {
	var shared SharedShoppingList
	if err := s.readJSON(ctx, sharedListPrefix+id, &shared); err != nil {
		return nil, err
	}
	if shared.RevokedAt != nil {
		return nil, ErrNotFound
	}

	shared.ViewCount++
	if err := s.putJSON(ctx, sharedListPrefix+id, shared, cache.Unconditional()); err != nil {
		slog.WarnContext(ctx, "failed to record share view", "share", id, "error", err)
	}
	return &shared, nil
}

// ListByOwner returns the user's shares, newest first.
func (s *Service) ListByOwner(ctx context.Context, userID string) ([]ShareRef, error) {
	refs, err := s.ownerIndex(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(refs)-1; i < j; i, j = i+1, j-1 {
		refs[i], refs[j] = refs[j], refs[i]
	}
	return refs, nil
}

// Delete removes the user's share and its snapshot. Deleting someone else's
// share id is ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID, shareID string) error {
	refs, err := s.ownerIndex(ctx, userID)
	if err != nil {
		return err
	}

	remaining := make([]ShareRef, 0, len(refs))
	var found *ShareRef
	for _, ref := range refs {
		if ref.ID == shareID {
			found = &ref
			continue
		}
		remaining = append(remaining, ref)
	}
	if found == nil {
		return ErrNotFound
	}

	key := sharedRecipePrefix + shareID
	if found.Kind == KindShoppingList {
		key = sharedListPrefix + shareID
	}
	if err := s.cache.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return err
	}
	return s.putJSON(ctx, ownerPrefix+userID, remaining, cache.Unconditional())
}

func (s *Service) index(ctx context.Context, userID string, ref ShareRef) error {
	refs, err := s.ownerIndex(ctx, userID)
	if err != nil {
		return err
	}
	refs = append(refs, ref)
	return s.putJSON(ctx, ownerPrefix+userID, refs, cache.Unconditional())
}

func (s *Service) ownerIndex(ctx context.Context, userID string) ([]ShareRef, error) {
	var refs []ShareRef
	reader, err := s.cache.Get(ctx, ownerPrefix+userID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close cache reader", "user", userID, "error", err)
		}
	}()
	if err := json.NewDecoder(reader).Decode(&refs); err != nil {
		return nil, fmt.Errorf("failed to decode share index: %w", err)
	}
	return refs, nil
}

func (s *Service) putJSON(ctx context.Context, key string, value any, opts cache.PutOptions) error {
	valueJSON := lo.Must(json.Marshal(value))
	return s.cache.Put(ctx, key, string(valueJSON), opts)
}

func (s *Service) readJSON(ctx context.Context, key string, out any) error {
	reader, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close cache reader", "key", key, "error", err)
		}
	}()
	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// newShareID returns a 12 character hex token, unguessable but short enough
// for a link someone might read aloud.
func newShareID() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating share id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
