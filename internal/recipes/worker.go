package recipes

import (
	"context"
	"log/slog"

	"tinymeal/internal/ai"
)

// enqueueProvenance hands the generated meals to the background recorder.
// Provenance is best effort; a full queue drops the job.
func (g *Generator) enqueueProvenance(ctx context.Context, userID string, meals []ai.Meal) {
	select {
	case g.jobs <- provenanceJob{userID: userID, meals: meals}:
	default:
		slog.WarnContext(ctx, "provenance queue full, dropping record", "user", userID, "meals", len(meals))
	}
}

func (g *Generator) provenanceLoop() {
	defer g.wg.Done()
	for job := range g.jobs {
		// The request that produced the job may be long gone.
		ctx := context.Background()
		if err := g.storage.SaveGenerated(ctx, job.userID, job.meals); err != nil {
			slog.ErrorContext(ctx, "recording generated meals", "user", job.userID, "error", err)
		}
		if _, err := g.accounts.RecordGeneration(ctx, job.userID); err != nil {
			slog.ErrorContext(ctx, "recording generation on profile", "user", job.userID, "error", err)
		}
	}
}

// Wait stops accepting provenance work and blocks until in-flight jobs drain.
func (g *Generator) Wait() {
	g.closeOnce.Do(func() { close(g.jobs) })
	g.wg.Wait()
}
