package cache

import (
	"log/slog"
	"os"
)

// MakeCache picks a backend from the environment: Azure Blob Storage when
// credentials are present, a local file cache otherwise.
func MakeCache() (ListCache, error) {
	if _, ok := os.LookupEnv("AZURE_STORAGE_ACCOUNT_NAME"); ok {
		slog.Info("Using Azure Blob Storage for persistence")
		return NewBlobCache("mealplanner")
	}

	return NewFileCache("data"), nil
}
