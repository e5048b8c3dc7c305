package cache

import (
	"encoding/json"

	"linthub.app/pkg/models"
)

// EncodeResult serializes a linter result for storage in a cache
// entry's opaque payload, shared by both the job manager and the sync
// lint service so a result cached by one path is readable by the
// other.
func EncodeResult(result *models.LinterResult) ([]byte, error) {
	return json.Marshal(result)
}

// DecodeResult reverses EncodeResult, surfacing a cached failure as an
// error rather than an empty result.
func DecodeResult(entry *models.CacheEntry) (*models.LinterResult, error) {
	if entry.Status == models.CacheFailure || entry.Status == models.CacheTimeout {
		return nil, models.NewAPIError(models.ErrLinterExecutionFailed, entry.ErrorMessage, nil)
	}
	var result models.LinterResult
	if err := json.Unmarshal(entry.Result, &result); err != nil {
		return nil, models.NewAPIError(models.ErrCache, "corrupt cache payload", err)
	}
	return &result, nil
}
