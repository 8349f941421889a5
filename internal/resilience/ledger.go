package resilience

import (
	"time"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// NewFailedBatch builds a ledger entry for an extraction batch that
// exhausted its retries or hit a permanent error. The entry keeps the
// document ids so a later run can target just the missed documents.
func NewFailedBatch(batch int, documentIDs []string, attempts int, err error) model.FailedBatch {
	return model.FailedBatch{
		Batch:       batch,
		DocumentIDs: documentIDs,
		Error:       err.Error(),
		ErrorType:   ClassifyError(err),
		Attempts:    attempts,
		FailedAt:    time.Now().UTC(),
	}
}
