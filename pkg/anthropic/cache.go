package anthropic

import (
	"context"

	"github.com/rotisserie/eris"
)

// cacheTTL keeps the shared extraction prefix cached across a whole run,
// including the long tail of a large message batch.
const cacheTTL = "1h"

// BuildCachedSystemBlocks wraps the shared system prefix, extraction
// instructions plus the gap context, in a single cache-eligible block. Every
// request of a run carries the identical block, so all of them after the
// first read the prefix from the cache.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	return []SystemBlock{{
		Text:         text,
		CacheControl: &CacheControl{TTL: cacheTTL},
	}}
}

// PrimerRequest issues one cheap message carrying the cached system blocks,
// so that a batch submitted right after finds the prefix already written.
// The reply text is disposable; the response matters only for its usage
// accounting.
func PrimerRequest(ctx context.Context, client Client, req MessageRequest) (*MessageResponse, error) {
	resp, err := client.CreateMessage(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: primer request")
	}
	return resp, nil
}
