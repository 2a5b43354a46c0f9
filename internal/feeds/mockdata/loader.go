// Package mockdata serves embedded odds snapshots so the scanner can run
// without live API access.
package mockdata

import (
	"context"
	"embed"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/oddscan/crossbook-arb/pkg/types"
)

//go:embed snapshots/*.json
var snapshots embed.FS

// Feed replays one platform's embedded snapshot, implementing feeds.Feed.
type Feed struct {
	platform types.Platform
	path     string
}

// NewFeed returns the embedded feed for the given platform.
func NewFeed(platform types.Platform) (*Feed, error) {
	path := fmt.Sprintf("snapshots/%s.json", platform)
	if _, err := snapshots.Open(path); err != nil {
		return nil, fmt.Errorf("no embedded snapshot for platform %q: %w", platform, err)
	}
	return &Feed{platform: platform, path: path}, nil
}

func (f *Feed) Platform() types.Platform {
	return f.platform
}

func (f *Feed) Fetch(_ context.Context) ([]types.OutcomeRecord, error) {
	raw, err := snapshots.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read embedded snapshot: %w", err)
	}
	var records []types.OutcomeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode embedded snapshot: %w", err)
	}
	return records, nil
}
