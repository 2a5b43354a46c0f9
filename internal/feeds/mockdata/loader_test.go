package mockdata

import (
	"context"
	"testing"

	"github.com/oddscan/crossbook-arb/pkg/types"
)

func TestNewFeedUnknownPlatform(t *testing.T) {
	if _, err := NewFeed(types.Platform("betfair")); err == nil {
		t.Fatal("expected error for a platform without a snapshot")
	}
}

func TestFetchEmbeddedSnapshots(t *testing.T) {
	for _, platform := range []types.Platform{types.PlatformPolymarket, types.PlatformCloudbet} {
		t.Run(string(platform), func(t *testing.T) {
			feed, err := NewFeed(platform)
			if err != nil {
				t.Fatalf("NewFeed: %v", err)
			}
			if feed.Platform() != platform {
				t.Errorf("platform = %s", feed.Platform())
			}

			records, err := feed.Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if len(records) == 0 {
				t.Fatal("embedded snapshot must not be empty")
			}
			for _, rec := range records {
				if rec.Platform != platform {
					t.Errorf("record platform %s in %s snapshot", rec.Platform, platform)
				}
				if err := rec.Validate(); err != nil {
					t.Errorf("embedded record invalid: %v", err)
				}
			}

			if listings := types.GroupListings(records); len(listings) == 0 {
				t.Error("snapshot must group into listings")
			}
		})
	}
}
