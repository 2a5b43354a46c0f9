// Package feeds defines the market-snapshot source abstraction shared by the
// platform clients.
package feeds

import (
	"context"

	"github.com/oddscan/crossbook-arb/pkg/types"
)

// Feed supplies one platform's current odds snapshot. Implementations are
// polling clients: each Fetch returns the full set of priced outcomes visible
// at that moment.
type Feed interface {
	Platform() types.Platform
	Fetch(ctx context.Context) ([]types.OutcomeRecord, error)
}
