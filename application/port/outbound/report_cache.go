package outbound

import (
	"context"
	"time"
)

// ReportCache stores rendered report payloads keyed by view and date range.
// A miss is (nil, false, nil); cache failures must not fail the request.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
