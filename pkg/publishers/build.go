package publishers

import (
	"context"
	"fmt"
)

// Build constructs the sink one validated config entry declares.
func Build(ctx context.Context, cfg SinkConfig, log Logger) (Publisher, error) {
	switch cfg.Type {
	case TypeHTTP:
		return newHTTPPublisher(cfg, log)
	case TypeQueue:
		return newQueuePublisher(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("type %q not supported for publisher %q", cfg.Type, cfg.ID)
	}
}

// BuildAll constructs every sink, failing on the first broken entry so a
// misdeclared sink is noticed instead of silently skipped.
func BuildAll(ctx context.Context, cfgs []SinkConfig, log Logger) ([]Publisher, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log = ensureLogger(log)

	var pubs []Publisher
	for _, cfg := range cfgs {
		pub, err := Build(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
