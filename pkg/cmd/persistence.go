package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/nodeflow/nodeflow/pkg/persistence"
	"github.com/nodeflow/nodeflow/pkg/persistence/file"
	"github.com/nodeflow/nodeflow/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "redis"}

// NewPersistence creates a persistence backend from a database URL. URLs
// without a recognized scheme fall back to file-based persistence.
func NewPersistence(ctx context.Context, databaseURL string) persistence.Persistence {
	provider := parsePersistenceProvider(databaseURL)

	switch provider {
	case "redis":
		p, err := redis.NewPersistence(ctx, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create redis persistence: %w", err))
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
