//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/internal/store/storetest"
)

func TestIntegration_PostgresStore(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		s, err := store.NewPostgresStore(ctx, dbURL)
		if err != nil {
			t.Fatalf("failed to connect: %v", err)
		}
		t.Cleanup(s.Close)
		if err := s.Truncate(ctx); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return s
	})
}
