//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/store"
	"github.com/xraph/batchwatch/store/postgres"
	"github.com/xraph/batchwatch/store/storetest"
)

// setupConnString creates a Postgres container and returns its DSN.
func setupConnString(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("batchwatch_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if termErr := container.Terminate(ctx); termErr != nil {
			t.Logf("terminate container: %v", termErr)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}
	return connStr
}

func TestConformance(t *testing.T) {
	connStr := setupConnString(t)
	var n atomic.Int64

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		s, err := postgres.New(ctx, connStr,
			postgres.WithLogger(slog.Default()),
			postgres.WithTable(fmt.Sprintf("records_%d", n.Add(1))),
		)
		if err != nil {
			t.Fatalf("new store: %v", err)
		}
		if err := s.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return s
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := postgres.New(ctx, setupConnString(t))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i := range 2 {
		if err := s.Migrate(ctx); err != nil {
			t.Fatalf("migrate pass %d: %v", i, err)
		}
	}
}

func TestMissingTableIsSchemaError(t *testing.T) {
	ctx := context.Background()
	s, err := postgres.New(ctx, setupConnString(t), postgres.WithTable("never_migrated"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.ScanPage(ctx, "", 10); !errors.Is(err, batchwatch.ErrSchema) {
		t.Fatalf("ScanPage error = %v, want ErrSchema", err)
	}
	if _, err := s.GetRecord(ctx, "x"); !errors.Is(err, batchwatch.ErrSchema) {
		t.Fatalf("GetRecord error = %v, want ErrSchema", err)
	}
}
