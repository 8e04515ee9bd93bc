//go:build integration

package mongo_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xraph/batchwatch/store"
	mongostore "github.com/xraph/batchwatch/store/mongo"
	"github.com/xraph/batchwatch/store/storetest"
)

// setupURI starts a MongoDB container and returns its connection URI.
func setupURI(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if termErr := container.Terminate(ctx); termErr != nil {
			t.Logf("terminate container: %v", termErr)
		}
	})

	endpoint, err := container.Endpoint(ctx, "mongodb")
	if err != nil {
		t.Fatalf("get endpoint: %v", err)
	}
	return endpoint
}

func TestConformance(t *testing.T) {
	uri := setupURI(t)
	var n atomic.Int64

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		s, err := mongostore.Open(ctx, uri, "batchwatch_test",
			mongostore.WithCollection(fmt.Sprintf("records_%d", n.Add(1))),
		)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := s.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return s
	})
}
