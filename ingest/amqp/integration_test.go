//go:build integration

package amqpingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/ingest"
	amqpingest "github.com/xraph/batchwatch/ingest/amqp"
	"github.com/xraph/batchwatch/store/memory"
)

func setupBroker(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start rabbitmq container: %v", err)
	}
	t.Cleanup(func() {
		if termErr := container.Terminate(ctx); termErr != nil {
			t.Logf("terminate container: %v", termErr)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "5672/tcp", "amqp")
	if err != nil {
		t.Fatalf("get endpoint: %v", err)
	}
	return endpoint
}

func TestConsumer_StoresPublishedEvents(t *testing.T) {
	url := setupBroker(t)
	st := memory.New()
	const queue = "batchwatch.events.test"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := amqpingest.New(url, queue, ingest.New(st))
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	conn, err := amqp.Dial(url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("channel: %v", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		t.Fatalf("declare: %v", err)
	}

	for _, body := range []string{
		`{"detail":{"jobId":"j1","status":"RUNNING"}}`,
		`not json`,
		`{"detail":{"jobId":"j1","status":"SUCCEEDED"}}`,
	} {
		err := ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
			ContentType: "application/json",
			Body:        []byte(body),
		})
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	deadline := time.Now().Add(20 * time.Second)
	for {
		r, err := st.GetRecord(ctx, "j1")
		if err == nil && r.Status == "SUCCEEDED" {
			break
		}
		if err != nil && !errors.Is(err, batchwatch.ErrRecordNotFound) {
			t.Fatalf("GetRecord: %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatalf("record not updated in time (last: %v, %v)", r, err)
		}
		time.Sleep(100 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run = %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d, want 1", st.Len())
	}
}
