package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	FusekiImage   = "stain/jena-fuseki:4.8.0"
	fusekiPort    = "3030/tcp"
	fusekiDataset = "qado"
)

// FusekiContainer is a running Apache Jena Fuseki server with one updatable dataset.
type FusekiContainer struct {
	Container testcontainers.Container
	Address   string
}

func (c *FusekiContainer) QueryURL() string {
	return c.Address + "/" + fusekiDataset + "/query"
}

func (c *FusekiContainer) UpdateURL() string {
	return c.Address + "/" + fusekiDataset + "/update"
}

// NewFusekiContainer starts Fuseki and registers its termination with tb.
func NewFusekiContainer(ctx context.Context, tb testing.TB) *FusekiContainer {
	tb.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        FusekiImage,
			ExposedPorts: []string{fusekiPort},
			Env: map[string]string{
				"ADMIN_PASSWORD":   "admin",
				"FUSEKI_DATASET_1": fusekiDataset,
			},
			WaitingFor: wait.ForHTTP("/$/ping").
				WithPort(fusekiPort).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		tb.Fatalf("failed to start fuseki container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("failed to terminate fuseki container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		tb.Fatalf("failed to get fuseki host: %v", err)
	}

	port, err := container.MappedPort(ctx, fusekiPort)
	if err != nil {
		tb.Fatalf("failed to get fuseki port: %v", err)
	}

	return &FusekiContainer{
		Container: container,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
}
