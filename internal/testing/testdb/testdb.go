package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/migrations"
)

const (
	defaultImage = "surrealdb/surrealdb:v2.2.1"
	rootUser     = "root"
	rootPass     = "root"
)

// TestDB is one isolated namespace with the schema applied
type TestDB struct {
	DB        database.Database
	Namespace string
	Database  string
}

var (
	serverOnce sync.Once
	serverCfg  database.Config
	serverErr  error
	container  testcontainers.Container

	counterMu sync.Mutex
	counter   int64
)

// Main runs the package's tests and terminates the container afterwards
func Main(m *testing.M) int {
	code := m.Run()
	if container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = container.Terminate(ctx)
	}
	return code
}

// server returns the connection settings for the shared SurrealDB instance
func server() (database.Config, error) {
	serverOnce.Do(func() {
		if host := os.Getenv("TEST_DB_HOST"); host != "" {
			serverCfg = database.Config{
				Host:     host,
				Port:     getEnv("TEST_DB_PORT", "8000"),
				User:     getEnv("TEST_DB_USER", rootUser),
				Password: getEnv("TEST_DB_PASSWORD", rootPass),
			}
			return
		}
		serverCfg, serverErr = startContainer()
	})
	return serverCfg, serverErr
}

func startContainer() (database.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnv("TEST_SURREALDB_IMAGE", defaultImage),
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", rootUser, "--pass", rootPass, "memory"},
			WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return database.Config{}, fmt.Errorf("starting surrealdb container: %w", err)
	}
	container = c

	host, err := c.Host(ctx)
	if err != nil {
		return database.Config{}, fmt.Errorf("container host: %w", err)
	}
	port, err := c.MappedPort(ctx, "8000/tcp")
	if err != nil {
		return database.Config{}, fmt.Errorf("container port: %w", err)
	}

	return database.Config{
		Host:     host,
		Port:     port.Port(),
		User:     rootUser,
		Password: rootPass,
	}, nil
}

func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// New creates a fresh namespace with migrations applied. The namespace is
// removed when the test ends.
func New(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("testdb: skipping integration test in short mode")
	}

	cfg, err := server()
	if err != nil {
		t.Skipf("testdb: no database available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	tdb := &TestDB{DB: db, Namespace: cfg.Namespace, Database: cfg.Database}
	t.Cleanup(tdb.Close)

	if err := migrations.Apply(ctx, db); err != nil {
		t.Fatalf("testdb: %v", err)
	}
	return tdb
}

// Close removes the namespace and closes the connection
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE IF EXISTS %s", tdb.Namespace), nil)
	_ = tdb.DB.Close()
	tdb.DB = nil
}

// Ctx returns a context bounded by the test's lifetime
func (tdb *TestDB) Ctx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
