// This file is a helper for running tests against a real MariaDB in a
// container. It is used by the integration tests and by the devdb command.

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/sjafferali/meditrack/data"
	"github.com/sjafferali/meditrack/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mariadbImage        = "mariadb:11"
	mariadbRootPassword = "test-root"
	appDatabase         = "meditrack"
	appUser             = "meditrack"
	appPassword         = "meditrack"
)

// MariaDB is a running database container plus the coordinates to reach it.
type MariaDB struct {
	Container testcontainers.Container
	Host      string
	Port      nat.Port
}

// StartMariaDB creates a MariaDB container, waits for it and runs the
// embedded grants bootstrap. Pass a nil *testing.T to report errors by
// return instead of t.Fatalf.
func StartMariaDB(t *testing.T) (*MariaDB, error) {
	ctx := context.Background()

	tcpPort, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, failStart(t, err, "Failed to create DB port")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mariadbImage,
			Name:         "meditrack-test-" + uuid.New().String(),
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": mariadbRootPassword,
				"MARIADB_DATABASE":      appDatabase,
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, failStart(t, err, "Failed to start MariaDB")
	}

	m := &MariaDB{Container: container, Port: tcpPort}
	m.Host, _ = container.Host(ctx)
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		m.Terminate(t)
		return nil, failStart(t, err, "Failed to resolve mapped port")
	}
	m.Port = mapped

	if err := m.bootstrap(); err != nil {
		m.Terminate(t)
		return nil, failStart(t, err, "Failed to bootstrap MariaDB")
	}

	return m, nil
}

// Terminate stops and removes the container.
func (m *MariaDB) Terminate(t *testing.T) {
	if m == nil || m.Container == nil {
		return
	}
	if err := m.Container.Terminate(context.Background()); err != nil {
		if t != nil {
			t.Logf("Failed to terminate MariaDB: %v", err)
		}
	}
}

// Config returns application configuration pointing at the container.
func (m *MariaDB) Config() *config.Config {
	return &config.Config{
		Port:              "8000",
		Environment:       "test",
		DBType:            "mysql",
		DBHost:            m.Host,
		DBPort:            m.Port.Port(),
		DBDatabase:        appDatabase,
		DBUser:            appUser,
		DBPassword:        appPassword,
		DBConnectionLimit: 5,
	}
}

// bootstrap connects as root, waits for readiness and applies the embedded
// grants SQL.
func (m *MariaDB) bootstrap() error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", mariadbRootPassword, m.Host, m.Port.Port()))
	if err != nil {
		return err
	}
	defer db.Close()

	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
	}

	return executeSQL(db, data.InitdbMariaDBGrants)
}

// executeSQL runs a semicolon-separated statement batch, skipping comment
// lines.
func executeSQL(db *sql.DB, script string) error {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, trimmed)
	}

	for _, stmt := range strings.Split(strings.Join(kept, " "), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), stmt)
		}
	}
	return nil
}

func failStart(t *testing.T, err error, msg string) error {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
