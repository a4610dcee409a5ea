package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urbanshop/urbanshop-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE orders",
		"status                  TEXT NOT NULL DEFAULT 'pending'",
		"REFERENCES orders (id) ON DELETE CASCADE",
		"mirror_synced           BOOLEAN NOT NULL DEFAULT FALSE",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMirrorMigrationKeyedByOrderID(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_user_order_mirrors.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no mirror migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "CREATE UNIQUE INDEX idx_user_order_mirrors_order_id") {
		t.Errorf("mirror table must enforce one row per order")
	}
}
