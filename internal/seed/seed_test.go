package seed

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/ingroundpooldesign/bidbuilder/internal/db"
	"github.com/ingroundpooldesign/bidbuilder/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{
		AdminEmail:    "admin@ingroundpooldesign.com",
		AdminPassword: "12345",
	}

	for i := 0; i < 10; i++ {
		stats, err := Run(database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 9 {
				t.Fatalf("expected 9 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM users WHERE email = ?`, "admin@ingroundpooldesign.com", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM additional_options`, nil, 7)
	assertCount(t, database, `SELECT COUNT(*) FROM additional_options WHERE key = ? AND requires_gas`, "gasPropaneHeater", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM payment_schedule WHERE id = 1`, nil, 1)

	var hash string
	if err := database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, "admin@ingroundpooldesign.com").Scan(&hash); err != nil {
		t.Fatalf("query admin hash: %v", err)
	}
	sum := sha256.Sum256([]byte("12345"))
	if hash != hex.EncodeToString(sum[:]) {
		t.Fatalf("expected admin hash to match password")
	}
}

func TestRunPreservesAdminEdits(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-edits.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{AdminEmail: "admin@ingroundpooldesign.com", AdminPassword: "12345"}
	if _, err := Run(database, cfg); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	if _, err := database.Exec(`UPDATE additional_options SET price = 9100 WHERE key = 'spa'`); err != nil {
		t.Fatalf("edit spa price: %v", err)
	}
	if _, err := database.Exec(`UPDATE payment_schedule SET deposit_pct = 15 WHERE id = 1`); err != nil {
		t.Fatalf("edit schedule: %v", err)
	}

	if _, err := Run(database, cfg); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var price int
	if err := database.QueryRow(`SELECT price FROM additional_options WHERE key = 'spa'`).Scan(&price); err != nil {
		t.Fatalf("query spa price: %v", err)
	}
	if price != 9100 {
		t.Fatalf("seed overwrote the edited spa price, got %d", price)
	}

	var deposit float64
	if err := database.QueryRow(`SELECT deposit_pct FROM payment_schedule WHERE id = 1`).Scan(&deposit); err != nil {
		t.Fatalf("query deposit pct: %v", err)
	}
	if deposit != 15 {
		t.Fatalf("seed overwrote the edited deposit pct, got %v", deposit)
	}
}

func TestRunSkipsAdminWithoutCredentials(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-nocreds.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	stats, err := Run(database, Config{})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 8 {
		t.Fatalf("expected 8 inserts without an admin, got %d", stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM users`, nil, 0)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
