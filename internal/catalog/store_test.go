package catalog

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newOverridesTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE additional_options (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			price INTEGER NOT NULL,
			requires_gas BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE TABLE payment_schedule (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			deposit_pct REAL NOT NULL,
			shell_order_pct REAL NOT NULL,
			excavation_pct REAL NOT NULL,
			final_pct REAL NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("failed creating override tables: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestApplyOverrides_ReplacesStoredOptions(t *testing.T) {
	db := newOverridesTestDB(t)

	_, err := db.Exec(`
		INSERT INTO additional_options (key, name, price, requires_gas, active)
		VALUES
			('spa', 'Spa', 9999, FALSE, TRUE),
			('saltSystem', 'Salt System', 1500, FALSE, FALSE)
	`)
	if err != nil {
		t.Fatalf("seed options: %v", err)
	}

	cat := Static()
	if err := ApplyOverrides(db, cat); err != nil {
		t.Fatalf("apply overrides: %v", err)
	}

	spa, _ := cat.Option("spa")
	if spa.Price != 9999 {
		t.Fatalf("spa price = %d, want the stored override 9999", spa.Price)
	}

	// Inactive rows are skipped, so the bundled default survives.
	salt, _ := cat.Option("saltSystem")
	if salt.Price != 1200 {
		t.Fatalf("saltSystem price = %d, want the bundled 1200", salt.Price)
	}

	// Keys absent from the database keep their loaded values.
	heater, _ := cat.Option("gasPropaneHeater")
	if heater.Price != 3200 || !heater.RequiresGas {
		t.Fatalf("gasPropaneHeater changed unexpectedly: %+v", heater)
	}
}

func TestApplyOverrides_ReplacesPaymentSchedule(t *testing.T) {
	db := newOverridesTestDB(t)

	_, err := db.Exec(`
		INSERT INTO payment_schedule (id, deposit_pct, shell_order_pct, excavation_pct, final_pct)
		VALUES (1, 20, 30, 30, 20)
	`)
	if err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	cat := Static()
	if err := ApplyOverrides(db, cat); err != nil {
		t.Fatalf("apply overrides: %v", err)
	}

	want := PaymentMilestone{DepositPct: 20, ShellOrderPct: 30, ExcavationPct: 30, FinalPct: 20}
	if cat.Milestones != want {
		t.Fatalf("milestones = %+v, want %+v", cat.Milestones, want)
	}
}

func TestApplyOverrides_MissingScheduleKeepsLoadedMilestones(t *testing.T) {
	db := newOverridesTestDB(t)

	cat := Static()
	if err := ApplyOverrides(db, cat); err != nil {
		t.Fatalf("apply overrides: %v", err)
	}

	if cat.Milestones.DepositPct != 10 || cat.Milestones.ShellOrderPct != 40 {
		t.Fatalf("expected the bundled milestones, got %+v", cat.Milestones)
	}
}
