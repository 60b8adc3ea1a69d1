package seed

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way: the admin user,
// the seven additional-option rows, and the payment-schedule
// singleton, all taken from the bundled catalog defaults. Rows that
// already exist are left untouched so admin edits survive restarts.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	defaults := catalog.Static()

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureOptions(tx, defaults, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensurePaymentSchedule(tx, defaults.Milestones, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, hashPassword(password)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// hashPassword must stay in sync with the auth service's hashing.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func ensureOptions(tx *sql.Tx, defaults *catalog.Catalog, stats *Stats) error {
	for _, key := range catalog.OptionKeys {
		entry, ok := defaults.Option(key)
		if !ok {
			continue
		}

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM additional_options WHERE key = ? LIMIT 1)`, key).Scan(&exists); err != nil {
			return fmt.Errorf("check option %s existence: %w", key, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO additional_options (key, name, price, requires_gas, active)
			VALUES (?, ?, ?, ?, TRUE)
		`, key, entry.Name, entry.Price, entry.RequiresGas); err != nil {
			return fmt.Errorf("insert option %s: %w", key, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensurePaymentSchedule(tx *sql.Tx, m catalog.PaymentMilestone, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM payment_schedule WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check payment schedule existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO payment_schedule (id, deposit_pct, shell_order_pct, excavation_pct, final_pct)
		VALUES (1, ?, ?, ?, ?)
	`, m.DepositPct, m.ShellOrderPct, m.ExcavationPct, m.FinalPct); err != nil {
		return fmt.Errorf("insert payment schedule singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
