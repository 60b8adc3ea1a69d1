package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

// ApplyOverrides replaces the catalog's additional-option pricing and
// payment milestones with the admin-edited rows stored in the
// database. Option keys absent from the database keep their loaded
// values; a missing payment_schedule singleton keeps the loaded
// milestones.
func ApplyOverrides(db *sql.DB, cat *Catalog) error {
	rows, err := db.Query(`
		SELECT key, name, price, requires_gas
		FROM additional_options
		WHERE active
	`)
	if err != nil {
		return fmt.Errorf("query additional options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var entry OptionEntry
		if err := rows.Scan(&key, &entry.Name, &entry.Price, &entry.RequiresGas); err != nil {
			return fmt.Errorf("scan additional option: %w", err)
		}
		cat.Options[key] = entry
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate additional options: %w", err)
	}

	var m PaymentMilestone
	err = db.QueryRow(`
		SELECT deposit_pct, shell_order_pct, excavation_pct, final_pct
		FROM payment_schedule
		WHERE id = 1
	`).Scan(&m.DepositPct, &m.ShellOrderPct, &m.ExcavationPct, &m.FinalPct)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("query payment schedule: %w", err)
	}
	cat.Milestones = m

	return nil
}
