package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
)

type adminOption struct {
	Key         string
	Name        string
	Price       int
	RequiresGas bool
	Active      bool
}

type adminOptionsViewData struct {
	baseViewData
	Options []adminOption
}

type adminScheduleViewData struct {
	baseViewData
	Milestones catalog.PaymentMilestone
}

func (s *server) handleAdminOptionsForm(w http.ResponseWriter, r *http.Request) {
	options, err := s.listAdminOptions()
	if err != nil {
		http.Error(w, "failed to load additional options", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_options.html", adminOptionsViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Options: options,
	})
}

func (s *server) handleAdminOptionUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		http.Error(w, "invalid option key", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	price, err := parseNonNegativeInt(r.FormValue("price"), "price")
	if err != nil {
		http.Redirect(w, r, "/admin/options?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	requiresGas := r.FormValue("requires_gas") == "1"
	active := r.FormValue("active") == "1"

	result, err := s.db.Exec(`
		UPDATE additional_options
		SET
			price = ?,
			requires_gas = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE key = ?
	`, price, requiresGas, active, key)
	if err != nil {
		http.Error(w, "failed to update option", http.StatusInternalServerError)
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		http.Error(w, "failed to update option", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.NotFound(w, r)
		return
	}

	if err := s.refreshCatalogOverrides(); err != nil {
		http.Error(w, "failed to refresh catalog", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/options?success=Option+updated", http.StatusSeeOther)
}

func (s *server) handleAdminScheduleForm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	milestones := s.cat.Milestones
	s.mu.Unlock()

	s.renderTemplate(w, "admin_schedule.html", adminScheduleViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Milestones: milestones,
	})
}

func (s *server) handleAdminScheduleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	m, err := parseScheduleForm(r)
	if err != nil {
		http.Redirect(w, r, "/admin/schedule?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	_, err = s.db.Exec(`
		UPDATE payment_schedule
		SET
			deposit_pct = ?,
			shell_order_pct = ?,
			excavation_pct = ?,
			final_pct = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, m.DepositPct, m.ShellOrderPct, m.ExcavationPct, m.FinalPct)
	if err != nil {
		http.Error(w, "failed to save payment schedule", http.StatusInternalServerError)
		return
	}

	if err := s.refreshCatalogOverrides(); err != nil {
		http.Error(w, "failed to refresh catalog", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/schedule?success=Payment+schedule+saved", http.StatusSeeOther)
}

func (s *server) listAdminOptions() ([]adminOption, error) {
	rows, err := s.db.Query(`
		SELECT key, name, price, requires_gas, active
		FROM additional_options
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query additional options: %w", err)
	}
	defer rows.Close()

	options := make([]adminOption, 0)
	for rows.Next() {
		var opt adminOption
		if err := rows.Scan(&opt.Key, &opt.Name, &opt.Price, &opt.RequiresGas, &opt.Active); err != nil {
			return nil, fmt.Errorf("scan additional option: %w", err)
		}
		options = append(options, opt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate additional options: %w", err)
	}

	return options, nil
}

// refreshCatalogOverrides re-applies the database overrides to the
// session catalog and recomputes the live quote so admin edits take
// effect without a restart.
func (s *server) refreshCatalogOverrides() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := catalog.ApplyOverrides(s.db, s.cat); err != nil {
		return err
	}
	s.builder.Recalculate()
	return nil
}

func parseScheduleForm(r *http.Request) (catalog.PaymentMilestone, error) {
	var m catalog.PaymentMilestone

	var err error
	if m.DepositPct, err = parsePercent(r.FormValue("deposit_pct"), "deposit_pct"); err != nil {
		return m, err
	}
	if m.ShellOrderPct, err = parsePercent(r.FormValue("shell_order_pct"), "shell_order_pct"); err != nil {
		return m, err
	}
	if m.ExcavationPct, err = parsePercent(r.FormValue("excavation_pct"), "excavation_pct"); err != nil {
		return m, err
	}
	if m.FinalPct, err = parsePercent(r.FormValue("final_pct"), "final_pct"); err != nil {
		return m, err
	}

	return m, nil
}

func parseNonNegativeInt(raw, field string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be zero or greater", field)
	}
	return value, nil
}

func parsePercent(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	if value < 0 || value > 100 {
		return 0, fmt.Errorf("%s must be between 0 and 100", field)
	}
	return value, nil
}
