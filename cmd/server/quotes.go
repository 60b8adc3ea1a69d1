package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ingroundpooldesign/bidbuilder/internal/bidsheet"
	"github.com/ingroundpooldesign/bidbuilder/internal/pricing"
	"github.com/ingroundpooldesign/bidbuilder/internal/quote"
	"github.com/ingroundpooldesign/bidbuilder/internal/risk"
)

// quoteSnapshot is the flattened computed state stored alongside the
// configuration when a bid is saved. Reads render from the snapshot
// and never recalculate.
type quoteSnapshot struct {
	Pricing  pricing.Result          `json:"pricing"`
	Schedule pricing.PaymentSchedule `json:"schedule"`
	Risk     risk.Assessment         `json:"risk"`
	Warnings []string                `json:"warnings"`
}

type quoteListItem struct {
	ID         int64
	Reference  string
	CreatedAt  string
	ClientName string
	Overall    string
	Total      int
}

type quotesViewData struct {
	baseViewData
	Query  string
	Quotes []quoteListItem
}

type quoteDetail struct {
	ID        int64
	Reference string
	CreatedAt string
	Config    quote.Config
	Snapshot  quoteSnapshot
}

type quoteDetailViewData struct {
	baseViewData
	Quote quoteDetail
	Total string
}

func (s *server) handleQuoteSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	offline := s.offline
	cfg := s.builder.Config()
	snapshot := quoteSnapshot{
		Pricing:  s.builder.Pricing(),
		Schedule: s.builder.Schedule(),
		Risk:     s.builder.Risk(),
		Warnings: s.builder.Warnings(),
	}
	s.mu.Unlock()

	if offline {
		http.Redirect(w, r, "/builder/5?error=Session+is+offline+-+saving+quotes+is+disabled", http.StatusSeeOther)
		return
	}
	if snapshot.Pricing.TotalPoolCost == 0 {
		http.Redirect(w, r, "/builder/5?error=Complete+the+pool+configuration+before+saving", http.StatusSeeOther)
		return
	}

	reference, err := s.insertQuote(cfg, snapshot)
	if err != nil {
		http.Error(w, "failed to save quote", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/quotes?success=Saved+bid+"+reference, http.StatusSeeOther)
}

func (s *server) insertQuote(cfg quote.Config, snapshot quoteSnapshot) (string, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal quote config: %w", err)
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal quote snapshot: %w", err)
	}

	reference := uuid.NewString()[:8]

	_, err = s.db.Exec(`
		INSERT INTO quotes (
			reference, created_at, client_name, client_address, client_phone,
			agent_name, selected_option, config_json, pricing_json,
			risk_overall, total_pool_cost, total_project_cost, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		reference,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
		cfg.ClientName,
		cfg.ClientAddress,
		cfg.ClientPhone,
		cfg.AgentName,
		cfg.Selected,
		string(configJSON),
		string(snapshotJSON),
		string(snapshot.Risk.Overall),
		snapshot.Pricing.TotalPoolCost,
		snapshot.Pricing.TotalProjectCost,
		cfg.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("insert quote: %w", err)
	}

	return reference, nil
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.listQuotes(query)
	if err != nil {
		http.Error(w, "failed to load quotes", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quotes.html", quotesViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Query:  query,
		Quotes: quotes,
	})
}

func (s *server) listQuotes(query string) ([]quoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			reference,
			created_at,
			COALESCE(client_name, ''),
			risk_overall,
			total_pool_cost
		FROM quotes
		WHERE (? = '' OR COALESCE(client_name, '') LIKE ? OR COALESCE(notes, '') LIKE ? OR reference LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := make([]quoteListItem, 0)
	for rows.Next() {
		var item quoteListItem
		if err := rows.Scan(&item.ID, &item.Reference, &item.CreatedAt, &item.ClientName, &item.Overall, &item.Total); err != nil {
			return nil, err
		}
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return quotes, nil
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return
	}

	detail, err := s.getQuoteDetail(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load quote", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quote_detail.html", quoteDetailViewData{
		Quote: detail,
		Total: bidsheet.FormatMoney(detail.Snapshot.Pricing.TotalPoolCost),
	})
}

// getQuoteDetail loads a saved bid from its stored snapshot without
// recalculating anything.
func (s *server) getQuoteDetail(id int64) (quoteDetail, error) {
	var detail quoteDetail
	var configJSON, snapshotJSON string

	err := s.db.QueryRow(`
		SELECT id, reference, created_at, config_json, pricing_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&detail.ID, &detail.Reference, &detail.CreatedAt, &configJSON, &snapshotJSON)
	if err != nil {
		return quoteDetail{}, err
	}

	if err := json.Unmarshal([]byte(configJSON), &detail.Config); err != nil {
		return quoteDetail{}, fmt.Errorf("unmarshal quote config: %w", err)
	}
	if err := json.Unmarshal([]byte(snapshotJSON), &detail.Snapshot); err != nil {
		return quoteDetail{}, fmt.Errorf("unmarshal quote snapshot: %w", err)
	}

	return detail, nil
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return
	}

	detail, err := s.getQuoteDetail(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load quote", http.StatusInternalServerError)
		return
	}

	bidDate, err := time.Parse("2006-01-02 15:04:05", detail.CreatedAt)
	if err != nil {
		bidDate = time.Now()
	}

	// Render resolves display names against the shared catalog, which
	// admin edits mutate under the lock.
	s.mu.Lock()
	text := bidsheet.Render(bidsheet.Data{
		Config:     detail.Config,
		Pricing:    detail.Snapshot.Pricing,
		Schedule:   detail.Snapshot.Schedule,
		Assessment: detail.Snapshot.Risk,
		Warnings:   detail.Snapshot.Warnings,
		BidDate:    bidDate,
	}, s.cat)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}
