package main

import (
	"context"
	"database/sql"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ingroundpooldesign/bidbuilder/internal/bidsheet"
	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
	"github.com/ingroundpooldesign/bidbuilder/internal/config"
	"github.com/ingroundpooldesign/bidbuilder/internal/db"
	"github.com/ingroundpooldesign/bidbuilder/internal/migrations"
	"github.com/ingroundpooldesign/bidbuilder/internal/pricing"
	"github.com/ingroundpooldesign/bidbuilder/internal/quote"
	"github.com/ingroundpooldesign/bidbuilder/internal/risk"
	"github.com/ingroundpooldesign/bidbuilder/internal/seed"
)

type server struct {
	auth *authService
	db   *sql.DB

	mu      sync.Mutex
	cat     *catalog.Catalog
	builder *quote.Builder
	offline bool
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type loginViewData struct {
	baseViewData
}

type selectItem struct {
	Key   string
	Label string
}

type factorGroup struct {
	Key   string
	Label string
	Items []selectItem
}

type optionRow struct {
	Key      string
	Name     string
	Included bool
	Price    int
	Gas      bool
}

type builderViewData struct {
	baseViewData
	Step    int
	Offline bool

	Config   quote.Config
	Shapes   []selectItem
	Sizes    []selectItem
	Depths   []selectItem
	Factors  []factorGroup
	Options  []optionRow
	Pricing  pricing.Result
	Schedule pricing.PaymentSchedule
	Risk     risk.Assessment
	Warnings []string

	TotalPoolCost    string
	TotalProjectCost string
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatalf("failed to run startup seed: %v", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seeded %d rows", stats.Inserts)
	}

	cat, offline := loadCatalog(cfg)
	if err := catalog.ApplyOverrides(database, cat); err != nil {
		log.Fatalf("failed to apply catalog overrides: %v", err)
	}

	srv := &server{
		auth:    newAuthService(database, cfg.SessionSecret),
		db:      database,
		cat:     cat,
		builder: quote.NewBuilder(cat),
		offline: offline,
	}

	r := chi.NewRouter()
	r.Use(srv.authMiddleware)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.Get("/", srv.handleHome)
	r.Get("/login", srv.handleLoginForm)
	r.Post("/login", srv.handleLoginSubmit)
	r.Post("/logout", srv.handleLogout)
	r.Get("/builder/{step}", srv.handleBuilderStep)
	r.Post("/builder/site", srv.handleSiteSubmit)
	r.Post("/builder/contact", srv.handleContactSubmit)
	r.Post("/builder/pool", srv.handlePoolSubmit)
	r.Post("/builder/options", srv.handleOptionsSubmit)
	r.Get("/bidsheet", srv.handleBidSheet)
	r.Get("/bidsheet/text", srv.handleBidSheetText)
	r.Post("/quotes", srv.handleQuoteSave)
	r.Get("/quotes", srv.handleQuotesList)
	r.Get("/quotes/{id}", srv.handleQuoteDetail)
	r.Get("/quotes/{id}/text", srv.handleQuoteText)
	r.Get("/admin/options", srv.handleAdminOptionsForm)
	r.Post("/admin/options/{key}", srv.handleAdminOptionUpdate)
	r.Get("/admin/schedule", srv.handleAdminScheduleForm)
	r.Post("/admin/schedule", srv.handleAdminScheduleSubmit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// loadCatalog fetches the remote catalog when one is configured,
// falling back to the bundled catalog and marking the session offline
// on failure. Without a configured remote, the bundled catalog is
// authoritative and the session stays online.
func loadCatalog(cfg config.Config) (*catalog.Catalog, bool) {
	if cfg.CatalogURL == "" {
		log.Print("no CATALOG_URL configured, using bundled catalog")
		return catalog.Static(), false
	}

	loader := catalog.NewLoader(catalog.LoaderOptions{
		BaseURL:      cfg.CatalogURL,
		MaxAttempts:  cfg.CatalogMaxAttempts,
		RequestDelay: cfg.CatalogRequestDelay,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cat, err := loader.Load(ctx)
	if err != nil {
		log.Printf("remote catalog unavailable, running offline with bundled catalog: %v", err)
		return catalog.Static(), true
	}

	log.Print("loaded remote catalog")
	return cat, false
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/builder/1", http.StatusSeeOther)
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(email, password)
	if err != nil {
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Invalid email or password. Try again."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) handleBuilderStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil || step < 1 || step > 5 {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	data := s.builderViewData(step, r)
	s.mu.Unlock()

	s.renderTemplate(w, "builder.html", data)
}

func (s *server) handleSiteSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	for _, factor := range catalog.SiteFactors {
		s.builder.SetSiteFactor(factor, r.FormValue(factor))
	}
	s.logCatalogMisses()
	s.mu.Unlock()

	http.Redirect(w, r, "/builder/1", http.StatusSeeOther)
}

func (s *server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.builder.SetClientInfo(
		r.FormValue("client_name"),
		r.FormValue("client_address"),
		r.FormValue("client_phone"),
	)
	s.builder.SetAgentInfo(
		r.FormValue("agent_name"),
		r.FormValue("agent_title"),
		r.FormValue("agent_cell"),
		r.FormValue("agent_email"),
	)
	for i := 0; i < 3; i++ {
		s.builder.SetReference(i, r.FormValue("reference_"+strconv.Itoa(i+1)))
	}
	s.builder.SetNotes(r.FormValue("notes"))
	s.mu.Unlock()

	http.Redirect(w, r, "/builder/2", http.StatusSeeOther)
}

func (s *server) handlePoolSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	for _, option := range []string{"A", "B"} {
		suffix := "_" + strings.ToLower(option)
		s.builder.SetPoolShape(option, r.FormValue("shape"+suffix))
		s.builder.SetPoolSize(option, r.FormValue("size"+suffix))
		s.builder.SetPoolDepth(option, r.FormValue("depth"+suffix))
	}
	s.builder.SelectOption(r.FormValue("selected_option"))
	s.logCatalogMisses()
	s.mu.Unlock()

	http.Redirect(w, r, "/builder/3", http.StatusSeeOther)
}

func (s *server) handleOptionsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	for _, key := range catalog.OptionKeys {
		included := r.FormValue("included_"+key) == "1"
		s.builder.SetOption(key, included, r.FormValue("price_"+key))
	}
	for i := 0; i < 5; i++ {
		slot := strconv.Itoa(i + 1)
		s.builder.SetCustomItem(i, r.FormValue("custom_desc_"+slot), r.FormValue("custom_price_"+slot))
	}
	s.builder.SetPatioWork(r.FormValue("patio_work"))
	s.mu.Unlock()

	http.Redirect(w, r, "/builder/4", http.StatusSeeOther)
}

func (s *server) handleBidSheet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := s.builderViewData(5, r)
	s.mu.Unlock()

	s.renderTemplate(w, "bidsheet.html", data)
}

func (s *server) handleBidSheetText(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	text := bidsheet.Render(bidsheet.Data{
		Config:     s.builder.Config(),
		Pricing:    s.builder.Pricing(),
		Schedule:   s.builder.Schedule(),
		Assessment: s.builder.Risk(),
		Warnings:   s.builder.Warnings(),
		BidDate:    time.Now(),
	}, s.cat)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

// builderViewData snapshots the session for rendering. Callers must
// hold s.mu.
func (s *server) builderViewData(step int, r *http.Request) builderViewData {
	cfg := s.builder.Config()
	res := s.builder.Pricing()

	options := make([]optionRow, 0, len(catalog.OptionKeys))
	for _, key := range catalog.OptionKeys {
		state := cfg.Options[key]
		row := optionRow{Key: key, Name: key, Included: state.Included, Price: state.Price}
		if entry, ok := s.cat.Option(key); ok {
			row.Name = entry.Name
			row.Gas = entry.RequiresGas
		}
		options = append(options, row)
	}

	factors := make([]factorGroup, 0, len(catalog.SiteFactors))
	for _, factor := range catalog.SiteFactors {
		factors = append(factors, factorGroup{
			Key:   factor,
			Label: catalog.FactorLabel(factor),
			Items: conditionItems(s.cat.RiskFactors[factor]),
		})
	}

	return builderViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Step:             step,
		Offline:          s.offline,
		Config:           cfg,
		Shapes:           shapeItems(s.cat.Shapes),
		Sizes:            sizeItems(s.cat.Sizes),
		Depths:           depthItems(s.cat.Depths),
		Factors:          factors,
		Options:          options,
		Pricing:          res,
		Schedule:         s.builder.Schedule(),
		Risk:             s.builder.Risk(),
		Warnings:         s.builder.Warnings(),
		TotalPoolCost:    bidsheet.FormatMoney(res.TotalPoolCost),
		TotalProjectCost: bidsheet.FormatMoney(res.TotalProjectCost),
	}
}

// logCatalogMisses surfaces configuration keys that no longer resolve
// against the catalog. Callers must hold s.mu.
func (s *server) logCatalogMisses() {
	if misses := s.builder.Pricing().CatalogMisses; misses > 0 {
		log.Printf("quote configuration has %d unresolvable catalog keys", misses)
	}
}

func shapeItems(shapes map[string]catalog.ShapeEntry) []selectItem {
	items := make([]selectItem, 0, len(shapes))
	for key, entry := range shapes {
		items = append(items, selectItem{Key: key, Label: entry.Name})
	}
	sortItems(items)
	return items
}

func sizeItems(sizes map[string]catalog.SizeEntry) []selectItem {
	items := make([]selectItem, 0, len(sizes))
	for key, entry := range sizes {
		items = append(items, selectItem{Key: key, Label: entry.Name})
	}
	sortItems(items)
	return items
}

func depthItems(depths map[string]catalog.DepthEntry) []selectItem {
	items := make([]selectItem, 0, len(depths))
	for key, entry := range depths {
		items = append(items, selectItem{Key: key, Label: entry.Name})
	}
	sortItems(items)
	return items
}

func conditionItems(conditions map[string]catalog.RiskFactorEntry) []selectItem {
	items := make([]selectItem, 0, len(conditions))
	for key, entry := range conditions {
		items = append(items, selectItem{Key: key, Label: entry.Description})
	}
	sortItems(items)
	return items
}

func sortItems(items []selectItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New("layout.html").Funcs(template.FuncMap{
		"addOne": func(i int) int { return i + 1 },
	}).ParseFiles(
		"web/templates/layout.html",
		"web/templates/"+page,
	)
	if err != nil {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/static" || strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		if !isAuthenticated(r, s.auth) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
