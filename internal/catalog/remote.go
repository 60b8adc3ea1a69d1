package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	defaultMaxAttempts  = 3
	defaultRequestDelay = 500 * time.Millisecond
	defaultHTTPTimeout  = 10 * time.Second
)

// LoaderOptions configures the remote catalog loader.
type LoaderOptions struct {
	// BaseURL is the root of the catalog service, without trailing slash.
	BaseURL string
	// MaxAttempts bounds how many times each record set is requested.
	MaxAttempts int
	// RequestDelay paces requests to respect the catalog service rate
	// limit; it is also the backoff between retry attempts.
	RequestDelay time.Duration
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Loader fetches the five catalog record sets from the remote catalog
// service. Requests are sequential and paced; a failed record set
// fails the whole load so the caller can fall back to Static().
type Loader struct {
	baseURL  string
	attempts int
	delay    time.Duration
	client   *http.Client
	limiter  *rate.Limiter
}

// NewLoader builds a Loader, applying defaults for unset options.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = defaultRequestDelay
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &Loader{
		baseURL:  opts.BaseURL,
		attempts: opts.MaxAttempts,
		delay:    opts.RequestDelay,
		client:   opts.Client,
		// Burst of 1 so every request waits out the full delay.
		limiter: rate.NewLimiter(rate.Every(opts.RequestDelay), 1),
	}
}

type basePricingPayload struct {
	Shapes map[string]ShapeEntry `json:"shapes"`
	Sizes  map[string]SizeEntry  `json:"sizes"`
}

type paymentSchedulePayload struct {
	PoolType string `json:"pool_type"`
	PaymentMilestone
}

// Load fetches all five record sets and assembles a Catalog. It
// returns an error if any set cannot be fetched or is empty; partial
// catalogs are never returned.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	var pricing basePricingPayload
	if err := l.fetch(ctx, "/catalog/base-pricing", &pricing); err != nil {
		return nil, fmt.Errorf("load base pricing: %w", err)
	}

	var depths map[string]DepthEntry
	if err := l.fetch(ctx, "/catalog/depths", &depths); err != nil {
		return nil, fmt.Errorf("load depth options: %w", err)
	}

	var options map[string]OptionEntry
	if err := l.fetch(ctx, "/catalog/options", &options); err != nil {
		return nil, fmt.Errorf("load additional options: %w", err)
	}

	var riskFactors map[string]map[string]RiskFactorEntry
	if err := l.fetch(ctx, "/catalog/risk-factors", &riskFactors); err != nil {
		return nil, fmt.Errorf("load risk factors: %w", err)
	}

	var schedules []paymentSchedulePayload
	if err := l.fetch(ctx, "/catalog/payment-schedules", &schedules); err != nil {
		return nil, fmt.Errorf("load payment schedules: %w", err)
	}

	cat := &Catalog{
		Shapes:      pricing.Shapes,
		Sizes:       pricing.Sizes,
		Depths:      depths,
		RiskFactors: riskFactors,
		Options:     options,
		Milestones:  matchSchedule(schedules),
	}

	if len(cat.Shapes) == 0 || len(cat.Sizes) == 0 || len(cat.Depths) == 0 ||
		len(cat.RiskFactors) == 0 || len(cat.Options) == 0 || len(schedules) == 0 {
		return nil, fmt.Errorf("remote catalog is missing one or more record sets")
	}

	return cat, nil
}

// matchSchedule picks the fiberglass schedule if present, otherwise
// the first entry.
func matchSchedule(schedules []paymentSchedulePayload) PaymentMilestone {
	for _, s := range schedules {
		if s.PoolType == "fiberglass" {
			return s.PaymentMilestone
		}
	}
	if len(schedules) > 0 {
		return schedules[0].PaymentMilestone
	}
	return PaymentMilestone{}
}

func (l *Loader) fetch(ctx context.Context, path string, out any) error {
	backoff := retry.WithMaxRetries(uint64(l.attempts-1), retry.NewConstant(l.delay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path, nil)
		if err != nil {
			return err
		}

		resp, err := l.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("catalog service returned %d for %s", resp.StatusCode, path))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("catalog service returned %d for %s", resp.StatusCode, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	})
}
