package pricing

import (
	"math"

	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
)

// OptionSelection is one additional option as configured on the form.
// Price is charged as-is for included options; the form seeds it from
// the catalog default and an explicit zero means the option is free.
type OptionSelection struct {
	Key      string
	Included bool
	Price    int
}

// LineItem is one of the five custom line-item slots. Items with an
// empty description still contribute their price to the totals.
type LineItem struct {
	Description string
	Price       int
}

// Input is everything the pricing engine reads: the active pool
// option's selections, the site assessment, the add-ons, and the
// patio amount. All money values are whole US dollars.
type Input struct {
	Shape string
	Size  string
	Depth string

	// Site maps assessment factor to its selected condition; an empty
	// condition means the factor is unanswered.
	Site map[string]string

	Options     []OptionSelection
	CustomItems []LineItem
	PatioWork   int
}

// Result is the computed price breakdown. TotalPoolCost excludes
// patio work; TotalProjectCost includes it.
type Result struct {
	BasePoolPrice          int
	SiteAdjustments        int
	AdditionalOptionsTotal int
	TotalPoolCost          int
	PatioWork              int
	TotalProjectCost       int

	// CatalogMisses counts selections that did not resolve to a
	// catalog entry. Misses price as zero (missing multipliers as 1)
	// for backward compatibility, but the count lets callers surface
	// catalog/config drift instead of swallowing it.
	CatalogMisses int
}

// PaymentSchedule is the four payment draws derived from the total
// pool cost. Each amount is rounded independently, so the four lines
// may drift from the total by a few dollars.
type PaymentSchedule struct {
	Deposit    int
	ShellOrder int
	Excavation int
	Final      int
}

// Compute prices a quote configuration against the catalog. It never
// fails: an incomplete pool selection yields a zero result, and
// unresolvable catalog keys contribute nothing beyond the miss count.
func Compute(in Input, cat *catalog.Catalog) Result {
	if in.Shape == "" || in.Size == "" || in.Depth == "" {
		return Result{}
	}

	var misses int

	basePrice := 0.0
	if size, ok := cat.Size(in.Size); ok {
		basePrice = float64(size.BasePrice)
	} else {
		misses++
	}

	multiplier := 1.0
	if shape, ok := cat.Shape(in.Shape); ok {
		multiplier = shape.Multiplier
	} else {
		misses++
	}

	modifier := 0
	if depth, ok := cat.Depth(in.Depth); ok {
		modifier = depth.Modifier
	} else {
		misses++
	}

	base := int(math.Round(basePrice*multiplier)) + modifier

	siteAdjustments := 0
	for factor, condition := range in.Site {
		if condition == "" {
			continue
		}
		entry, ok := cat.RiskFactor(factor, condition)
		if !ok {
			misses++
			continue
		}
		siteAdjustments += entry.CostImpact
	}

	optionsTotal := 0
	for _, opt := range in.Options {
		if !opt.Included {
			continue
		}
		optionsTotal += opt.Price
	}
	for _, item := range in.CustomItems {
		optionsTotal += item.Price
	}

	totalPoolCost := base + siteAdjustments + optionsTotal

	return Result{
		BasePoolPrice:          base,
		SiteAdjustments:        siteAdjustments,
		AdditionalOptionsTotal: optionsTotal,
		TotalPoolCost:          totalPoolCost,
		PatioWork:              in.PatioWork,
		TotalProjectCost:       totalPoolCost + in.PatioWork,
		CatalogMisses:          misses,
	}
}

// Schedule splits the total pool cost across the four payment
// milestones, rounding each draw to the nearest whole dollar.
func Schedule(totalPoolCost int, m catalog.PaymentMilestone) PaymentSchedule {
	return PaymentSchedule{
		Deposit:    splitAmount(totalPoolCost, m.DepositPct),
		ShellOrder: splitAmount(totalPoolCost, m.ShellOrderPct),
		Excavation: splitAmount(totalPoolCost, m.ExcavationPct),
		Final:      splitAmount(totalPoolCost, m.FinalPct),
	}
}

func splitAmount(total int, pct float64) int {
	return int(math.Round(float64(total) * pct / 100))
}
