package risk

import (
	"fmt"

	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
)

// Finding is one risk contribution surfaced on the assessment.
type Finding struct {
	Factor      string
	Level       catalog.Level
	Description string
	CostImpact  int
}

// Assessment is the categorized risk result for the active pool
// option. Overall is the strict ordinal maximum of every observed
// level; Risks lists only the non-green contributions.
type Assessment struct {
	Overall catalog.Level
	Risks   []Finding
}

// Warning text shown on the bid when conditions call for extra care.
const (
	warnManagementReview = "High-risk project - requires management review before quoting"
	warnVerifySite       = "Moderate risk - verify site conditions before final pricing"
	warnGasConnection    = "Gas heater selected - customer responsible for gas connections"
	warnHighValue        = "High-value project - confirm insurance coverage limits"
)

// highValueThreshold is the total pool cost above which insurance
// coverage must be confirmed.
const highValueThreshold = 80000

// Assess evaluates the site assessment plus the active option's
// shape/size complexity. Unresolvable catalog entries contribute
// nothing; the function never fails.
func Assess(site map[string]string, shape, size string, cat *catalog.Catalog) Assessment {
	overall := catalog.Green
	risks := make([]Finding, 0)

	for _, factor := range catalog.SiteFactors {
		condition := site[factor]
		if condition == "" {
			continue
		}
		entry, ok := cat.RiskFactor(factor, condition)
		if !ok {
			continue
		}

		overall = catalog.Worse(overall, entry.Level)
		if entry.Level != catalog.Green {
			risks = append(risks, Finding{
				Factor:      catalog.FactorLabel(factor),
				Level:       entry.Level,
				Description: entry.Description,
				CostImpact:  entry.CostImpact,
			})
		}
	}

	if shape != "" {
		if entry, ok := cat.Shape(shape); ok && entry.Complexity != catalog.Green {
			risks = append(risks, Finding{
				Factor:      "pool shape",
				Level:       entry.Complexity,
				Description: "Complex shape may require special handling",
			})
			overall = catalog.Worse(overall, entry.Complexity)
		}
	}
	if size != "" {
		if entry, ok := cat.Size(size); ok && entry.Complexity != catalog.Green {
			risks = append(risks, Finding{
				Factor:      "pool size",
				Level:       entry.Complexity,
				Description: "Large pools require special equipment",
			})
			overall = catalog.Worse(overall, entry.Complexity)
		}
	}

	return Assessment{Overall: overall, Risks: risks}
}

// Warnings derives the bid alerts in their fixed output order: the
// risk-level warning first, then the gas-connection warning, then the
// high-value warning.
func Warnings(overall catalog.Level, gasSelected bool, totalPoolCost int) []string {
	warnings := make([]string, 0, 3)

	switch overall {
	case catalog.Red:
		warnings = append(warnings, warnManagementReview)
	case catalog.Yellow:
		warnings = append(warnings, warnVerifySite)
	}
	if gasSelected {
		warnings = append(warnings, warnGasConnection)
	}
	if totalPoolCost > highValueThreshold {
		warnings = append(warnings, warnHighValue)
	}

	return warnings
}

// Summary renders a finding as a single bid-sheet line.
func (f Finding) Summary() string {
	if f.CostImpact > 0 {
		return fmt.Sprintf("%s: %s (+$%d)", f.Factor, f.Description, f.CostImpact)
	}
	return fmt.Sprintf("%s: %s", f.Factor, f.Description)
}
