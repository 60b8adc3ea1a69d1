package catalog

// Level is the ordinal severity tag attached to catalog entries and
// risk findings: green < yellow < red.
type Level string

const (
	Green  Level = "green"
	Yellow Level = "yellow"
	Red    Level = "red"
)

// Severity maps a level to its ordinal rank. Unknown levels rank
// lowest so garbage data never escalates a quote.
func (l Level) Severity() int {
	switch l {
	case Red:
		return 2
	case Yellow:
		return 1
	default:
		return 0
	}
}

// Worse returns the higher-severity of two levels.
func Worse(a, b Level) Level {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ShapeEntry describes a fiberglass shell shape. The multiplier is
// applied to the size base price.
type ShapeEntry struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Complexity Level   `json:"complexity"`
}

// SizeEntry describes a shell size with its base price in whole dollars.
type SizeEntry struct {
	Name       string `json:"name"`
	BasePrice  int    `json:"base_price"`
	Complexity Level  `json:"complexity"`
}

// DepthEntry describes a depth profile with a flat dollar modifier.
type DepthEntry struct {
	Name       string `json:"name"`
	Modifier   int    `json:"modifier"`
	Complexity Level  `json:"complexity"`
}

// RiskFactorEntry describes one selectable condition of a site
// assessment factor: its severity, its cost impact in whole dollars,
// and the wording shown on the bid.
type RiskFactorEntry struct {
	Level       Level  `json:"level"`
	CostImpact  int    `json:"cost_impact"`
	Description string `json:"description"`
}

// OptionEntry is the default pricing for an additional option.
// RequiresGas marks options whose selection obligates the owner to
// provide gas connections.
type OptionEntry struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	RequiresGas bool   `json:"requires_gas"`
}

// PaymentMilestone holds the four percentage draws of the pool
// payment schedule. The percentages are expected to sum to 100 but
// this is not enforced.
type PaymentMilestone struct {
	DepositPct    float64 `json:"deposit_pct"`
	ShellOrderPct float64 `json:"shell_order_pct"`
	ExcavationPct float64 `json:"excavation_pct"`
	FinalPct      float64 `json:"final_pct"`
}

// Catalog is the read-only reference data the engines price against.
// It is loaded once per session and never mutated afterwards.
type Catalog struct {
	Shapes      map[string]ShapeEntry
	Sizes       map[string]SizeEntry
	Depths      map[string]DepthEntry
	RiskFactors map[string]map[string]RiskFactorEntry
	Options     map[string]OptionEntry
	Milestones  PaymentMilestone
}

// Shape looks up a shape entry by key.
func (c *Catalog) Shape(key string) (ShapeEntry, bool) {
	e, ok := c.Shapes[key]
	return e, ok
}

// Size looks up a size entry by key.
func (c *Catalog) Size(key string) (SizeEntry, bool) {
	e, ok := c.Sizes[key]
	return e, ok
}

// Depth looks up a depth entry by key.
func (c *Catalog) Depth(key string) (DepthEntry, bool) {
	e, ok := c.Depths[key]
	return e, ok
}

// RiskFactor looks up the entry for a site factor and its selected
// condition.
func (c *Catalog) RiskFactor(factor, condition string) (RiskFactorEntry, bool) {
	conditions, ok := c.RiskFactors[factor]
	if !ok {
		return RiskFactorEntry{}, false
	}
	e, ok := conditions[condition]
	return e, ok
}

// Option looks up an additional option by key.
func (c *Catalog) Option(key string) (OptionEntry, bool) {
	e, ok := c.Options[key]
	return e, ok
}

// SiteFactors is the fixed order the five assessment factors appear
// in on the form and the bid sheet.
var SiteFactors = []string{"access", "soilType", "drainage", "utilities", "slope"}

// OptionKeys is the fixed display order of the additional options.
var OptionKeys = []string{
	"spa",
	"saltSystem",
	"electricalWork",
	"colorLogicLights",
	"electricHeatPump",
	"gasPropaneHeater",
	"crystalColorUpgrade",
}

// FactorLabel converts a camelCase factor key to the spaced lowercase
// form used on risk findings ("soilType" -> "soil type").
func FactorLabel(factor string) string {
	out := make([]rune, 0, len(factor)+2)
	for _, r := range factor {
		if r >= 'A' && r <= 'Z' {
			out = append(out, ' ', r+('a'-'A'))
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
