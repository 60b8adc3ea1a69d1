package quote

import (
	"strconv"
	"strings"

	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
	"github.com/ingroundpooldesign/bidbuilder/internal/pricing"
	"github.com/ingroundpooldesign/bidbuilder/internal/risk"
)

// PoolOption is one of the two shell configurations offered for
// client comparison. BasePrice holds the last computed base price
// plus site adjustments for the active option; it is display state,
// not an input.
type PoolOption struct {
	Shape     string `json:"shape"`
	Size      string `json:"size"`
	Depth     string `json:"depth"`
	BasePrice int    `json:"base_price"`
}

// OptionState is the form state of one additional option.
type OptionState struct {
	Included bool `json:"included"`
	Price    int  `json:"price"`
}

// CustomItem is one of the five free-form line-item slots. Its price
// counts toward the totals even when the description is blank.
type CustomItem struct {
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// Config is the complete quote form state.
type Config struct {
	ClientName    string `json:"client_name"`
	ClientAddress string `json:"client_address"`
	ClientPhone   string `json:"client_phone"`

	AgentName  string `json:"agent_name"`
	AgentTitle string `json:"agent_title"`
	AgentCell  string `json:"agent_cell"`
	AgentEmail string `json:"agent_email"`

	Site map[string]string `json:"site"`

	OptionA  PoolOption `json:"option_a"`
	OptionB  PoolOption `json:"option_b"`
	Selected string     `json:"selected"`

	Options     map[string]OptionState `json:"options"`
	CustomItems [5]CustomItem          `json:"custom_items"`
	PatioWork   int                    `json:"patio_work"`

	References [3]string `json:"references"`
	Notes      string    `json:"notes"`
}

// Default agent identity pre-filled on new quotes.
const (
	defaultAgentName  = "Chad Taylor"
	defaultAgentTitle = "President Of Sales"
	defaultAgentCell  = "423-321-4260"
	defaultAgentEmail = "Chad@ingroundpooldesign.com"
)

// NewConfig returns a fresh form state with option prices seeded from
// the catalog defaults and option A selected.
func NewConfig(cat *catalog.Catalog) Config {
	site := make(map[string]string, len(catalog.SiteFactors))
	for _, factor := range catalog.SiteFactors {
		site[factor] = ""
	}

	options := make(map[string]OptionState, len(catalog.OptionKeys))
	for _, key := range catalog.OptionKeys {
		entry, _ := cat.Option(key)
		options[key] = OptionState{Price: entry.Price}
	}

	return Config{
		AgentName:  defaultAgentName,
		AgentTitle: defaultAgentTitle,
		AgentCell:  defaultAgentCell,
		AgentEmail: defaultAgentEmail,
		Site:       site,
		Selected:   "A",
		Options:    options,
	}
}

// Builder owns one quote session: the mutable form state plus the
// immutable catalog snapshot it prices against. Every field-level
// update triggers a full recompute, so reads always reflect the
// current configuration.
type Builder struct {
	cat *catalog.Catalog

	cfg        Config
	pricing    pricing.Result
	schedule   pricing.PaymentSchedule
	assessment risk.Assessment
	warnings   []string
}

// NewBuilder starts a quote session against the given catalog.
func NewBuilder(cat *catalog.Catalog) *Builder {
	b := &Builder{cat: cat, cfg: NewConfig(cat)}
	b.recompute()
	return b
}

// Config returns a copy of the current form state.
func (b *Builder) Config() Config { return b.cfg }

// Pricing returns the latest computed price breakdown.
func (b *Builder) Pricing() pricing.Result { return b.pricing }

// Schedule returns the latest payment schedule.
func (b *Builder) Schedule() pricing.PaymentSchedule { return b.schedule }

// Risk returns the latest risk assessment.
func (b *Builder) Risk() risk.Assessment { return b.assessment }

// Warnings returns the latest derived bid alerts.
func (b *Builder) Warnings() []string { return b.warnings }

// Catalog returns the catalog snapshot this session prices against.
func (b *Builder) Catalog() *catalog.Catalog { return b.cat }

// SetClientInfo updates the client identity fields.
func (b *Builder) SetClientInfo(name, address, phone string) {
	b.cfg.ClientName = strings.TrimSpace(name)
	b.cfg.ClientAddress = strings.TrimSpace(address)
	b.cfg.ClientPhone = strings.TrimSpace(phone)
	b.recompute()
}

// SetAgentInfo updates the agent identity fields.
func (b *Builder) SetAgentInfo(name, title, cell, email string) {
	b.cfg.AgentName = strings.TrimSpace(name)
	b.cfg.AgentTitle = strings.TrimSpace(title)
	b.cfg.AgentCell = strings.TrimSpace(cell)
	b.cfg.AgentEmail = strings.TrimSpace(email)
	b.recompute()
}

// SetSiteFactor records the selected condition for one assessment
// factor. Unknown factors are ignored.
func (b *Builder) SetSiteFactor(factor, condition string) {
	if _, ok := b.cfg.Site[factor]; !ok {
		return
	}
	b.cfg.Site[factor] = condition
	b.recompute()
}

// SetPoolShape updates the shape of option "A" or "B".
func (b *Builder) SetPoolShape(option, shape string) {
	b.poolOption(option, func(p *PoolOption) { p.Shape = shape })
}

// SetPoolSize updates the size of option "A" or "B".
func (b *Builder) SetPoolSize(option, size string) {
	b.poolOption(option, func(p *PoolOption) { p.Size = size })
}

// SetPoolDepth updates the depth of option "A" or "B".
func (b *Builder) SetPoolDepth(option, depth string) {
	b.poolOption(option, func(p *PoolOption) { p.Depth = depth })
}

func (b *Builder) poolOption(option string, update func(*PoolOption)) {
	switch option {
	case "A":
		update(&b.cfg.OptionA)
	case "B":
		update(&b.cfg.OptionB)
	default:
		return
	}
	b.recompute()
}

// SelectOption switches which pool option drives pricing.
func (b *Builder) SelectOption(option string) {
	if option != "A" && option != "B" {
		return
	}
	b.cfg.Selected = option
	b.recompute()
}

// SetOption toggles an additional option and applies a price
// override. Malformed or negative price input is clamped to zero; an
// empty price keeps the current value.
func (b *Builder) SetOption(key string, included bool, rawPrice string) {
	state, ok := b.cfg.Options[key]
	if !ok {
		return
	}
	state.Included = included
	if strings.TrimSpace(rawPrice) != "" {
		state.Price = ParseMoney(rawPrice)
	}
	b.cfg.Options[key] = state
	b.recompute()
}

// SetCustomItem updates one of the five custom line-item slots.
func (b *Builder) SetCustomItem(slot int, description, rawPrice string) {
	if slot < 0 || slot >= len(b.cfg.CustomItems) {
		return
	}
	b.cfg.CustomItems[slot] = CustomItem{
		Description: strings.TrimSpace(description),
		Price:       ParseMoney(rawPrice),
	}
	b.recompute()
}

// SetPatioWork updates the separate-contract patio amount.
func (b *Builder) SetPatioWork(rawPrice string) {
	b.cfg.PatioWork = ParseMoney(rawPrice)
	b.recompute()
}

// SetReference updates one of the three reference slots.
func (b *Builder) SetReference(slot int, value string) {
	if slot < 0 || slot >= len(b.cfg.References) {
		return
	}
	b.cfg.References[slot] = strings.TrimSpace(value)
	b.recompute()
}

// SetNotes updates the free-form notes field.
func (b *Builder) SetNotes(notes string) {
	b.cfg.Notes = notes
	b.recompute()
}

// Recalculate reruns the engines against the current state. It exists
// for callers that changed the catalog overlay underneath the session.
func (b *Builder) Recalculate() {
	b.recompute()
}

// Active returns the pool option currently driving pricing.
func (b *Builder) Active() PoolOption {
	if b.cfg.Selected == "B" {
		return b.cfg.OptionB
	}
	return b.cfg.OptionA
}

// GasSelected reports whether any included option requires a gas
// connection per the catalog.
func (b *Builder) GasSelected() bool {
	for key, state := range b.cfg.Options {
		if !state.Included {
			continue
		}
		if entry, ok := b.cat.Option(key); ok && entry.RequiresGas {
			return true
		}
	}
	return false
}

// recompute reruns the pricing and risk engines against the current
// form state. The one mutation it performs on the configuration is
// writing the computed base price plus site adjustments back into the
// active option, so the comparison display tracks live pricing.
func (b *Builder) recompute() {
	active := b.Active()

	options := make([]pricing.OptionSelection, 0, len(catalog.OptionKeys))
	for _, key := range catalog.OptionKeys {
		state := b.cfg.Options[key]
		options = append(options, pricing.OptionSelection{
			Key:      key,
			Included: state.Included,
			Price:    state.Price,
		})
	}

	items := make([]pricing.LineItem, 0, len(b.cfg.CustomItems))
	for _, item := range b.cfg.CustomItems {
		items = append(items, pricing.LineItem{Description: item.Description, Price: item.Price})
	}

	b.pricing = pricing.Compute(pricing.Input{
		Shape:       active.Shape,
		Size:        active.Size,
		Depth:       active.Depth,
		Site:        b.cfg.Site,
		Options:     options,
		CustomItems: items,
		PatioWork:   b.cfg.PatioWork,
	}, b.cat)

	if b.pricing.TotalPoolCost > 0 {
		basePrice := b.pricing.BasePoolPrice + b.pricing.SiteAdjustments
		if b.cfg.Selected == "B" {
			b.cfg.OptionB.BasePrice = basePrice
		} else {
			b.cfg.OptionA.BasePrice = basePrice
		}
	}

	b.assessment = risk.Assess(b.cfg.Site, active.Shape, active.Size, b.cat)
	b.warnings = risk.Warnings(b.assessment.Overall, b.GasSelected(), b.pricing.TotalPoolCost)
	b.schedule = pricing.Schedule(b.pricing.TotalPoolCost, b.cat.Milestones)
}

// ParseMoney converts raw form input to whole dollars. Anything that
// fails to parse, and anything negative, is treated as zero so bad
// input can never poison a total.
func ParseMoney(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0
		}
		value = int(f)
	}
	if value < 0 {
		return 0
	}
	return value
}
