// Package bidsheet renders a computed quote as a printable plain-text
// bid document. It consumes the engine output and never feeds back
// into it.
package bidsheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
	"github.com/ingroundpooldesign/bidbuilder/internal/pricing"
	"github.com/ingroundpooldesign/bidbuilder/internal/quote"
	"github.com/ingroundpooldesign/bidbuilder/internal/risk"
)

// validityWindow is how long a bid stays open.
const validityWindow = 30 * 24 * time.Hour

// Data bundles everything the bid sheet shows.
type Data struct {
	Config     quote.Config
	Pricing    pricing.Result
	Schedule   pricing.PaymentSchedule
	Assessment risk.Assessment
	Warnings   []string
	BidDate    time.Time
}

// Render formats the bid sheet. The catalog is used only to resolve
// display names for the selected keys; unresolvable keys fall back to
// the raw key so the document always renders.
func Render(d Data, cat *catalog.Catalog) string {
	var b strings.Builder

	line := strings.Repeat("=", 62)
	thin := strings.Repeat("-", 62)

	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "INGROUND POOL DESIGN - FIBERGLASS POOL BID\n")
	fmt.Fprintf(&b, "%s\n\n", line)

	fmt.Fprintf(&b, "Bid Date: %s\n", d.BidDate.Format("01/02/2006"))
	fmt.Fprintf(&b, "Valid Thru: %s\n\n", d.BidDate.Add(validityWindow).Format("01/02/2006"))

	fmt.Fprintf(&b, "Client Information:\n")
	fmt.Fprintf(&b, "  Name: %s\n", d.Config.ClientName)
	fmt.Fprintf(&b, "  Address: %s\n", d.Config.ClientAddress)
	fmt.Fprintf(&b, "  Phone: %s\n\n", d.Config.ClientPhone)

	fmt.Fprintf(&b, "IPD Agent Information:\n")
	fmt.Fprintf(&b, "  Name: %s\n", d.Config.AgentName)
	fmt.Fprintf(&b, "  Title: %s\n", d.Config.AgentTitle)
	fmt.Fprintf(&b, "  Cell: %s\n", d.Config.AgentCell)
	fmt.Fprintf(&b, "  Email: %s\n\n", d.Config.AgentEmail)

	fmt.Fprintf(&b, "%s\n", thin)
	writeOption(&b, "Option A", d.Config.OptionA, d.Config.Selected == "A", cat)
	writeOption(&b, "Option B", d.Config.OptionB, d.Config.Selected == "B", cat)
	fmt.Fprintf(&b, "%s\n\n", thin)

	fmt.Fprintf(&b, "Pool Costs (Option %s):\n", d.Config.Selected)
	fmt.Fprintf(&b, "  Base Pool Price:          $%s\n", FormatMoney(d.Pricing.BasePoolPrice))
	if d.Pricing.SiteAdjustments > 0 {
		fmt.Fprintf(&b, "  Site Adjustments:         $%s\n", FormatMoney(d.Pricing.SiteAdjustments))
	}
	fmt.Fprintf(&b, "  Additional Options:       $%s\n", FormatMoney(d.Pricing.AdditionalOptionsTotal))
	for _, key := range catalog.OptionKeys {
		state := d.Config.Options[key]
		if !state.Included {
			continue
		}
		name := key
		if entry, ok := cat.Option(key); ok {
			name = entry.Name
		}
		fmt.Fprintf(&b, "    - %s: $%s\n", name, FormatMoney(state.Price))
	}
	for _, item := range d.Config.CustomItems {
		if item.Description == "" {
			continue
		}
		fmt.Fprintf(&b, "    - %s: $%s\n", item.Description, FormatMoney(item.Price))
	}
	fmt.Fprintf(&b, "  Total Pool Cost:          $%s\n\n", FormatMoney(d.Pricing.TotalPoolCost))

	fmt.Fprintf(&b, "Pool Payment Schedule:\n")
	fmt.Fprintf(&b, "  1. Deposit for Permitting:                    $%s\n", FormatMoney(d.Schedule.Deposit))
	fmt.Fprintf(&b, "  2. Deposit to secure fiberglass shell order:  $%s\n", FormatMoney(d.Schedule.ShellOrder))
	fmt.Fprintf(&b, "  3. After excavation of pool site:             $%s\n", FormatMoney(d.Schedule.Excavation))
	fmt.Fprintf(&b, "  4. Upon pool installed and operational:       $%s\n\n", FormatMoney(d.Schedule.Final))

	if d.Pricing.PatioWork > 0 {
		fmt.Fprintf(&b, "Patio Work (Separate Contract):               $%s\n", FormatMoney(d.Pricing.PatioWork))
		fmt.Fprintf(&b, "Total Project Cost:                           $%s\n", FormatMoney(d.Pricing.TotalProjectCost))
		fmt.Fprintf(&b, "Patio is not included in the payment schedule above; it is a\nseparate contract paid directly to the Patio Contractor.\n\n")
	}

	fmt.Fprintf(&b, "Risk Assessment: %s\n", strings.ToUpper(string(d.Assessment.Overall)))
	for _, finding := range d.Assessment.Risks {
		fmt.Fprintf(&b, "  - %s\n", finding.Summary())
	}
	b.WriteString("\n")

	if len(d.Warnings) > 0 {
		fmt.Fprintf(&b, "Important Alerts:\n")
		for _, w := range d.Warnings {
			fmt.Fprintf(&b, "  * %s\n", w)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "References:\n")
	for i, ref := range d.Config.References {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, ref)
	}
	b.WriteString("\n")

	if d.Config.Notes != "" {
		fmt.Fprintf(&b, "Notes:\n  %s\n\n", d.Config.Notes)
	}

	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "Tennessee Contractor's License #64513\n")
	fmt.Fprintf(&b, "Alabama Contractor's License #48795\n")
	fmt.Fprintf(&b, "$1 Million General Liability Insurance Policy\n")

	return b.String()
}

func writeOption(b *strings.Builder, label string, opt quote.PoolOption, selected bool, cat *catalog.Catalog) {
	marker := " "
	if selected {
		marker = "*"
	}
	fmt.Fprintf(b, "%s %s: Shape: %s  Size: %s  Depth: %s\n",
		marker, label,
		shapeName(opt.Shape, cat), sizeName(opt.Size, cat), depthName(opt.Depth, cat))
}

func shapeName(key string, cat *catalog.Catalog) string {
	if entry, ok := cat.Shape(key); ok {
		return entry.Name
	}
	return orDash(key)
}

func sizeName(key string, cat *catalog.Catalog) string {
	if entry, ok := cat.Size(key); ok {
		return entry.Name
	}
	return orDash(key)
}

func depthName(key string, cat *catalog.Catalog) string {
	if entry, ok := cat.Depth(key); ok {
		return entry.Name
	}
	return orDash(key)
}

func orDash(key string) string {
	if key == "" {
		return "-"
	}
	return key
}

// FormatMoney renders whole dollars with thousands separators.
func FormatMoney(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var out strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(d)
	}

	if neg {
		return "-" + out.String()
	}
	return out.String()
}
