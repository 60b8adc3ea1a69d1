package bidsheet

import (
	"strings"
	"testing"
	"time"

	"github.com/ingroundpooldesign/bidbuilder/internal/catalog"
	"github.com/ingroundpooldesign/bidbuilder/internal/pricing"
	"github.com/ingroundpooldesign/bidbuilder/internal/quote"
	"github.com/ingroundpooldesign/bidbuilder/internal/risk"
)

func sampleData() Data {
	cfg := quote.NewConfig(catalog.Static())
	cfg.ClientName = "Pat Rivers"
	cfg.ClientAddress = "12 Lakeshore Dr, Chattanooga TN"
	cfg.ClientPhone = "423-555-0147"
	cfg.OptionA = quote.PoolOption{Shape: "kidney", Size: "medium-14x28", Depth: "standard", BasePrice: 46860}
	cfg.OptionB = quote.PoolOption{Shape: "rectangle", Size: "large-16x32", Depth: "deep"}
	cfg.Options["gasPropaneHeater"] = quote.OptionState{Included: true, Price: 3200}
	cfg.CustomItems[0] = quote.CustomItem{Description: "Fence permit", Price: 900}
	cfg.References[0] = "The Hendersons, Signal Mountain"

	return Data{
		Config: cfg,
		Pricing: pricing.Result{
			BasePoolPrice:          46860,
			SiteAdjustments:        2500,
			AdditionalOptionsTotal: 4100,
			TotalPoolCost:          53460,
			PatioWork:              5000,
			TotalProjectCost:       58460,
		},
		Schedule: pricing.PaymentSchedule{Deposit: 5346, ShellOrder: 21384, Excavation: 16038, Final: 10692},
		Assessment: risk.Assessment{
			Overall: catalog.Yellow,
			Risks: []risk.Finding{
				{Factor: "access", Level: catalog.Yellow, Description: "Some access challenges", CostImpact: 2500},
			},
		},
		Warnings: []string{
			"Moderate risk - verify site conditions before final pricing",
			"Gas heater selected - customer responsible for gas connections",
		},
		BidDate: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderContainsCoreSections(t *testing.T) {
	text := Render(sampleData(), catalog.Static())

	for _, want := range []string{
		"INGROUND POOL DESIGN - FIBERGLASS POOL BID",
		"Bid Date: 03/14/2026",
		"Valid Thru: 04/13/2026",
		"Name: Pat Rivers",
		"Name: Chad Taylor",
		"* Option A: Shape: Kidney  Size: Medium (14' x 28')  Depth: Standard (3'-6')",
		"  Option B: Shape: Rectangle  Size: Large (16' x 32')  Depth: Deep (3'-8')",
		"Pool Costs (Option A):",
		"Base Pool Price:          $46,860",
		"Site Adjustments:         $2,500",
		"- Gas Propane Heater: $3,200",
		"- Fence permit: $900",
		"Total Pool Cost:          $53,460",
		"1. Deposit for Permitting:                    $5,346",
		"2. Deposit to secure fiberglass shell order:  $21,384",
		"3. After excavation of pool site:             $16,038",
		"4. Upon pool installed and operational:       $10,692",
		"Patio Work (Separate Contract):               $5,000",
		"Total Project Cost:                           $58,460",
		"Risk Assessment: YELLOW",
		"- access: Some access challenges (+$2500)",
		"* Moderate risk - verify site conditions before final pricing",
		"* Gas heater selected - customer responsible for gas connections",
		"1. The Hendersons, Signal Mountain",
		"Tennessee Contractor's License #64513",
		"Alabama Contractor's License #48795",
		"$1 Million General Liability Insurance Policy",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("bid sheet missing %q\n---\n%s", want, text)
		}
	}
}

func TestRenderOmitsPatioBlockWhenZero(t *testing.T) {
	d := sampleData()
	d.Pricing.PatioWork = 0
	d.Pricing.TotalProjectCost = d.Pricing.TotalPoolCost

	text := Render(d, catalog.Static())

	if strings.Contains(text, "Patio Work (Separate Contract)") {
		t.Fatal("patio block rendered for a zero patio amount")
	}
	if strings.Contains(text, "Total Project Cost") {
		t.Fatal("project cost line should only appear with patio work")
	}
}

func TestRenderOmitsSiteAdjustmentsWhenZero(t *testing.T) {
	d := sampleData()
	d.Pricing.SiteAdjustments = 0

	text := Render(d, catalog.Static())

	if strings.Contains(text, "Site Adjustments") {
		t.Fatal("site adjustments line rendered for a zero amount")
	}
}

func TestRenderFallsBackToRawKeys(t *testing.T) {
	d := sampleData()
	d.Config.OptionA.Shape = "octagon"
	d.Config.OptionB = quote.PoolOption{}

	text := Render(d, catalog.Static())

	if !strings.Contains(text, "Shape: octagon") {
		t.Fatal("unresolvable shape key should render as-is")
	}
	if !strings.Contains(text, "Option B: Shape: -  Size: -  Depth: -") {
		t.Fatal("empty option should render dashes")
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		46860:   "46,860",
		1234567: "1,234,567",
		-5000:   "-5,000",
	}
	for in, want := range cases {
		if got := FormatMoney(in); got != want {
			t.Fatalf("FormatMoney(%d) = %q, want %q", in, got, want)
		}
	}
}
