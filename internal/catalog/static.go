package catalog

// Static returns the bundled fallback catalog. It carries the same
// numbers the sales team quoted from before the remote catalog
// existed, and it is what an offline session prices against.
func Static() *Catalog {
	return &Catalog{
		Shapes: map[string]ShapeEntry{
			"rectangle": {Name: "Rectangle", Multiplier: 1.00, Complexity: Green},
			"kidney":    {Name: "Kidney", Multiplier: 1.08, Complexity: Green},
			"figure-8":  {Name: "Figure 8", Multiplier: 1.15, Complexity: Yellow},
			"freeform":  {Name: "Freeform/Lagoon", Multiplier: 1.20, Complexity: Yellow},
			"custom":    {Name: "Custom Shape", Multiplier: 1.35, Complexity: Red},
		},
		Sizes: map[string]SizeEntry{
			"small-12x24":  {Name: "Small (12' x 24')", BasePrice: 38000, Complexity: Green},
			"medium-14x28": {Name: "Medium (14' x 28')", BasePrice: 42000, Complexity: Green},
			"large-16x32":  {Name: "Large (16' x 32')", BasePrice: 48000, Complexity: Green},
			"xl-18x36":     {Name: "Extra Large (18' x 36')", BasePrice: 55000, Complexity: Yellow},
			"xxl-20x40":    {Name: "XX Large (20' x 40')", BasePrice: 65000, Complexity: Yellow},
		},
		Depths: map[string]DepthEntry{
			"shallow":  {Name: "Shallow (3'-5')", Modifier: 0, Complexity: Green},
			"standard": {Name: "Standard (3'-6')", Modifier: 1500, Complexity: Green},
			"deep":     {Name: "Deep (3'-8')", Modifier: 3500, Complexity: Yellow},
			"diving":   {Name: "Diving (3'-9')", Modifier: 6500, Complexity: Red},
		},
		RiskFactors: map[string]map[string]RiskFactorEntry{
			"access": {
				"easy":           {Level: Green, CostImpact: 0, Description: "Standard equipment access"},
				"moderate":       {Level: Yellow, CostImpact: 2500, Description: "Some access challenges"},
				"difficult":      {Level: Red, CostImpact: 7500, Description: "Crane or hand-dig required"},
				"crane-required": {Level: Red, CostImpact: 15000, Description: "Crane access mandatory"},
			},
			"soilType": {
				"normal":  {Level: Green, CostImpact: 0, Description: "Standard excavation"},
				"clay":    {Level: Yellow, CostImpact: 3000, Description: "Clay soil challenges"},
				"rock":    {Level: Red, CostImpact: 8000, Description: "Rock removal required"},
				"sandy":   {Level: Yellow, CostImpact: 2000, Description: "Excavation stabilization"},
				"unknown": {Level: Red, CostImpact: 0, Description: "Soil test required before pricing"},
			},
			"drainage": {
				"good":           {Level: Green, CostImpact: 0, Description: "No drainage concerns"},
				"poor":           {Level: Yellow, CostImpact: 3500, Description: "Drainage system needed"},
				"standing-water": {Level: Red, CostImpact: 8500, Description: "Major drainage work required"},
			},
			"utilities": {
				"clear":            {Level: Green, CostImpact: 0, Description: "No utility conflicts"},
				"minor-conflicts":  {Level: Yellow, CostImpact: 2000, Description: "Minor utility relocation"},
				"major-relocation": {Level: Red, CostImpact: 8000, Description: "Major utility work required"},
			},
			"slope": {
				"level":    {Level: Green, CostImpact: 0, Description: "Level ground"},
				"slight":   {Level: Green, CostImpact: 1500, Description: "Minor grading"},
				"steep":    {Level: Yellow, CostImpact: 5000, Description: "Retaining walls may be needed"},
				"terraced": {Level: Red, CostImpact: 12000, Description: "Major earthwork required"},
			},
		},
		Options: map[string]OptionEntry{
			"spa":                 {Name: "Spa", Price: 8500},
			"saltSystem":          {Name: "Salt System", Price: 1200},
			"electricalWork":      {Name: "Electrical Work", Price: 2500},
			"colorLogicLights":    {Name: "Color Logic Lights", Price: 1800},
			"electricHeatPump":    {Name: "Electric Heat Pump", Price: 4500},
			"gasPropaneHeater":    {Name: "Gas Propane Heater", Price: 3200, RequiresGas: true},
			"crystalColorUpgrade": {Name: "Crystal Color Upgrade", Price: 1500},
		},
		Milestones: PaymentMilestone{
			DepositPct:    10,
			ShellOrderPct: 40,
			ExcavationPct: 30,
			FinalPct:      20,
		},
	}
}
