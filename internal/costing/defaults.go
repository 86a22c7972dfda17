package costing

// DefaultSettings returns the settings seeded into a fresh database.
func DefaultSettings() AppSettings {
	return AppSettings{
		CircleBaseRate:      230,
		CircleAddPerKg:      12,
		CircleExtraAddPerKg: 8,
		BagStandardKg:       80,
	}
}

// DefaultPress returns the usual pressing contractor terms.
func DefaultPress() PressStage {
	return PressStage{
		Rate:             20,
		ActualWastagePct: 4,
		JobWastagePct:    8,
		TutPct:           3,
		Scrap:            ScrapReturn{Enabled: true, Rate: 50},
	}
}

// DefaultItem returns the demo item seeded into a fresh database: a 7 inch
// tin with a 7.25 inch cover, one kunda and standard plastic.
func DefaultItem() Item {
	return Item{
		Name: "Standard 7in tin",
		Box: PartSpec{
			CircleDiameterIn: 7,
			ThicknessMm:      0.26,
			Press:            DefaultPress(),
		},
		Cover: PartSpec{
			CircleDiameterIn: 7.25,
			ThicknessMm:      0.26,
			Press:            DefaultPress(),
			Induction:        &InductionStage{Enabled: false, Rate: 0},
		},
		Polish: PolishStage{
			Rate:       30,
			WastagePct: 2,
			TutPct:     1,
			Scrap:      ScrapReturn{Enabled: true, Rate: 50},
		},
		Packing: PackingStage{
			Rate:   5,
			TutPct: 0.5,
			Scrap:  ScrapReturn{Enabled: true, Rate: 50},
		},
		Kunda: KundaSpec{Enabled: true, WeightG: 1.5, Rate: 300},
		Bag: BagProfile{
			Polybag: Polybag{SizeIn: 10, Gauge: 200, Rate: 160},
			Pipe:    Pipe{WidthIn: 2.5, LengthIn: 36, Gauge: 200, PiecesPerPipe: 24, Rate: 160},
		},
	}
}
