package costing

// ChargeKind identifies what a contractor charge pays for.
type ChargeKind int

const (
	ChargePress ChargeKind = iota
	ChargeInduction
	ChargePolish
)

func (k ChargeKind) String() string {
	switch k {
	case ChargePress:
		return "press"
	case ChargeInduction:
		return "induction"
	case ChargePolish:
		return "polish"
	default:
		return "unknown"
	}
}

// Charge is billed per kg of the mass a stage delivers back.
type Charge struct {
	Kind ChargeKind
	Rate float64
}

// BilledStage pairs a stage's losses with the charges raised on its output.
type BilledStage struct {
	Stage
	Charges []Charge
}

// PartCost is the full-precision cost of one part for one bag.
type PartCost struct {
	Flows       []StageFlow
	Circle      float64
	Press       float64
	Induction   float64
	Polish      float64
	ScrapCredit float64
	Total       float64
	RatePerKg   float64
}

// CostPart solves the pipeline for target kg of finished part and bills it.
// The first stage's input is bought as circles at circleRate.
func CostPart(target, circleRate float64, pipeline []BilledStage) (PartCost, error) {
	stages := make([]Stage, len(pipeline))
	for i, b := range pipeline {
		stages[i] = b.Stage
	}
	flows, err := SolveYield(target, stages)
	if err != nil {
		return PartCost{}, err
	}
	return Aggregate(circleRate, pipeline, flows), nil
}

// Aggregate bills solved flows. flows must be index-aligned with pipeline.
func Aggregate(circleRate float64, pipeline []BilledStage, flows []StageFlow) PartCost {
	pc := PartCost{Flows: flows}
	if len(flows) == 0 {
		return pc
	}
	pc.Circle = flows[0].Input * circleRate

	for i, b := range pipeline {
		f := flows[i]
		for _, c := range b.Charges {
			amount := f.Output * c.Rate
			switch c.Kind {
			case ChargePress:
				pc.Press += amount
			case ChargeInduction:
				pc.Induction += amount
			case ChargePolish:
				pc.Polish += amount
			}
		}
		if b.Scrap.Enabled {
			pc.ScrapCredit += f.Scrap * b.Scrap.Rate
		}
	}

	pc.Total = pc.Circle + pc.Press + pc.Induction + pc.Polish - pc.ScrapCredit
	if final := flows[len(flows)-1].Output; final > 0 {
		pc.RatePerKg = pc.Total / final
	}
	return pc
}
