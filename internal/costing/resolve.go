package costing

// resolvedPart is a PartSpec with every optional value settled, plus the
// shared stages it flows through.
type resolvedPart struct {
	name       string
	circleG    float64
	netG       float64
	circleRate float64
	pipeline   []BilledStage
}

func resolvePart(name string, p PartSpec, it Item, s AppSettings, pol Policy) resolvedPart {
	circleG := CircleWeightG(p.CircleDiameterIn, p.ThicknessMm)

	induction := InductionStage{}
	if p.Induction != nil {
		induction = *p.Induction
	}

	press := BilledStage{
		Stage: Stage{
			Name:  name + ".press",
			Tut:   p.Press.TutPct / 100,
			Loss:  p.Press.JobWastagePct / 100,
			Scrap: p.Press.Scrap,
		},
		Charges: []Charge{{Kind: ChargePress, Rate: p.Press.Rate}},
	}
	if induction.Enabled {
		press.Charges = append(press.Charges, Charge{Kind: ChargeInduction, Rate: induction.Rate})
	}

	return resolvedPart{
		name:       name,
		circleG:    circleG,
		netG:       NetPartWeightG(circleG, p.Press.ActualWastagePct, it.Polish.WastagePct),
		circleRate: pol.Apply(ResolveCircleRate(p, s)),
		pipeline: []BilledStage{
			press,
			{
				Stage: Stage{
					Name:  name + ".polish",
					Tut:   it.Polish.TutPct / 100,
					Loss:  it.Polish.WastagePct / 100,
					Scrap: it.Polish.Scrap,
				},
				Charges: []Charge{{Kind: ChargePolish, Rate: it.Polish.Rate}},
			},
			{
				// Packing is charged per bag by the caller, not per part.
				Stage: Stage{
					Name:  name + ".packing",
					Tut:   it.Packing.TutPct / 100,
					Scrap: it.Packing.Scrap,
				},
			},
		},
	}
}
