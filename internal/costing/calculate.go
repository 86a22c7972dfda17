package costing

import (
	"fmt"
	"math"
	"time"
)

// Costing is the full-precision costing of one bag of an item.
type Costing struct {
	BoxCircleG   float64
	CoverCircleG float64
	BoxNetG      float64
	CoverNetG    float64
	KundaG       float64
	PolybagG     float64
	PipeG        float64
	TotalMetalG  float64
	TotalPackedG float64

	PiecesPerBag float64
	BoxBatchKg   float64
	CoverBatchKg float64

	BoxCircleRate   float64
	CoverCircleRate float64
	Box             PartCost
	Cover           PartCost

	KundaCost   float64
	PlasticCost float64
	PackingCost float64
	FinalCost   float64
	PerKgRate   float64
	PerPcRate   float64
}

// CircleCost sums the circle purchase of both parts.
func (c Costing) CircleCost() float64 { return c.Box.Circle + c.Cover.Circle }

// PressCost sums the press charge of both parts.
func (c Costing) PressCost() float64 { return c.Box.Press + c.Cover.Press }

// InductionCost sums the induction charge of both parts.
func (c Costing) InductionCost() float64 { return c.Box.Induction + c.Cover.Induction }

// PolishCost sums the polish charge of both parts.
func (c Costing) PolishCost() float64 { return c.Box.Polish + c.Cover.Polish }

// ScrapCredit sums the scrap credit of both parts.
func (c Costing) ScrapCredit() float64 { return c.Box.ScrapCredit + c.Cover.ScrapCredit }

// Compute validates the inputs and costs one standard bag of it at full precision.
func Compute(it Item, s AppSettings, pol Policy) (Costing, error) {
	if err := Validate(it, s); err != nil {
		return Costing{}, err
	}
	if math.IsNaN(pol.CircleRateOffset) || math.IsInf(pol.CircleRateOffset, 0) {
		return Costing{}, &ValidationError{Field: "policy.circleRateOffset", Reason: "must be a finite number"}
	}

	box := resolvePart("box", it.Box, it, s, pol)
	cover := resolvePart("cover", it.Cover, it, s, pol)
	for _, p := range []resolvedPart{box, cover} {
		if p.circleRate < 0 {
			return Costing{}, &ValidationError{Field: p.name + ".circleRate", Reason: "is negative after the rate offset"}
		}
	}

	c := Costing{
		BoxCircleG:      box.circleG,
		CoverCircleG:    cover.circleG,
		BoxNetG:         box.netG,
		CoverNetG:       cover.netG,
		PolybagG:        PolybagWeightG(it.Bag.Polybag.SizeIn, it.Bag.Polybag.Gauge),
		PipeG:           PipeShareG(it.Bag.Pipe),
		BoxCircleRate:   box.circleRate,
		CoverCircleRate: cover.circleRate,
	}
	if it.Kunda.Enabled {
		c.KundaG = it.Kunda.WeightG
	}
	c.TotalMetalG = c.BoxNetG + c.CoverNetG
	c.TotalPackedG = c.TotalMetalG + c.KundaG + c.PolybagG + c.PipeG
	if math.IsInf(c.TotalPackedG, 0) {
		return Costing{}, &ValidationError{Field: "weights.totalPackedG", Reason: "is not a finite number for these inputs"}
	}
	if c.TotalPackedG <= 0 {
		return Costing{}, &ValidationError{Field: "item", Reason: "packed piece weight must be greater than 0"}
	}

	c.PiecesPerBag = s.BagStandardKg * 1000 / c.TotalPackedG
	c.BoxBatchKg = c.BoxNetG * c.PiecesPerBag / 1000
	c.CoverBatchKg = c.CoverNetG * c.PiecesPerBag / 1000

	var err error
	if c.Box, err = CostPart(c.BoxBatchKg, box.circleRate, box.pipeline); err != nil {
		return Costing{}, fmt.Errorf("cost box: %w", err)
	}
	if c.Cover, err = CostPart(c.CoverBatchKg, cover.circleRate, cover.pipeline); err != nil {
		return Costing{}, fmt.Errorf("cost cover: %w", err)
	}

	if it.Kunda.Enabled {
		c.KundaCost = c.KundaG * c.PiecesPerBag / 1000 * it.Kunda.Rate
	}
	c.PlasticCost = c.PolybagG*c.PiecesPerBag/1000*it.Bag.Polybag.Rate +
		c.PipeG*c.PiecesPerBag/1000*it.Bag.Pipe.Rate
	c.PackingCost = s.BagStandardKg * it.Packing.Rate

	c.FinalCost = c.Box.Total + c.Cover.Total + c.KundaCost + c.PlasticCost + c.PackingCost
	c.PerKgRate = c.FinalCost / s.BagStandardKg
	c.PerPcRate = c.PerKgRate * c.TotalPackedG / 1000
	if err := c.checkFinite(); err != nil {
		return Costing{}, err
	}
	return c, nil
}

// checkFinite rejects inputs that are individually valid but overflow once combined.
func (c Costing) checkFinite() error {
	for _, f := range []struct {
		field string
		value float64
	}{
		{"weights.totalPackedG", c.TotalPackedG},
		{"piecesPerBag", c.PiecesPerBag},
		{"box.cost", c.Box.Total},
		{"box.ratePerKg", c.Box.RatePerKg},
		{"cover.cost", c.Cover.Total},
		{"cover.ratePerKg", c.Cover.RatePerKg},
		{"kundaCost", c.KundaCost},
		{"plasticCost", c.PlasticCost},
		{"packingCost", c.PackingCost},
		{"finalCost", c.FinalCost},
		{"perKgRate", c.PerKgRate},
		{"perPcRate", c.PerPcRate},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.field, Reason: "is not a finite number for these inputs"}
		}
	}
	return nil
}

// Result rounds the costing into a CalcResult. This is the only place
// values are rounded.
func (c Costing) Result(itemID string, at time.Time) CalcResult {
	return CalcResult{
		ItemID: itemID,
		Weights: Weights{
			BoxCircleG:   round2(c.BoxCircleG),
			CoverCircleG: round2(c.CoverCircleG),
			BoxNetG:      round2(c.BoxNetG),
			CoverNetG:    round2(c.CoverNetG),
			KundaG:       round2(c.KundaG),
			PolybagG:     round2(c.PolybagG),
			PipeG:        round2(c.PipeG),
			TotalMetalG:  round2(c.TotalMetalG),
			TotalPackedG: round2(c.TotalPackedG),
		},
		PiecesPerBag: round3(c.PiecesPerBag),
		FinalCost:    round2(c.FinalCost),
		PerKgRate:    round2(c.PerKgRate),
		PerPcRate:    round2(c.PerPcRate),
		Debug: Debug{
			CircleCost:      round2(c.CircleCost()),
			PressCost:       round2(c.PressCost()),
			InductionCost:   round2(c.InductionCost()),
			PolishCost:      round2(c.PolishCost()),
			PackingCost:     round2(c.PackingCost),
			KundaCost:       round2(c.KundaCost),
			PlasticCost:     round2(c.PlasticCost),
			ScrapCredit:     round2(c.ScrapCredit()),
			BoxCost:         round2(c.Box.Total),
			CoverCost:       round2(c.Cover.Total),
			BoxRatePerKg:    round2(c.Box.RatePerKg),
			CoverRatePerKg:  round2(c.Cover.RatePerKg),
			BoxCircleRate:   round2(c.BoxCircleRate),
			CoverCircleRate: round2(c.CoverCircleRate),
			BoxBatchKg:      round3(c.BoxBatchKg),
			CoverBatchKg:    round3(c.CoverBatchKg),
		},
		ComputedAt: at.UTC(),
	}
}

// Calculate costs it under settings s and returns the rounded result.
func Calculate(it Item, s AppSettings, pol Policy) (CalcResult, error) {
	c, err := Compute(it, s, pol)
	if err != nil {
		return CalcResult{}, err
	}
	return c.Result(it.ID, time.Now()), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
