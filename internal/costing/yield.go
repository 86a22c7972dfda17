package costing

import "math"

// Stage is one lossy production step. Tut is breakage that returns as scrap;
// Loss is material that never comes back (job wastage, polish wastage).
// Both are fractions in [0,1).
type Stage struct {
	Name  string
	Tut   float64
	Loss  float64
	Scrap ScrapReturn
}

// Retained is the fraction of a stage's input that leaves it as output.
func (s Stage) Retained() float64 {
	return (1 - s.Tut) * (1 - s.Loss)
}

// StageFlow is the solved mass balance of one stage, in kg.
type StageFlow struct {
	Name   string
	Input  float64
	Output float64
	Scrap  float64
}

// SolveYield walks stages (ordered upstream to downstream) backwards from the
// mass that must leave the last stage and returns the flow through each stage
// in the same order as stages.
func SolveYield(target float64, stages []Stage) ([]StageFlow, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return nil, &ValidationError{Field: "target", Reason: "must be a finite non-negative mass"}
	}
	for _, s := range stages {
		if err := checkStage(s); err != nil {
			return nil, err
		}
	}

	flows := make([]StageFlow, len(stages))
	output := target
	for i := len(stages) - 1; i >= 0; i-- {
		s := stages[i]
		input := output / s.Retained()
		flows[i] = StageFlow{
			Name:   s.Name,
			Input:  input,
			Output: output,
			Scrap:  input * s.Tut,
		}
		output = input
	}
	return flows, nil
}

// ForwardYield pushes input through stages and returns the mass leaving the last one.
func ForwardYield(input float64, stages []Stage) float64 {
	for _, s := range stages {
		input *= s.Retained()
	}
	return input
}

func checkStage(s Stage) error {
	for _, f := range []struct {
		name  string
		value float64
	}{{"tut", s.Tut}, {"loss", s.Loss}} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &DomainError{Stage: s.Name, Retained: math.NaN()}
		}
		if f.value < 0 {
			return &ValidationError{Field: s.Name + "." + f.name, Reason: "must not be negative"}
		}
	}
	if r := s.Retained(); r <= 0 || s.Tut >= 1 || s.Loss >= 1 {
		return &DomainError{Stage: s.Name, Retained: r}
	}
	return nil
}
