package costing

import (
	"errors"
	"math"
)

type validator struct {
	errs []error
}

func (v *validator) fail(field, reason string) {
	v.errs = append(v.errs, &ValidationError{Field: field, Reason: reason})
}

func (v *validator) finite(field string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.fail(field, "must be a finite number")
		return false
	}
	return true
}

func (v *validator) nonNegative(field string, value float64) {
	if v.finite(field, value) && value < 0 {
		v.fail(field, "must be greater than or equal to 0")
	}
}

func (v *validator) positive(field string, value float64) {
	if v.finite(field, value) && value <= 0 {
		v.fail(field, "must be greater than 0")
	}
}

func (v *validator) percent(field string, value float64) {
	if v.finite(field, value) && (value < 0 || value >= 100) {
		v.fail(field, "must be at least 0 and below 100")
	}
}

func (v *validator) scrap(field string, s ScrapReturn) {
	v.nonNegative(field+".rate", s.Rate)
}

func (v *validator) part(field string, p PartSpec) {
	v.positive(field+".circleDiameterIn", p.CircleDiameterIn)
	v.positive(field+".thicknessMm", p.ThicknessMm)
	// A zero or negative explicit rate means "use the fallback"; only garbage is rejected.
	if p.CircleRate != nil {
		v.finite(field+".circleRate", *p.CircleRate)
	}
	v.nonNegative(field+".press.rate", p.Press.Rate)
	v.percent(field+".press.actualWastagePct", p.Press.ActualWastagePct)
	v.percent(field+".press.jobWastagePct", p.Press.JobWastagePct)
	v.percent(field+".press.tutPct", p.Press.TutPct)
	v.scrap(field+".press.scrap", p.Press.Scrap)
	if p.Induction != nil {
		v.nonNegative(field+".induction.rate", p.Induction.Rate)
	}
}

// ValidateSettings checks the settings record on its own.
func ValidateSettings(s AppSettings) error {
	v := &validator{}
	v.settings(s)
	return errors.Join(v.errs...)
}

func (v *validator) settings(s AppSettings) {
	v.nonNegative("settings.circleBaseRate", s.CircleBaseRate)
	v.nonNegative("settings.circleAddPerKg", s.CircleAddPerKg)
	v.nonNegative("settings.circleExtraAddPerKg", s.CircleExtraAddPerKg)
	v.positive("settings.bagStandardKg", s.BagStandardKg)
}

// ValidateItem checks the item record on its own.
func ValidateItem(it Item) error {
	v := &validator{}
	v.item(it)
	return errors.Join(v.errs...)
}

func (v *validator) item(it Item) {
	v.part("box", it.Box)
	v.part("cover", it.Cover)

	v.nonNegative("polish.rate", it.Polish.Rate)
	v.percent("polish.wastagePct", it.Polish.WastagePct)
	v.percent("polish.tutPct", it.Polish.TutPct)
	v.scrap("polish.scrap", it.Polish.Scrap)

	v.nonNegative("packing.rate", it.Packing.Rate)
	v.percent("packing.tutPct", it.Packing.TutPct)
	v.scrap("packing.scrap", it.Packing.Scrap)

	if it.Kunda.Enabled {
		v.nonNegative("kunda.weightG", it.Kunda.WeightG)
		v.nonNegative("kunda.rate", it.Kunda.Rate)
	} else {
		v.finite("kunda.weightG", it.Kunda.WeightG)
		v.finite("kunda.rate", it.Kunda.Rate)
	}

	v.nonNegative("bag.polybag.sizeIn", it.Bag.Polybag.SizeIn)
	v.nonNegative("bag.polybag.gauge", it.Bag.Polybag.Gauge)
	v.nonNegative("bag.polybag.rate", it.Bag.Polybag.Rate)
	v.nonNegative("bag.pipe.widthIn", it.Bag.Pipe.WidthIn)
	v.nonNegative("bag.pipe.lengthIn", it.Bag.Pipe.LengthIn)
	v.nonNegative("bag.pipe.gauge", it.Bag.Pipe.Gauge)
	v.positive("bag.pipe.piecesPerPipe", it.Bag.Pipe.PiecesPerPipe)
	v.nonNegative("bag.pipe.rate", it.Bag.Pipe.Rate)
}

// Validate checks every field of item and settings and reports all
// violations at once. The returned error wraps one *ValidationError per field.
func Validate(it Item, s AppSettings) error {
	v := &validator{}
	v.item(it)
	v.settings(s)
	return errors.Join(v.errs...)
}

// FieldErrors unpacks the per-field errors of a Validate result.
func FieldErrors(err error) []*ValidationError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []*ValidationError{ve}
	}
	return nil
}
