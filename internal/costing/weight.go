package costing

const (
	// circleDensityFactor is grams per square inch of 0.263 mm sheet.
	circleDensityFactor = 263.0 / 254.0
	referenceThickness  = 0.263
	// thicknessToleranceMm is added to every nominal sheet thickness.
	thicknessToleranceMm = 0.003
	plasticGaugeDivisor  = 3300.0
)

// CircleWeightG returns the mass in grams of one circular blank.
func CircleWeightG(diameterIn, thicknessMm float64) float64 {
	base := circleDensityFactor * diameterIn * diameterIn
	return base * (thicknessMm + thicknessToleranceMm) / referenceThickness
}

// PolybagWeightG returns the mass in grams of a square polybag.
func PolybagWeightG(sizeIn, gauge float64) float64 {
	return sizeIn * sizeIn * gauge / plasticGaugeDivisor
}

// PipeWeightG returns the mass in grams of a whole pipe.
func PipeWeightG(widthIn, lengthIn, gauge float64) float64 {
	return widthIn * lengthIn * gauge / plasticGaugeDivisor
}

// PipeShareG returns the per-piece share of a pipe.
// A non-positive piece count yields zero; Validate rejects it earlier.
func PipeShareG(p Pipe) float64 {
	if p.PiecesPerPipe <= 0 {
		return 0
	}
	return PipeWeightG(p.WidthIn, p.LengthIn, p.Gauge) / p.PiecesPerPipe
}

// NetPartWeightG is the finished mass of one part: the circle reduced by the
// press actual wastage and then by the polish wastage.
func NetPartWeightG(circleG, actualWastagePct, polishWastagePct float64) float64 {
	return circleG * (1 - actualWastagePct/100) * (1 - polishWastagePct/100)
}
