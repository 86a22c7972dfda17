package costing

import "time"

// ScrapReturn describes whether tut (breakage) shed at a stage is sold back and at what rate.
type ScrapReturn struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Rate    float64 `json:"rate" yaml:"rate"` // currency per kg of scrap
}

// PressStage holds the pressing contractor's terms for one part.
type PressStage struct {
	Rate             float64     `json:"rate" yaml:"rate"`                         // per kg of kala delivered
	ActualWastagePct float64     `json:"actualWastagePct" yaml:"actualWastagePct"` // reduces piece mass only
	JobWastagePct    float64     `json:"jobWastagePct" yaml:"jobWastagePct"`       // retained by contractor, cost only
	TutPct           float64     `json:"tutPct" yaml:"tutPct"`
	Scrap            ScrapReturn `json:"scrap" yaml:"scrap"`
}

// InductionStage is an optional secondary process billed per kg of pressed output.
type InductionStage struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Rate    float64 `json:"rate" yaml:"rate"`
}

// PartSpec describes one stamped part (box or cover).
type PartSpec struct {
	CircleDiameterIn float64 `json:"circleDiameterIn" yaml:"circleDiameterIn"`
	ThicknessMm      float64 `json:"thicknessMm" yaml:"thicknessMm"`
	// CircleRate overrides the settings fallback when set to a finite value above zero.
	CircleRate *float64        `json:"circleRate,omitempty" yaml:"circleRate,omitempty"`
	Press      PressStage      `json:"press" yaml:"press"`
	Induction  *InductionStage `json:"induction,omitempty" yaml:"induction,omitempty"`
}

// PolishStage is shared by box and cover.
type PolishStage struct {
	Rate       float64     `json:"rate" yaml:"rate"`
	WastagePct float64     `json:"wastagePct" yaml:"wastagePct"`
	TutPct     float64     `json:"tutPct" yaml:"tutPct"`
	Scrap      ScrapReturn `json:"scrap" yaml:"scrap"`
}

// PackingStage is charged once per bag; its tut still earns scrap credit per metal part.
type PackingStage struct {
	Rate   float64     `json:"rate" yaml:"rate"`
	TutPct float64     `json:"tutPct" yaml:"tutPct"`
	Scrap  ScrapReturn `json:"scrap" yaml:"scrap"`
}

// KundaSpec is the optional fixed-weight fastener fitted to every piece.
type KundaSpec struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	WeightG float64 `json:"weightG" yaml:"weightG"`
	Rate    float64 `json:"rate" yaml:"rate"`
}

// Polybag is the plastic bag each piece is packed in.
type Polybag struct {
	SizeIn float64 `json:"sizeIn" yaml:"sizeIn"`
	Gauge  float64 `json:"gauge" yaml:"gauge"`
	Rate   float64 `json:"rate" yaml:"rate"`
}

// Pipe is the plastic tube shared across PiecesPerPipe pieces.
type Pipe struct {
	WidthIn       float64 `json:"widthIn" yaml:"widthIn"`
	LengthIn      float64 `json:"lengthIn" yaml:"lengthIn"`
	Gauge         float64 `json:"gauge" yaml:"gauge"`
	PiecesPerPipe float64 `json:"piecesPerPipe" yaml:"piecesPerPipe"`
	Rate          float64 `json:"rate" yaml:"rate"`
}

// BagProfile groups the plastic packaging of one piece.
type BagProfile struct {
	Polybag Polybag `json:"polybag" yaml:"polybag"`
	Pipe    Pipe    `json:"pipe" yaml:"pipe"`
}

// Item is a packaged product: box, cover and accessories.
type Item struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Box       PartSpec     `json:"box" yaml:"box"`
	Cover     PartSpec     `json:"cover" yaml:"cover"`
	Polish    PolishStage  `json:"polish" yaml:"polish"`
	Packing   PackingStage `json:"packing" yaml:"packing"`
	Kunda     KundaSpec    `json:"kunda" yaml:"kunda"`
	Bag       BagProfile   `json:"bag" yaml:"bag"`
	CreatedAt time.Time    `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt time.Time    `json:"updatedAt,omitempty" yaml:"-"`
}

// AppSettings holds organisation-wide fallbacks.
type AppSettings struct {
	CircleBaseRate      float64 `json:"circleBaseRate" yaml:"circleBaseRate"`
	CircleAddPerKg      float64 `json:"circleAddPerKg" yaml:"circleAddPerKg"`
	CircleExtraAddPerKg float64 `json:"circleExtraAddPerKg" yaml:"circleExtraAddPerKg"`
	BagStandardKg       float64 `json:"bagStandardKg" yaml:"bagStandardKg"`
}

// Policy carries adjustments applied on top of the resolved inputs.
// The zero value applies nothing.
type Policy struct {
	// CircleRateOffset is added to each part's resolved circle rate.
	CircleRateOffset float64 `json:"circleRateOffset"`
}

// Weights is the per-piece mass breakdown in grams.
type Weights struct {
	BoxCircleG   float64 `json:"boxCircleG"`
	CoverCircleG float64 `json:"coverCircleG"`
	BoxNetG      float64 `json:"boxNetG"`
	CoverNetG    float64 `json:"coverNetG"`
	KundaG       float64 `json:"kundaG"`
	PolybagG     float64 `json:"polybagG"`
	PipeG        float64 `json:"pipeG"`
	TotalMetalG  float64 `json:"totalMetalG"`
	TotalPackedG float64 `json:"totalPackedG"`
}

// Debug is the audit trail of every cost component for one bag.
type Debug struct {
	CircleCost      float64 `json:"circleCost"`
	PressCost       float64 `json:"pressCost"`
	InductionCost   float64 `json:"inductionCost"`
	PolishCost      float64 `json:"polishCost"`
	PackingCost     float64 `json:"packingCost"`
	KundaCost       float64 `json:"kundaCost"`
	PlasticCost     float64 `json:"plasticCost"`
	ScrapCredit     float64 `json:"scrapCredit"`
	BoxCost         float64 `json:"boxCost"`
	CoverCost       float64 `json:"coverCost"`
	BoxRatePerKg    float64 `json:"boxRatePerKg"`
	CoverRatePerKg  float64 `json:"coverRatePerKg"`
	BoxCircleRate   float64 `json:"boxCircleRate"`
	CoverCircleRate float64 `json:"coverCircleRate"`
	BoxBatchKg      float64 `json:"boxBatchKg"`
	CoverBatchKg    float64 `json:"coverBatchKg"`
}

// CalcResult is the rounded, presentation-ready costing of one item.
type CalcResult struct {
	ItemID       string    `json:"itemId,omitempty"`
	Weights      Weights   `json:"weights"`
	PiecesPerBag float64   `json:"piecesPerBag"`
	FinalCost    float64   `json:"finalCost"`
	PerKgRate    float64   `json:"perKgRate"`
	PerPcRate    float64   `json:"perPcRate"`
	Debug        Debug     `json:"debug"`
	ComputedAt   time.Time `json:"computedAt"`
}
