package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

type column struct {
	header   string
	optional bool
	get      func(costing.Item) any
	set      func(*costing.Item, string) error
}

func text(header string, field func(*costing.Item) *string, optional bool) column {
	return column{
		header:   header,
		optional: optional,
		get:      func(it costing.Item) any { return *field(&it) },
		set: func(it *costing.Item, raw string) error {
			*field(it) = raw
			return nil
		},
	}
}

func num(header string, field func(*costing.Item) *float64) column {
	return column{
		header: header,
		get:    func(it costing.Item) any { return *field(&it) },
		set: func(it *costing.Item, raw string) error {
			v, err := parseNumber(raw)
			if err != nil {
				return err
			}
			*field(it) = v
			return nil
		},
	}
}

func flag(header string, field func(*costing.Item) *bool) column {
	return column{
		header: header,
		get:    func(it costing.Item) any { return formatFlag(*field(&it)) },
		set: func(it *costing.Item, raw string) error {
			v, err := parseFlag(raw)
			if err != nil {
				return err
			}
			*field(it) = v
			return nil
		},
	}
}

// circleRate maps a blank cell to "use the settings fallback".
func circleRate(header string, part func(*costing.Item) *costing.PartSpec) column {
	return column{
		header:   header,
		optional: true,
		get: func(it costing.Item) any {
			if r := part(&it).CircleRate; r != nil {
				return *r
			}
			return ""
		},
		set: func(it *costing.Item, raw string) error {
			if raw == "" {
				part(it).CircleRate = nil
				return nil
			}
			v, err := parseNumber(raw)
			if err != nil {
				return err
			}
			part(it).CircleRate = &v
			return nil
		},
	}
}

// induction columns allocate the stage only when a cell is present.
func inductionFlag(header string, part func(*costing.Item) *costing.PartSpec) column {
	return column{
		header:   header,
		optional: true,
		get: func(it costing.Item) any {
			if ind := part(&it).Induction; ind != nil {
				return formatFlag(ind.Enabled)
			}
			return ""
		},
		set: func(it *costing.Item, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := parseFlag(raw)
			if err != nil {
				return err
			}
			ensureInduction(part(it)).Enabled = v
			return nil
		},
	}
}

func inductionRate(header string, part func(*costing.Item) *costing.PartSpec) column {
	return column{
		header:   header,
		optional: true,
		get: func(it costing.Item) any {
			if ind := part(&it).Induction; ind != nil {
				return ind.Rate
			}
			return ""
		},
		set: func(it *costing.Item, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := parseNumber(raw)
			if err != nil {
				return err
			}
			ensureInduction(part(it)).Rate = v
			return nil
		},
	}
}

func ensureInduction(p *costing.PartSpec) *costing.InductionStage {
	if p.Induction == nil {
		p.Induction = &costing.InductionStage{}
	}
	return p.Induction
}

func box(it *costing.Item) *costing.PartSpec   { return &it.Box }
func cover(it *costing.Item) *costing.PartSpec { return &it.Cover }

func partColumns(prefix string, part func(*costing.Item) *costing.PartSpec) []column {
	return []column{
		num(prefix+"_diameter_in", func(it *costing.Item) *float64 { return &part(it).CircleDiameterIn }),
		num(prefix+"_thickness_mm", func(it *costing.Item) *float64 { return &part(it).ThicknessMm }),
		circleRate(prefix+"_circle_rate", part),
		num(prefix+"_press_rate", func(it *costing.Item) *float64 { return &part(it).Press.Rate }),
		num(prefix+"_press_actual_wastage_pct", func(it *costing.Item) *float64 { return &part(it).Press.ActualWastagePct }),
		num(prefix+"_press_job_wastage_pct", func(it *costing.Item) *float64 { return &part(it).Press.JobWastagePct }),
		num(prefix+"_press_tut_pct", func(it *costing.Item) *float64 { return &part(it).Press.TutPct }),
		flag(prefix+"_press_scrap_enabled", func(it *costing.Item) *bool { return &part(it).Press.Scrap.Enabled }),
		num(prefix+"_press_scrap_rate", func(it *costing.Item) *float64 { return &part(it).Press.Scrap.Rate }),
		inductionFlag(prefix+"_induction_enabled", part),
		inductionRate(prefix+"_induction_rate", part),
	}
}

var itemColumns = func() []column {
	cols := []column{
		text("id", func(it *costing.Item) *string { return &it.ID }, true),
		text("name", func(it *costing.Item) *string { return &it.Name }, false),
	}
	cols = append(cols, partColumns("box", box)...)
	cols = append(cols, partColumns("cover", cover)...)
	return append(cols,
		num("polish_rate", func(it *costing.Item) *float64 { return &it.Polish.Rate }),
		num("polish_wastage_pct", func(it *costing.Item) *float64 { return &it.Polish.WastagePct }),
		num("polish_tut_pct", func(it *costing.Item) *float64 { return &it.Polish.TutPct }),
		flag("polish_scrap_enabled", func(it *costing.Item) *bool { return &it.Polish.Scrap.Enabled }),
		num("polish_scrap_rate", func(it *costing.Item) *float64 { return &it.Polish.Scrap.Rate }),
		num("packing_rate", func(it *costing.Item) *float64 { return &it.Packing.Rate }),
		num("packing_tut_pct", func(it *costing.Item) *float64 { return &it.Packing.TutPct }),
		flag("packing_scrap_enabled", func(it *costing.Item) *bool { return &it.Packing.Scrap.Enabled }),
		num("packing_scrap_rate", func(it *costing.Item) *float64 { return &it.Packing.Scrap.Rate }),
		flag("kunda_enabled", func(it *costing.Item) *bool { return &it.Kunda.Enabled }),
		num("kunda_weight_g", func(it *costing.Item) *float64 { return &it.Kunda.WeightG }),
		num("kunda_rate", func(it *costing.Item) *float64 { return &it.Kunda.Rate }),
		num("polybag_size_in", func(it *costing.Item) *float64 { return &it.Bag.Polybag.SizeIn }),
		num("polybag_gauge", func(it *costing.Item) *float64 { return &it.Bag.Polybag.Gauge }),
		num("polybag_rate", func(it *costing.Item) *float64 { return &it.Bag.Polybag.Rate }),
		num("pipe_width_in", func(it *costing.Item) *float64 { return &it.Bag.Pipe.WidthIn }),
		num("pipe_length_in", func(it *costing.Item) *float64 { return &it.Bag.Pipe.LengthIn }),
		num("pipe_gauge", func(it *costing.Item) *float64 { return &it.Bag.Pipe.Gauge }),
		num("pipe_pieces_per_pipe", func(it *costing.Item) *float64 { return &it.Bag.Pipe.PiecesPerPipe }),
		num("pipe_rate", func(it *costing.Item) *float64 { return &it.Bag.Pipe.Rate }),
	)
}()

func parseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}

func parseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1", "on":
		return true, nil
	case "no", "n", "false", "0", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid yes/no value %q", raw)
}

func formatFlag(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
