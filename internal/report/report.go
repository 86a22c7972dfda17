// Package report renders a printable cost sheet for one costed item.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth   = 210.0
	marginLeft  = 15.0
	marginRight = 15.0
	marginTop   = 15.0
	contentW    = pageWidth - marginLeft - marginRight
	rowHeight   = 6.0
	qrSize      = 30.0
)

// Tag is the payload encoded in the sheet's QR code.
type Tag struct {
	ItemID     string  `json:"id"`
	Name       string  `json:"name"`
	PerKgRate  float64 `json:"per_kg"`
	PerPcRate  float64 `json:"per_pc"`
	ComputedAt string  `json:"computed_at"`
}

type line struct {
	label string
	value string
}

// CostSheet writes a one-page PDF summarising res for it.
func CostSheet(w io.Writer, it costing.Item, settings costing.AppSettings, res costing.CalcResult) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Cost sheet - "+it.Name, false)
	pdf.SetAutoPageBreak(true, marginTop)
	pdf.AddPage()

	if err := renderHeader(pdf, it, res); err != nil {
		return err
	}

	section(pdf, "Summary", []line{
		{"Per kg rate", money(res.PerKgRate)},
		{"Per piece rate", money(res.PerPcRate)},
		{"Bag cost", money(res.FinalCost)},
		{"Pieces per bag", fmt.Sprintf("%.3f", res.PiecesPerBag)},
		{"Bag standard", fmt.Sprintf("%g kg", settings.BagStandardKg)},
	})

	wt := res.Weights
	section(pdf, "Weights per piece", []line{
		{"Box circle / net", fmt.Sprintf("%.2f g / %.2f g", wt.BoxCircleG, wt.BoxNetG)},
		{"Cover circle / net", fmt.Sprintf("%.2f g / %.2f g", wt.CoverCircleG, wt.CoverNetG)},
		{"Kunda", grams(wt.KundaG)},
		{"Polybag", grams(wt.PolybagG)},
		{"Pipe share", grams(wt.PipeG)},
		{"Total metal", grams(wt.TotalMetalG)},
		{"Total packed", grams(wt.TotalPackedG)},
	})

	d := res.Debug
	section(pdf, "Bag cost breakdown", []line{
		{"Circle", money(d.CircleCost)},
		{"Press", money(d.PressCost)},
		{"Induction", money(d.InductionCost)},
		{"Polish", money(d.PolishCost)},
		{"Packing", money(d.PackingCost)},
		{"Kunda", money(d.KundaCost)},
		{"Plastic", money(d.PlasticCost)},
		{"Scrap credit", "-" + money(d.ScrapCredit)},
	})

	section(pdf, "Parts", []line{
		{"Box batch", fmt.Sprintf("%.3f kg at circle %s, %s/kg", d.BoxBatchKg, money(d.BoxCircleRate), money(d.BoxRatePerKg))},
		{"Cover batch", fmt.Sprintf("%.3f kg at circle %s, %s/kg", d.CoverBatchKg, money(d.CoverCircleRate), money(d.CoverRatePerKg))},
		{"Box cost", money(d.BoxCost)},
		{"Cover cost", money(d.CoverCost)},
	})

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render cost sheet: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write cost sheet: %w", err)
	}
	return nil
}

func renderHeader(pdf *fpdf.Fpdf, it costing.Item, res costing.CalcResult) error {
	tag := Tag{
		ItemID:     it.ID,
		Name:       it.Name,
		PerKgRate:  res.PerKgRate,
		PerPcRate:  res.PerPcRate,
		ComputedAt: res.ComputedAt.UTC().Format(time.RFC3339),
	}
	qrData, err := json.Marshal(tag)
	if err != nil {
		return fmt.Errorf("failed to marshal cost sheet tag: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr_item", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr_item", pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false, opts, 0, "")

	textW := contentW - qrSize - 5
	pdf.SetXY(marginLeft, marginTop)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(textW, 9, it.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetX(marginLeft)
	pdf.CellFormat(textW, 5, "Item "+it.ID, "", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(textW, 5, "Computed "+tag.ComputedAt, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(marginTop + qrSize + 5)
	return nil
}

func section(pdf *fpdf.Fpdf, title string, lines []line) {
	pdf.SetX(marginLeft)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(contentW, rowHeight+1, title, "", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range lines {
		pdf.SetX(marginLeft)
		pdf.CellFormat(contentW*0.45, rowHeight, l.label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.55, rowHeight, l.value, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func grams(v float64) string { return fmt.Sprintf("%.2f g", v) }
