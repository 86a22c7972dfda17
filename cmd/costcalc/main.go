// Command costcalc costs one item from a YAML or JSON file and prints the result.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("costcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	itemPath := fs.String("item", "", "item spec file (.yaml, .yml or .json); - reads stdin")
	settingsPath := fs.String("settings", "", "settings file; built-in defaults when empty")
	offset := fs.Float64("offset", 0, "amount added to every resolved circle rate")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *itemPath == "" {
		fmt.Fprintln(stderr, "costcalc: -item is required")
		fs.Usage()
		return 2
	}

	var it costing.Item
	if err := decodeFile(*itemPath, stdin, &it); err != nil {
		fmt.Fprintf(stderr, "costcalc: %v\n", err)
		return 1
	}
	settings := costing.DefaultSettings()
	if *settingsPath != "" {
		if err := decodeFile(*settingsPath, stdin, &settings); err != nil {
			fmt.Fprintf(stderr, "costcalc: %v\n", err)
			return 1
		}
	}

	c, err := costing.Compute(it, settings, costing.Policy{CircleRateOffset: *offset})
	if err != nil {
		for _, fe := range costing.FieldErrors(err) {
			fmt.Fprintf(stderr, "costcalc: %s: %s\n", fe.Field, fe.Reason)
		}
		if len(costing.FieldErrors(err)) == 0 {
			fmt.Fprintf(stderr, "costcalc: %v\n", err)
		}
		return 1
	}
	res := c.Result(it.ID, time.Now())

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "costcalc: %v\n", err)
			return 1
		}
		return 0
	}
	if err := printTable(stdout, it, res); err != nil {
		fmt.Fprintf(stderr, "costcalc: %v\n", err)
		return 1
	}
	return 0
}

func decodeFile(path string, stdin io.Reader, dst any) error {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, dst)
	default:
		err = yaml.UnmarshalStrict(raw, dst)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printTable(w io.Writer, it costing.Item, res costing.CalcResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	name := it.Name
	if name == "" {
		name = "(unnamed)"
	}
	rows := [][2]string{
		{"Item", name},
		{"Per kg rate", fmt.Sprintf("%.2f", res.PerKgRate)},
		{"Per piece rate", fmt.Sprintf("%.2f", res.PerPcRate)},
		{"Bag cost", fmt.Sprintf("%.2f", res.FinalCost)},
		{"Pieces per bag", fmt.Sprintf("%.3f", res.PiecesPerBag)},
		{"Packed weight (g)", fmt.Sprintf("%.2f", res.Weights.TotalPackedG)},
		{"", ""},
		{"Circle", fmt.Sprintf("%.2f", res.Debug.CircleCost)},
		{"Press", fmt.Sprintf("%.2f", res.Debug.PressCost)},
		{"Induction", fmt.Sprintf("%.2f", res.Debug.InductionCost)},
		{"Polish", fmt.Sprintf("%.2f", res.Debug.PolishCost)},
		{"Packing", fmt.Sprintf("%.2f", res.Debug.PackingCost)},
		{"Kunda", fmt.Sprintf("%.2f", res.Debug.KundaCost)},
		{"Plastic", fmt.Sprintf("%.2f", res.Debug.PlasticCost)},
		{"Scrap credit", fmt.Sprintf("-%.2f", res.Debug.ScrapCredit)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t\n", r[0], r[1]); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}
