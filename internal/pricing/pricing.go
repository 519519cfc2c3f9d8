package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpoolWeight is returned when the spool weight cannot be used as a divisor.
var ErrInvalidSpoolWeight = errors.New("spool weight must be greater than zero")

// ErrNegativeValue is returned for settings amounts that are negative or not finite.
var ErrNegativeValue = errors.New("value must be a finite non-negative number")

// ErrNotFinite is returned for a profit percent that is NaN or infinite.
var ErrNotFinite = errors.New("value must be finite")

// InputError reports which input made a calculation impossible.
type InputError struct {
	Field string
	Value float64
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// PrintSettings represents the pricing policy shared by every job.
type PrintSettings struct {
	PrinterPowerWatts  float64 `json:"printerPowerWatts"`
	ElectricityCostKwh float64 `json:"electricityCostKwh"`
	WorkPerHourCost    float64 `json:"workPerHourCost"`
	ProfitPercent      float64 `json:"profitPercent"`
	SetupFee           float64 `json:"setupFee"`
}

// MaterialSettings represents the cost basis of one spool of filament.
type MaterialSettings struct {
	SpoolCost        float64 `json:"spoolCost"`
	SpoolWeightGrams float64 `json:"spoolWeightGrams"`
}

// JobDetails represents a single estimation request.
type JobDetails struct {
	CustomerName     string
	PartName         string
	PartWeightGrams  float64
	PrintTimeHours   float64
	PrintTimeMinutes float64
}

// Breakdown contains every line item of a calculation.
type Breakdown struct {
	MaterialCost float64
	EnergyCost   float64
	LaborCost    float64
	SetupCost    float64
	BaseCost     float64
	TotalCost    float64
}

// DefaultPrintSettings returns the policy used when nothing has been stored yet.
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		PrinterPowerWatts:  350,
		ElectricityCostKwh: 0.92,
		WorkPerHourCost:    15,
		ProfitPercent:      50,
		SetupFee:           5,
	}
}

// DefaultMaterialSettings returns a 1 kg spool priced at 120.
func DefaultMaterialSettings() MaterialSettings {
	return MaterialSettings{
		SpoolCost:        120,
		SpoolWeightGrams: 1000,
	}
}

// Validate reports the first field a stored policy must not hold: a negative or
// non-finite amount. The profit percent only has to be finite.
func (p PrintSettings) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"printerPowerWatts", p.PrinterPowerWatts},
		{"electricityCostKwh", p.ElectricityCostKwh},
		{"workPerHourCost", p.WorkPerHourCost},
		{"setupFee", p.SetupFee},
	} {
		if !isNonNegative(f.value) {
			return &InputError{Field: f.name, Value: f.value, Err: ErrNegativeValue}
		}
	}
	if math.IsNaN(p.ProfitPercent) || math.IsInf(p.ProfitPercent, 0) {
		return &InputError{Field: "profitPercent", Value: p.ProfitPercent, Err: ErrNotFinite}
	}
	return nil
}

// Validate reports a spool that Calculate would reject or a negative spool cost.
func (m MaterialSettings) Validate() error {
	if !(m.SpoolWeightGrams > 0) || math.IsInf(m.SpoolWeightGrams, 0) {
		return &InputError{Field: "spoolWeightGrams", Value: m.SpoolWeightGrams, Err: ErrInvalidSpoolWeight}
	}
	if !isNonNegative(m.SpoolCost) {
		return &InputError{Field: "spoolCost", Value: m.SpoolCost, Err: ErrNegativeValue}
	}
	return nil
}

func isNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// TotalHours folds the hour and minute inputs into fractional hours.
func (j JobDetails) TotalHours() float64 {
	return j.PrintTimeHours + j.PrintTimeMinutes/60.0
}

// Calculate computes the cost breakdown of a job. Values are not rounded.
func Calculate(job JobDetails, material MaterialSettings, printer PrintSettings) (Breakdown, error) {
	if !(material.SpoolWeightGrams > 0) || math.IsInf(material.SpoolWeightGrams, 0) {
		return Breakdown{}, &InputError{
			Field: "spoolWeightGrams",
			Value: material.SpoolWeightGrams,
			Err:   ErrInvalidSpoolWeight,
		}
	}

	totalHours := job.TotalHours()

	materialCost := (material.SpoolCost / material.SpoolWeightGrams) * job.PartWeightGrams
	energyCost := (printer.ElectricityCostKwh / 1000.0) * printer.PrinterPowerWatts * totalHours
	laborCost := printer.WorkPerHourCost * totalHours
	setupCost := printer.SetupFee

	baseCost := materialCost + energyCost + laborCost + setupCost
	totalCost := baseCost * (1.0 + printer.ProfitPercent/100.0)

	return Breakdown{
		MaterialCost: materialCost,
		EnergyCost:   energyCost,
		LaborCost:    laborCost,
		SetupCost:    setupCost,
		BaseCost:     baseCost,
		TotalCost:    totalCost,
	}, nil
}

// Profit is the amount added on top of the base cost.
func (b Breakdown) Profit() float64 {
	return b.TotalCost - b.BaseCost
}

// Component is one named slice of the base cost.
type Component struct {
	Name  string
	Value float64
	Share float64
}

// Composition lists the positive cost components and each one's share of their sum, in percent.
func (b Breakdown) Composition() []Component {
	all := []Component{
		{Name: "Material", Value: b.MaterialCost},
		{Name: "Energia", Value: b.EnergyCost},
		{Name: "Mão de Obra", Value: b.LaborCost},
		{Name: "Setup", Value: b.SetupCost},
	}

	var sum float64
	parts := make([]Component, 0, len(all))
	for _, c := range all {
		if c.Value > 0 {
			parts = append(parts, c)
			sum += c.Value
		}
	}
	if sum > 0 {
		for i := range parts {
			parts[i].Share = parts[i].Value / sum * 100.0
		}
	}
	return parts
}
