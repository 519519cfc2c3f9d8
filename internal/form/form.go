// Package form turns raw user input into the structured values the pricing
// calculator expects. Malformed or negative numbers become zero here so the
// calculator never sees them.
package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/calc3d/internal/pricing"
)

// Field names shared by the HTML forms and the export token.
const (
	FieldCustomerName       = "customer_name"
	FieldPartName           = "part_name"
	FieldPartWeightGrams    = "part_weight_grams"
	FieldPrintTimeHours     = "print_time_hours"
	FieldPrintTimeMinutes   = "print_time_minutes"
	FieldSpoolCost          = "spool_cost"
	FieldSpoolWeightGrams   = "spool_weight_grams"
	FieldPrinterPowerWatts  = "printer_power_watts"
	FieldElectricityCostKwh = "electricity_cost_kwh"
	FieldWorkPerHourCost    = "work_per_hour_cost"
	FieldProfitPercent      = "profit_percent"
	FieldSetupFee           = "setup_fee"
)

// Getter is satisfied by url.Values.
type Getter interface {
	Get(key string) string
}

// Float parses raw as a non-negative number. Anything else yields 0.
func Float(raw string) float64 {
	return Clamp(SignedFloat(raw))
}

// SignedFloat parses raw keeping its sign. Malformed or non-finite input yields 0.
func SignedFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	// Accept a decimal comma, as typed by pt-BR users.
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// Clamp replaces negative or non-finite values with 0.
func Clamp(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

// Job reads the job fields.
func Job(v Getter) pricing.JobDetails {
	return pricing.JobDetails{
		CustomerName:     strings.TrimSpace(v.Get(FieldCustomerName)),
		PartName:         strings.TrimSpace(v.Get(FieldPartName)),
		PartWeightGrams:  Float(v.Get(FieldPartWeightGrams)),
		PrintTimeHours:   Float(v.Get(FieldPrintTimeHours)),
		PrintTimeMinutes: Float(v.Get(FieldPrintTimeMinutes)),
	}
}

// Material reads the spool fields.
func Material(v Getter) pricing.MaterialSettings {
	return pricing.MaterialSettings{
		SpoolCost:        Float(v.Get(FieldSpoolCost)),
		SpoolWeightGrams: Float(v.Get(FieldSpoolWeightGrams)),
	}
}

// Print reads the pricing policy fields. The profit percent may be negative.
func Print(v Getter) pricing.PrintSettings {
	return pricing.PrintSettings{
		PrinterPowerWatts:  Float(v.Get(FieldPrinterPowerWatts)),
		ElectricityCostKwh: Float(v.Get(FieldElectricityCostKwh)),
		WorkPerHourCost:    Float(v.Get(FieldWorkPerHourCost)),
		ProfitPercent:      SignedFloat(v.Get(FieldProfitPercent)),
		SetupFee:           Float(v.Get(FieldSetupFee)),
	}
}

// NormalizeJob clamps the numeric job fields of an already structured value.
func NormalizeJob(job pricing.JobDetails) pricing.JobDetails {
	job.CustomerName = strings.TrimSpace(job.CustomerName)
	job.PartName = strings.TrimSpace(job.PartName)
	job.PartWeightGrams = Clamp(job.PartWeightGrams)
	job.PrintTimeHours = Clamp(job.PrintTimeHours)
	job.PrintTimeMinutes = Clamp(job.PrintTimeMinutes)
	return job
}

// NormalizeMaterial clamps the spool fields.
func NormalizeMaterial(m pricing.MaterialSettings) pricing.MaterialSettings {
	m.SpoolCost = Clamp(m.SpoolCost)
	m.SpoolWeightGrams = Clamp(m.SpoolWeightGrams)
	return m
}

// NormalizePrint clamps the policy fields, leaving a finite profit percent untouched.
func NormalizePrint(p pricing.PrintSettings) pricing.PrintSettings {
	p.PrinterPowerWatts = Clamp(p.PrinterPowerWatts)
	p.ElectricityCostKwh = Clamp(p.ElectricityCostKwh)
	p.WorkPerHourCost = Clamp(p.WorkPerHourCost)
	p.SetupFee = Clamp(p.SetupFee)
	if math.IsNaN(p.ProfitPercent) || math.IsInf(p.ProfitPercent, 0) {
		p.ProfitPercent = 0
	}
	return p
}

// Values encodes inputs back into form values, the inverse of Job, Material and Print.
func Values(job pricing.JobDetails, material pricing.MaterialSettings, printer pricing.PrintSettings) map[string]string {
	return map[string]string{
		FieldCustomerName:       job.CustomerName,
		FieldPartName:           job.PartName,
		FieldPartWeightGrams:    formatFloat(job.PartWeightGrams),
		FieldPrintTimeHours:     formatFloat(job.PrintTimeHours),
		FieldPrintTimeMinutes:   formatFloat(job.PrintTimeMinutes),
		FieldSpoolCost:          formatFloat(material.SpoolCost),
		FieldSpoolWeightGrams:   formatFloat(material.SpoolWeightGrams),
		FieldPrinterPowerWatts:  formatFloat(printer.PrinterPowerWatts),
		FieldElectricityCostKwh: formatFloat(printer.ElectricityCostKwh),
		FieldWorkPerHourCost:    formatFloat(printer.WorkPerHourCost),
		FieldProfitPercent:      formatFloat(printer.ProfitPercent),
		FieldSetupFee:           formatFloat(printer.SetupFee),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
