// Package quote ties inputs, the breakdown computed from them and the export
// document together, so a document always reflects the inputs it was priced with.
package quote

import (
	"errors"
	"time"

	"github.com/Simplici0/calc3d/internal/export"
	"github.com/Simplici0/calc3d/internal/pricing"
)

// ErrNotCalculated is returned when a document is requested before the current
// inputs have been priced.
var ErrNotCalculated = errors.New("quote has not been calculated for the current inputs")

// Session holds the inputs of one quote and the last breakdown computed from them.
// It is not safe for concurrent use.
type Session struct {
	job      pricing.JobDetails
	material pricing.MaterialSettings
	printer  pricing.PrintSettings

	breakdown  pricing.Breakdown
	calculated bool
}

// NewSession starts a quote with an empty job and the given settings.
func NewSession(material pricing.MaterialSettings, printer pricing.PrintSettings) *Session {
	return &Session{material: material, printer: printer}
}

// SetJob replaces the job and discards the current breakdown.
func (s *Session) SetJob(job pricing.JobDetails) {
	s.job = job
	s.calculated = false
}

// SetMaterial replaces the spool settings and discards the current breakdown.
func (s *Session) SetMaterial(material pricing.MaterialSettings) {
	s.material = material
	s.calculated = false
}

// SetPrinter replaces the pricing policy and discards the current breakdown.
func (s *Session) SetPrinter(printer pricing.PrintSettings) {
	s.printer = printer
	s.calculated = false
}

// Job returns the current job.
func (s *Session) Job() pricing.JobDetails { return s.job }

// Material returns the current spool settings.
func (s *Session) Material() pricing.MaterialSettings { return s.material }

// Printer returns the current pricing policy.
func (s *Session) Printer() pricing.PrintSettings { return s.printer }

// Calculate prices the current inputs and keeps the result. A failed
// calculation leaves the session without a breakdown.
func (s *Session) Calculate() (pricing.Breakdown, error) {
	b, err := pricing.Calculate(s.job, s.material, s.printer)
	if err != nil {
		s.breakdown = pricing.Breakdown{}
		s.calculated = false
		return pricing.Breakdown{}, err
	}
	s.breakdown = b
	s.calculated = true
	return b, nil
}

// Breakdown returns the breakdown of the current inputs, if one was computed.
func (s *Session) Breakdown() (pricing.Breakdown, bool) {
	return s.breakdown, s.calculated
}

// Document builds the export document for the current breakdown.
func (s *Session) Document(issuedAt time.Time) (export.Document, error) {
	if !s.calculated {
		return export.Document{}, ErrNotCalculated
	}
	return export.NewDocument(s.job, s.breakdown, issuedAt), nil
}
