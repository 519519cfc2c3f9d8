package quote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/calc3d/internal/pricing"
)

func newCalculatedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(pricing.DefaultMaterialSettings(), pricing.DefaultPrintSettings())
	s.SetJob(pricing.JobDetails{PartName: "Vaso", PartWeightGrams: 50, PrintTimeHours: 2})
	_, err := s.Calculate()
	require.NoError(t, err)
	return s
}

func TestSession_DocumentRequiresCalculation(t *testing.T) {
	s := NewSession(pricing.DefaultMaterialSettings(), pricing.DefaultPrintSettings())

	_, err := s.Document(time.Now())
	assert.ErrorIs(t, err, ErrNotCalculated)

	_, ok := s.Breakdown()
	assert.False(t, ok)
}

func TestSession_CalculateThenDocument(t *testing.T) {
	s := newCalculatedSession(t)

	b, ok := s.Breakdown()
	require.True(t, ok)
	assert.InDelta(t, 62.466, b.TotalCost, 1e-9)

	doc, err := s.Document(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Vaso", doc.Part)
	assert.Equal(t, "R$\u00a062,47", doc.Total)
}

func TestSession_ChangingInputsInvalidates(t *testing.T) {
	changes := map[string]func(*Session){
		"job":      func(s *Session) { s.SetJob(pricing.JobDetails{PartWeightGrams: 10}) },
		"material": func(s *Session) { s.SetMaterial(pricing.MaterialSettings{SpoolCost: 1, SpoolWeightGrams: 1}) },
		"printer":  func(s *Session) { s.SetPrinter(pricing.PrintSettings{}) },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := newCalculatedSession(t)
			change(s)

			_, err := s.Document(time.Now())
			assert.ErrorIs(t, err, ErrNotCalculated)
		})
	}
}

func TestSession_FailedCalculationClearsBreakdown(t *testing.T) {
	s := newCalculatedSession(t)
	s.SetMaterial(pricing.MaterialSettings{SpoolCost: 120, SpoolWeightGrams: 0})

	_, err := s.Calculate()
	require.ErrorIs(t, err, pricing.ErrInvalidSpoolWeight)

	_, ok := s.Breakdown()
	assert.False(t, ok)
}

func TestSigner_RoundTrip(t *testing.T) {
	signer := NewSigner("secret")
	s := newCalculatedSession(t)

	token, err := signer.Sign(s)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// A fresh session rebuilt from the same inputs verifies.
	replay := NewSession(s.Material(), s.Printer())
	replay.SetJob(s.Job())
	assert.NoError(t, signer.Verify(token, replay))
}

func TestSigner_RejectsChangedInputs(t *testing.T) {
	signer := NewSigner("secret")
	s := newCalculatedSession(t)
	token, err := signer.Sign(s)
	require.NoError(t, err)

	job := s.Job()
	job.PartWeightGrams++
	s.SetJob(job)

	assert.ErrorIs(t, signer.Verify(token, s), ErrStaleQuote)
	assert.ErrorIs(t, signer.Verify("", s), ErrStaleQuote)
	assert.ErrorIs(t, signer.Verify("zz", s), ErrStaleQuote)
	assert.ErrorIs(t, NewSigner("other").Verify(token, newCalculatedSession(t)), ErrStaleQuote)
}

func TestSigner_SignRequiresCalculation(t *testing.T) {
	_, err := NewSigner("secret").Sign(NewSession(pricing.DefaultMaterialSettings(), pricing.DefaultPrintSettings()))
	assert.ErrorIs(t, err, ErrNotCalculated)
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret()
	require.NoError(t, err)
	b, err := RandomSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
