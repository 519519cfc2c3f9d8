package main

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/calc3d/internal/export"
	"github.com/Simplici0/calc3d/internal/form"
	"github.com/Simplici0/calc3d/internal/pricing"
	"github.com/Simplici0/calc3d/internal/quote"
)

var exportFormats = []export.Format{export.FormatPDF, export.FormatXLSX, export.FormatText}

type quoteResult struct {
	Breakdown     pricing.Breakdown
	Composition   []pricing.Component
	ProfitPercent float64
	TotalHours    float64
	Token         string
	Formats       []export.Format
}

type quoteViewData struct {
	baseViewData
	Values map[string]string
	Result *quoteResult
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	material := s.settings.MaterialSettings(r.Context())
	printer := s.settings.PrintSettings(r.Context())

	s.renderTemplate(w, "quote.html", quoteViewData{
		Values: form.Values(pricing.JobDetails{}, material, printer),
	})
}

func (s *server) handleQuoteCalc(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	session := sessionFromForm(r)
	values := form.Values(session.Job(), session.Material(), session.Printer())

	breakdown, err := session.Calculate()
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderTemplate(w, "quote.html", quoteViewData{
			baseViewData: baseViewData{ErrorMessage: inputErrorMessage(err)},
			Values:       values,
		})
		return
	}
	s.saveSettings(r, session)

	token, err := s.signer.Sign(session)
	if err != nil {
		s.logger.Error("failed to sign quote", zap.Error(err))
		http.Error(w, "failed to sign quote", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quote.html", quoteViewData{
		Values: values,
		Result: &quoteResult{
			Breakdown:     breakdown,
			Composition:   breakdown.Composition(),
			ProfitPercent: session.Printer().ProfitPercent,
			TotalHours:    session.Job().TotalHours(),
			Token:         token,
			Formats:       exportFormats,
		},
	})
}

func (s *server) handleQuoteExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, "unknown export format", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	session := sessionFromForm(r)
	if err := s.signer.Verify(r.PostFormValue("token"), session); err != nil {
		http.Error(w, "recalcule o orçamento antes de exportar", http.StatusConflict)
		return
	}
	if _, err := session.Calculate(); err != nil {
		http.Error(w, inputErrorMessage(err), http.StatusUnprocessableEntity)
		return
	}

	doc, err := session.Document(s.now())
	if err != nil {
		http.Error(w, "quote not calculated", http.StatusConflict)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, doc); err != nil {
		s.logger.Error("failed to render document", zap.String("format", string(format)), zap.Error(err))
		http.Error(w, "failed to render document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName(format)}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func sessionFromForm(r *http.Request) *quote.Session {
	session := quote.NewSession(form.Material(r.PostForm), form.Print(r.PostForm))
	session.SetJob(form.Job(r.PostForm))
	return session
}

// saveSettings stores the settings of a successful calculation. Failures are logged only.
func (s *server) saveSettings(r *http.Request, session *quote.Session) {
	if err := s.settings.SaveMaterialSettings(r.Context(), session.Material()); err != nil {
		s.logger.Warn("failed to save material settings", zap.Error(err))
	}
	if err := s.settings.SavePrintSettings(r.Context(), session.Printer()); err != nil {
		s.logger.Warn("failed to save print settings", zap.Error(err))
	}
}

func inputErrorMessage(err error) string {
	if errors.Is(err, pricing.ErrInvalidSpoolWeight) {
		return "O peso do rolo deve ser maior que zero."
	}
	return "Não foi possível calcular o orçamento."
}
