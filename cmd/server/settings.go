package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/calc3d/internal/form"
	"github.com/Simplici0/calc3d/internal/pricing"
)

type settingsViewData struct {
	baseViewData
	Values map[string]string
}

func (s *server) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	data := s.settingsView(r)
	if r.URL.Query().Get("reset") == "1" {
		data.SuccessMessage = "Configurações restauradas para os valores padrão."
	}
	s.renderTemplate(w, "settings.html", data)
}

func (s *server) handleSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	material := form.Material(r.PostForm)
	printer := form.Print(r.PostForm)
	values := form.Values(pricing.JobDetails{}, material, printer)

	if material.SpoolWeightGrams <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "settings.html", settingsViewData{
			baseViewData: baseViewData{ErrorMessage: "O peso do rolo deve ser maior que zero."},
			Values:       values,
		})
		return
	}

	if err := s.settings.SaveMaterialSettings(r.Context(), material); err != nil {
		s.failSettings(w, values, err)
		return
	}
	if err := s.settings.SavePrintSettings(r.Context(), printer); err != nil {
		s.failSettings(w, values, err)
		return
	}

	s.renderTemplate(w, "settings.html", settingsViewData{
		baseViewData: baseViewData{SuccessMessage: "Configurações salvas."},
		Values:       values,
	})
}

func (s *server) handleSettingsReset(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.Reset(r.Context()); err != nil {
		s.logger.Error("failed to reset settings", zap.Error(err))
		http.Error(w, "failed to reset settings", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/settings?reset=1", http.StatusSeeOther)
}

func (s *server) settingsView(r *http.Request) settingsViewData {
	return settingsViewData{
		Values: form.Values(pricing.JobDetails{}, s.settings.MaterialSettings(r.Context()), s.settings.PrintSettings(r.Context())),
	}
}

func (s *server) failSettings(w http.ResponseWriter, values map[string]string, err error) {
	s.logger.Error("failed to save settings", zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	s.renderTemplate(w, "settings.html", settingsViewData{
		baseViewData: baseViewData{ErrorMessage: "Não foi possível salvar as configurações."},
		Values:       values,
	})
}
