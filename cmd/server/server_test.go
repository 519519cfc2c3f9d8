package main

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Simplici0/calc3d/internal/form"
	"github.com/Simplici0/calc3d/internal/pricing"
	"github.com/Simplici0/calc3d/internal/quote"
	"github.com/Simplici0/calc3d/internal/settings"
)

var issued = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

var tokenPattern = regexp.MustCompile(`name="token" value="([0-9a-f]+)"`)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (settings.Record, error) {
	return settings.Record{}, errors.New("store offline")
}

func (failingStore) Put(context.Context, settings.Record) error {
	return errors.New("store offline")
}

func newTestServer(t *testing.T, store settings.Store) (*server, http.Handler) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	srv := &server{
		settings: settings.NewRepository(store, logger),
		signer:   quote.NewSigner("test-secret"),
		logger:   logger,
		now:      func() time.Time { return issued },
	}
	return srv, srv.routes()
}

func quoteForm() url.Values {
	values := url.Values{}
	for k, v := range form.Values(
		pricing.JobDetails{CustomerName: "Ana", PartName: "Vaso Grande", PartWeightGrams: 50, PrintTimeHours: 2},
		pricing.DefaultMaterialSettings(),
		pricing.DefaultPrintSettings(),
	) {
		values.Set(k, v)
	}
	return values
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func post(h http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func calculate(t *testing.T, h http.Handler, values url.Values) string {
	t.Helper()
	rec := post(h, "/quote/calc", values)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	match := tokenPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "token not rendered")
	return match[1]
}

func TestHome_RendersStoredSettingsWithoutResults(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `name="printer_power_watts" type="number" min="0" step="10" value="350"`)
	assert.Contains(t, body, `value="0.92"`)
	assert.NotContains(t, body, "Custo Total Estimado")
	assert.NotContains(t, body, `name="token"`)
}

func TestQuoteCalc_RendersBreakdown(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	rec := post(h, "/quote/calc", quoteForm())
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, expected := range []string{
		"R$\u00a062,47", // total
		"R$\u00a06,00",  // material
		"R$\u00a00,64",  // energy
		"R$\u00a030,00", // labor
		"R$\u00a041,64", // base
		"&#43;50%",
		`action="/quote/export/pdf"`,
		`action="/quote/export/xlsx"`,
		`action="/quote/export/txt"`,
	} {
		assert.Contains(t, body, expected)
	}
	assert.Regexp(t, tokenPattern, body)
}

func TestQuoteCalc_SavesSettings(t *testing.T) {
	srv, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set(form.FieldSpoolCost, "150")
	values.Set(form.FieldProfitPercent, "30")
	calculate(t, h, values)

	ctx := context.Background()
	assert.Equal(t, 150.0, srv.settings.MaterialSettings(ctx).SpoolCost)
	assert.Equal(t, 30.0, srv.settings.PrintSettings(ctx).ProfitPercent)
}

func TestQuoteCalc_StoreFailureDoesNotBlockCalculation(t *testing.T) {
	_, h := newTestServer(t, failingStore{})

	rec := post(h, "/quote/calc", quoteForm())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "R$\u00a062,47")
}

func TestQuoteCalc_InvalidSpoolWeight(t *testing.T) {
	srv, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set(form.FieldSpoolWeightGrams, "0")

	rec := post(h, "/quote/calc", values)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "O peso do rolo deve ser maior que zero.")
	assert.NotContains(t, rec.Body.String(), `name="token"`)

	assert.Equal(t, pricing.DefaultMaterialSettings(), srv.settings.MaterialSettings(context.Background()))

	rec = get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="spool_weight_grams" type="number" min="0" step="100" value="1000"`)
}

func TestQuoteCalc_ShowsFractionalProfitPercent(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set(form.FieldProfitPercent, "12.5")

	rec := post(h, "/quote/calc", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "&#43;12,5%")
	assert.NotContains(t, rec.Body.String(), "&#43;13%")
}

func TestQuoteExport_Text(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set("token", calculate(t, h, values))

	rec := post(h, "/quote/export/txt", values)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "Orcamento_Vaso_Grande.txt", params["filename"])

	body := rec.Body.String()
	assert.Contains(t, body, "Data de Emissão: 17/10/2026")
	assert.Contains(t, body, "Validade: 24/10/2026")
	assert.Contains(t, body, "Cliente: Ana")
	assert.Contains(t, body, "VALOR TOTAL DO SERVIÇO: R$\u00a062,47")
}

func TestQuoteExport_PDF(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set("token", calculate(t, h, values))

	rec := post(h, "/quote/export/pdf", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestQuoteExport_RejectsChangedInputs(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set("token", calculate(t, h, values))
	values.Set(form.FieldPartWeightGrams, "80")

	rec := post(h, "/quote/export/pdf", values)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestQuoteExport_RequiresToken(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	rec := post(h, "/quote/export/pdf", quoteForm())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestQuoteExport_UnknownFormat(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set("token", calculate(t, h, values))

	rec := post(h, "/quote/export/docx", values)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettings_SaveAndReset(t *testing.T) {
	srv, h := newTestServer(t, settings.NewMemoryStore())
	ctx := context.Background()

	values := quoteForm()
	values.Set(form.FieldSpoolWeightGrams, "750")
	values.Set(form.FieldSetupFee, "8")

	rec := post(h, "/settings", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Configurações salvas.")
	assert.Equal(t, 750.0, srv.settings.MaterialSettings(ctx).SpoolWeightGrams)
	assert.Equal(t, 8.0, srv.settings.PrintSettings(ctx).SetupFee)

	rec = get(h, "/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="750"`)

	rec = post(h, "/settings/reset", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/settings?reset=1", rec.Header().Get("Location"))
	assert.Equal(t, pricing.DefaultMaterialSettings(), srv.settings.MaterialSettings(ctx))
	assert.Equal(t, pricing.DefaultPrintSettings(), srv.settings.PrintSettings(ctx))
}

func TestSettings_RejectsZeroSpoolWeight(t *testing.T) {
	srv, h := newTestServer(t, settings.NewMemoryStore())

	values := quoteForm()
	values.Set(form.FieldSpoolWeightGrams, "0")

	rec := post(h, "/settings", values)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, pricing.DefaultMaterialSettings(), srv.settings.MaterialSettings(context.Background()))
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t, settings.NewMemoryStore())

	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
