// Package export renders a calculated quote as a downloadable document.
package export

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Simplici0/calc3d/internal/pricing"
)

// ValidityDays is how long a quote stays valid after it is issued.
const ValidityDays = 7

const (
	dateLayout = "02/01/2006"

	title             = "ORÇAMENTO DE IMPRESSÃO 3D"
	customerHeading   = "Dados do Cliente / Projeto"
	technicalHeading  = "Resumo Técnico"
	totalHeading      = "VALOR TOTAL DO SERVIÇO"
	customerFallback  = "Não informado"
	partFallback      = "Peça Genérica"
	fileNameFallback  = "3D"
	fileNamePrefix    = "Orcamento_"
	footerScope       = "Este orçamento refere-se aos serviços de impressão 3D conforme especificações acima."
	footerGeneratedBy = "Gerado por Calc3D Pro"
	weightLabel       = "Peso Estimado da Peça"
	printTimeLabel    = "Tempo de Impressão Estimado"
	issueDateLabel    = "Data de Emissão"
	validUntilLabel   = "Validade"
	customerLabel     = "Cliente"
	partLabel         = "Peça"
	itemColumnLabel   = "Item"
	detailColumnLabel = "Detalhe"
)

// Format selects a document renderer.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

// ErrUnknownFormat is returned for formats without a renderer.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name or a file extension with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatPDF, FormatXLSX, FormatText:
		return f, nil
	case "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the rendered document.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Row is one line of the technical summary.
type Row struct {
	Label string
	Value string
}

// Document is the customer facing content of a quote, already formatted.
type Document struct {
	Title      string
	IssuedAt   time.Time
	ValidUntil time.Time
	Customer   string
	Part       string
	Summary    []Row
	Total      string

	partName string
}

// NewDocument builds the quote content from a breakdown and the inputs it was computed from.
func NewDocument(job pricing.JobDetails, breakdown pricing.Breakdown, issuedAt time.Time) Document {
	customer := strings.TrimSpace(job.CustomerName)
	if customer == "" {
		customer = customerFallback
	}
	part := strings.TrimSpace(job.PartName)
	if part == "" {
		part = partFallback
	}

	return Document{
		Title:      title,
		IssuedAt:   issuedAt,
		ValidUntil: issuedAt.AddDate(0, 0, ValidityDays),
		Customer:   customer,
		Part:       part,
		Summary: []Row{
			{Label: weightLabel, Value: pricing.FormatNumber2(job.PartWeightGrams) + " g"},
			{Label: printTimeLabel, Value: PrintTime(job)},
		},
		Total:    pricing.FormatCurrency(breakdown.TotalCost),
		partName: job.PartName,
	}
}

// PrintTime formats the entered duration as "{hours}h {minutes}m".
func PrintTime(job pricing.JobDetails) string {
	return formatPlain(job.PrintTimeHours) + "h " + formatPlain(job.PrintTimeMinutes) + "m"
}

// IssueDate is the issue date as dd/mm/yyyy.
func (d Document) IssueDate() string {
	return d.IssuedAt.Format(dateLayout)
}

// ValidityDate is the validity date as dd/mm/yyyy.
func (d Document) ValidityDate() string {
	return d.ValidUntil.Format(dateLayout)
}

// Footer returns the closing lines of the document.
func (d Document) Footer() []string {
	return []string{footerScope, footerGeneratedBy}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName returns the download name for format f.
func (d Document) FileName(f Format) string {
	name := whitespaceRun.ReplaceAllString(d.partName, "_")
	if name == "" {
		name = fileNameFallback
	}
	return fileNamePrefix + name + "." + string(f)
}

// Write renders doc in format f.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatPDF:
		return WritePDF(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	case FormatText:
		return WriteText(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
