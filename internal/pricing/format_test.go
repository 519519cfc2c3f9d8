package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{62.466, "R$\u00a062,47"},
		{41.644, "R$\u00a041,64"},
		{0, "R$\u00a00,00"},
		{6, "R$\u00a06,00"},
		{1234.5, "R$\u00a01.234,50"},
		{1234567.891, "R$\u00a01.234.567,89"},
		{-30, "-R$\u00a030,00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCurrency(tc.in), "FormatCurrency(%v)", tc.in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "50,00", FormatNumber2(50))
	assert.Equal(t, "0,64", FormatNumber(0.644, 2))
	assert.Equal(t, "0,644", FormatNumber(0.644, 3))
	assert.Equal(t, "12.346", FormatNumber(12345.6, 0))
	assert.Equal(t, "1.000,5", FormatNumber(1000.5, 1))
}

func TestFormatNumber_ClampsDecimals(t *testing.T) {
	assert.Equal(t, FormatNumber(3, 0), FormatNumber(3, -4))
	assert.Equal(t, "3,000000000", FormatNumber(3, 42))
}

func TestFormatNumber_NoNegativeZero(t *testing.T) {
	assert.Equal(t, "0,00", FormatNumber(-0.001, 2))
}

func TestFormatCurrency_LargeAmounts(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1e19, "R$\u00a010.000.000.000.000.000.000,00"},
		{9.3e18, "R$\u00a09.300.000.000.000.000.000,00"},
		{-1e19, "-R$\u00a010.000.000.000.000.000.000,00"},
		{1 << 53, "R$\u00a09.007.199.254.740.992,00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCurrency(tc.in), "FormatCurrency(%v)", tc.in)
	}

	huge := FormatCurrency(1e300)
	assert.True(t, strings.HasPrefix(huge, "R$\u00a01.000.000."), huge)
	assert.True(t, strings.HasSuffix(huge, ",00"), huge)
}

func TestFormatNumber_LargeValuesStayPositive(t *testing.T) {
	assert.Equal(t, "100.000.000.000.000.000.000", FormatNumber(1e20, 0))
	assert.Equal(t, "100.000.000.000.000.000.000,0", FormatNumber(1e20, 1))
}

func TestFormatPercent(t *testing.T) {
	cases := map[float64]string{
		50:     "50",
		12.5:   "12,5",
		-10:    "-10",
		33.333: "33,33",
		0:      "0",
		1500:   "1.500",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPercent(in), "FormatPercent(%v)", in)
	}
}
