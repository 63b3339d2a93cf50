package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRL(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "R$ 1.234,56", want: 123456},
		{in: "1234,56", want: 123456},
		{in: "R$1.000.000,00", want: 100000000},
		{in: "1.234", want: 123400},
		{in: "1234.5", want: 123450},
		{in: "0,99", want: 99},
		{in: "-R$ 10,00", wantErr: true},
		{in: "-10,00", want: -1000},
		{in: "", wantErr: true},
		{in: "R$", wantErr: true},
		{in: "12,345", wantErr: true},
		{in: "1,2,3", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBRL(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(123456))
	assert.Equal(t, "R$ 0,05", FormatBRL(5))
	assert.Equal(t, "-R$ 10,00", FormatBRL(-1000))
}

func TestParseDateOnly(t *testing.T) {
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-03-15", "15/03/2024", " 2024-03-15 ", "2024-03-15T10:30:00Z", "2024-03-15T22:30:00-03:00", "2024-03-15T01:00:00+09:00"} {
		got, err := ParseDateOnly(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	for _, in := range []string{"", "15-03-2024", "2024/13/40", "amanhã"} {
		_, err := ParseDateOnly(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestFormatDateOnly(t *testing.T) {
	millis, err := ParseDateOnlyMillis("01/02/2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", FormatDateOnly(millis))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Politica de Seguranca", Fold("Política de Segurança"))
	assert.Equal(t, "1º termo aditivo", FoldLower("1º Termo Aditivo"))
	assert.Equal(t, "RESOLUCAO", FoldUpper("resolução"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "edital-no-01-2024", Slugify("Edital Nº 01/2024"))
	assert.Equal(t, "obras-na-praca-central", Slugify("  Obras na Praça Central! "))
	assert.Equal(t, "", Slugify("---"))
}

func TestCanonicalToken(t *testing.T) {
	assert.Equal(t, "TERMO_DE_REFERENCIA", CanonicalToken("Termo de Referência"))
	assert.Equal(t, "ORDEM_SERVICO", CanonicalToken("ordem-serviço"))
	assert.Equal(t, "", CanonicalToken("  "))
}
