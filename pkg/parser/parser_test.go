package parser

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr error
	}{
		{name: "formato brasileiro com moeda", input: "R$ 1.234,56", want: "1234.56"},
		{name: "formato americano", input: "1,234.56", want: "1234.56"},
		{name: "somente vírgula decimal", input: "150,5", want: "150.5"},
		{name: "somente ponto decimal", input: "150.5", want: "150.5"},
		{name: "milhares com vários pontos", input: "1.234.567", want: "1234567"},
		{name: "milhares com várias vírgulas", input: "1,234,567", want: "1234567"},
		{name: "espaço não separável", input: "R$\u00a02.000,00", want: "2000"},
		{name: "float64", input: 300.25, want: "300.25"},
		{name: "inteiro", input: 100, want: "100"},
		{name: "json.Number", input: json.Number("99.90"), want: "99.9"},
		{name: "texto vazio", input: "", wantErr: ErrEmptyValue},
		{name: "nil", input: nil, wantErr: ErrEmptyValue},
		{name: "apenas símbolo de moeda", input: "R$ ", wantErr: ErrEmptyValue},
		{name: "texto inválido", input: "abc", wantErr: ErrInvalidDecimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "esperado %s, obtido %s", tt.want, got)
		})
	}
}

func TestDecimalOrZero(t *testing.T) {
	assert.True(t, DecimalOrZero("").IsZero())
	assert.True(t, DecimalOrZero(nil).IsZero())
	assert.True(t, DecimalOrZero("lixo").IsZero())
	assert.True(t, decimal.RequireFromString("1234.56").Equal(DecimalOrZero("R$ 1.234,56")))
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     any
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantErr   error
	}{
		{name: "formato brasileiro", input: "17/12/2025", wantYear: 2025, wantMonth: time.December, wantDay: 17},
		{name: "formato brasileiro com horário descartado", input: "17/12/2025 14:30:00", wantYear: 2025, wantMonth: time.December, wantDay: 17},
		{name: "dia e mês com um dígito", input: "5/3/2024", wantYear: 2024, wantMonth: time.March, wantDay: 5},
		{name: "ISO somente data", input: "2025-12-17", wantYear: 2025, wantMonth: time.December, wantDay: 17},
		{name: "ISO com horário", input: "2025-12-17T10:20:30", wantYear: 2025, wantMonth: time.December, wantDay: 17},
		{name: "RFC3339", input: "2025-12-17T10:20:30-03:00", wantYear: 2025, wantMonth: time.December, wantDay: 17},
		{name: "texto inválido", input: "not-a-date", wantErr: ErrInvalidDate},
		{name: "data inexistente", input: "31/02/2025", wantErr: ErrInvalidDate},
		{name: "mês inválido", input: "10/13/2025", wantErr: ErrInvalidDate},
		{name: "vazio", input: "", wantErr: ErrEmptyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, loc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, got.Year())
			assert.Equal(t, tt.wantMonth, got.Month())
			assert.Equal(t, tt.wantDay, got.Day())
		})
	}
}

func TestParseDate_SomenteDataUsaMeiaNoiteNoFuso(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	got, err := ParseDate("17/12/2025", loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 12, 17, 0, 0, 0, 0, loc), got)
}

func TestParseCompetence(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    Competence
		wantErr bool
	}{
		{name: "nome do mês", input: "dezembro-2025", want: Competence{Month: 12, Year: 2025}},
		{name: "número do mês", input: "12-2025", want: Competence{Month: 12, Year: 2025}},
		{name: "barra", input: "3/2024", want: Competence{Month: 3, Year: 2024}},
		{name: "mês com acento", input: "Março-2024", want: Competence{Month: 3, Year: 2024}},
		{name: "mês sem acento", input: "marco-2024", want: Competence{Month: 3, Year: 2024}},
		{name: "mês desconhecido", input: "xyz-2025", wantErr: true},
		{name: "mês fora do intervalo", input: "13-2025", wantErr: true},
		{name: "sem ano", input: "dezembro", wantErr: true},
		{name: "vazio", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompetence(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompetenceLabel(t *testing.T) {
	assert.Equal(t, "12/2025", Competence{Month: 12, Year: 2025}.Label())
	assert.Equal(t, "3/2024", CompetenceOf(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)).Label())
}

func TestLookup(t *testing.T) {
	record := map[string]any{
		"Valor Líquido": "100,00",
		"valor_bruto":   "120,00",
		"consultor":     "Ana",
	}

	tests := []struct {
		name       string
		candidates []string
		want       any
		found      bool
	}{
		{name: "chave exata", candidates: []string{"consultor"}, want: "Ana", found: true},
		{name: "camelCase contra snake_case", candidates: []string{"valorBruto"}, want: "120,00", found: true},
		{name: "acento e espaço", candidates: []string{"valor_liquido"}, want: "100,00", found: true},
		{name: "ordem dos candidatos", candidates: []string{"inexistente", "consultor"}, want: "Ana", found: true},
		{name: "ausente", candidates: []string{"administradora"}, want: nil, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(record, tt.candidates...)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "valorliquido", NormalizeKey("Valor Líquido"))
	assert.Equal(t, "valorliquido", NormalizeKey("valor_liquido"))
	assert.Equal(t, "valorliquido", NormalizeKey("valorLiquido"))
	assert.Equal(t, "datavenda", NormalizeKey("data-venda"))
}
