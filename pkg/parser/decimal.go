package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyValue     = errors.New("valor vazio")
	ErrInvalidDecimal = errors.New("valor numérico inválido")
	ErrInvalidDate    = errors.New("data inválida")
	ErrInvalidPeriod  = errors.New("competência inválida")
)

var currencySymbols = []string{"R$", "US$", "$", "€", "£"}

// ParseDecimal interpreta números em formato brasileiro ("R$ 1.234,56") ou
// americano ("1,234.56"). Quando os dois separadores aparecem, o que vem por
// último é o separador decimal.
func ParseDecimal(v any) (decimal.Decimal, error) {
	switch value := v.(type) {
	case nil:
		return decimal.Zero, ErrEmptyValue
	case decimal.Decimal:
		return value, nil
	case json.Number:
		return parseDecimalString(value.String())
	case float64:
		return decimal.NewFromFloat(value), nil
	case float32:
		return decimal.NewFromFloat32(value), nil
	case int:
		return decimal.NewFromInt(int64(value)), nil
	case int32:
		return decimal.NewFromInt32(value), nil
	case int64:
		return decimal.NewFromInt(value), nil
	case string:
		return parseDecimalString(value)
	default:
		return parseDecimalString(String(value))
	}
}

// DecimalOrZero devolve zero para qualquer valor ausente ou inválido
func DecimalOrZero(v any) decimal.Decimal {
	d, err := ParseDecimal(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDecimalString(raw string) (decimal.Decimal, error) {
	s := raw
	for _, symbol := range currencySymbols {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if s == "" {
		return decimal.Zero, ErrEmptyValue
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidDecimal
	}
	return d, nil
}
