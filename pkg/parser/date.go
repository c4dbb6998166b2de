package parser

import (
	"strconv"
	"strings"
	"time"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate aceita datas ISO-8601 (com ou sem horário) e DD/MM/AAAA.
// No formato brasileiro o horário que vier depois da data é descartado.
// Datas sem fuso são interpretadas em loc.
func ParseDate(v any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	if t, ok := v.(time.Time); ok {
		return t, nil
	}

	s := String(v)
	if s == "" {
		return time.Time{}, ErrEmptyValue
	}

	if strings.Contains(s, "/") {
		return parseBrazilianDate(s, loc)
	}

	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

func parseBrazilianDate(s string, loc *time.Location) (time.Time, error) {
	datePart := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == 'T' || r == ','
	})
	if len(datePart) == 0 {
		return time.Time{}, ErrInvalidDate
	}

	parts := strings.Split(datePart[0], "/")
	if len(parts) != 3 {
		return time.Time{}, ErrInvalidDate
	}

	day, errDay := strconv.Atoi(parts[0])
	month, errMonth := strconv.Atoi(parts[1])
	year, errYear := strconv.Atoi(parts[2])
	if errDay != nil || errMonth != nil || errYear != nil || len(parts[2]) != 4 {
		return time.Time{}, ErrInvalidDate
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, ErrInvalidDate
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normaliza 31/02 para março
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, ErrInvalidDate
	}

	return t, nil
}
