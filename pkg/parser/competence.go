package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNames = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
	"jan":       1,
	"fev":       2,
	"mar":       3,
	"abr":       4,
	"mai":       5,
	"jun":       6,
	"jul":       7,
	"ago":       8,
	"set":       9,
	"out":       10,
	"nov":       11,
	"dez":       12,
}

// Competence é o período contábil (mês/ano) ao qual uma venda pertence
type Competence struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Label retorna o rótulo armazenado no banco, ex: "12/2025"
func (c Competence) Label() string {
	return fmt.Sprintf("%d/%d", c.Month, c.Year)
}

// CompetenceOf deriva a competência a partir da data da venda
func CompetenceOf(t time.Time) Competence {
	return Competence{Month: int(t.Month()), Year: t.Year()}
}

// ParseCompetence aceita "dezembro-2025", "12-2025" ou "12/2025"
func ParseCompetence(v any) (Competence, error) {
	s := Fold(String(v))
	if s == "" {
		return Competence{}, ErrEmptyValue
	}

	sep := strings.LastIndexAny(s, "-/ ")
	if sep <= 0 || sep == len(s)-1 {
		return Competence{}, ErrInvalidPeriod
	}

	monthToken := strings.TrimSpace(s[:sep])
	yearToken := strings.TrimSpace(s[sep+1:])

	year, err := strconv.Atoi(yearToken)
	if err != nil || year < 1900 || year > 9999 {
		return Competence{}, ErrInvalidPeriod
	}

	month, err := strconv.Atoi(monthToken)
	if err != nil {
		var ok bool
		month, ok = monthNames[monthToken]
		if !ok {
			return Competence{}, ErrInvalidPeriod
		}
	}

	if month < 1 || month > 12 {
		return Competence{}, ErrInvalidPeriod
	}

	return Competence{Month: month, Year: year}, nil
}
