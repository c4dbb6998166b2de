package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// AllSentinel e AllSentinelAlt desligam um filtro explicitamente
const (
	AllSentinel    = "0"
	AllSentinelAlt = "all"
)

var (
	ErrInvalidMonth    = errors.New("mês inválido, use valores de 1 a 12")
	ErrInvalidYear     = errors.New("ano inválido, use valores entre 2000 e 2100")
	ErrInvalidSemester = errors.New("semestre inválido, use 1 ou 2")
	ErrInvalidRange    = errors.New("data inicial posterior à data final")
)

// DashboardFilters são os filtros aceitos pelas telas de ranking, KPIs e listagem
type DashboardFilters struct {
	Month          string
	Year           string
	Semester       string
	Salesperson    string
	Administrator  string
	Search         string
	StartDate      *time.Time
	EndDate        *time.Time
	Salespeople    []string
	Administrators []string
}

// DateRange é um intervalo fechado [From, To]. Um lado zerado fica em aberto.
type DateRange struct {
	From time.Time
	To   time.Time
}

// SalePredicate é o resultado de BuildPredicate, pronto para virar SQL
type SalePredicate struct {
	Period         *DateRange
	Salesperson    string
	Administrator  string
	Salespeople    []string
	Administrators []string
	Search         string
}

// CacheKey identifica o predicado para o cache de leitura
func (p SalePredicate) CacheKey() string {
	var b strings.Builder
	if p.Period != nil {
		b.WriteString(p.Period.From.Format(time.RFC3339Nano))
		b.WriteString("~")
		b.WriteString(p.Period.To.Format(time.RFC3339Nano))
	}
	b.WriteString("|sp=" + strings.ToLower(p.Salesperson))
	b.WriteString("|adm=" + strings.ToLower(p.Administrator))
	b.WriteString("|sps=" + strings.ToLower(strings.Join(p.Salespeople, ",")))
	b.WriteString("|adms=" + strings.ToLower(strings.Join(p.Administrators, ",")))
	b.WriteString("|q=" + strings.ToLower(p.Search))
	return b.String()
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == AllSentinel || strings.EqualFold(v, AllSentinelAlt)
}

func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !isAll(v)
}

// Validate rejeita mês, ano e semestre fora do intervalo
func (f DashboardFilters) Validate() error {
	if isSet(f.Month) {
		m, err := strconv.Atoi(strings.TrimSpace(f.Month))
		if err != nil || m < 1 || m > 12 {
			return ErrInvalidMonth
		}
	}
	if isSet(f.Year) {
		y, err := strconv.Atoi(strings.TrimSpace(f.Year))
		if err != nil || y < 2000 || y > 2100 {
			return ErrInvalidYear
		}
	}
	if isSet(f.Semester) {
		s := strings.TrimSpace(f.Semester)
		if s != "1" && s != "2" {
			return ErrInvalidSemester
		}
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return ErrInvalidRange
	}
	return nil
}

// BuildPredicate aplica as regras de período padrão:
//  1. ano informado: mês dentro do ano, senão semestre, senão o ano inteiro;
//  2. apenas mês informado: mês do ano corrente;
//  3. nada informado: mês corrente, exceto quando mês e ano vêm com o sentinela "0"/"all",
//     caso em que não há filtro de data.
//
// StartDate/EndDate, quando presentes, substituem as regras acima.
func BuildPredicate(f DashboardFilters, now time.Time) SalePredicate {
	loc := now.Location()

	p := SalePredicate{
		Search:         strings.TrimSpace(f.Search),
		Salespeople:    cleanList(f.Salespeople),
		Administrators: cleanList(f.Administrators),
	}

	if isSet(f.Salesperson) {
		p.Salesperson = strings.TrimSpace(f.Salesperson)
	}
	if isSet(f.Administrator) {
		p.Administrator = strings.TrimSpace(f.Administrator)
	}

	if f.StartDate != nil || f.EndDate != nil {
		period := &DateRange{}
		if f.StartDate != nil {
			s := f.StartDate.In(loc)
			period.From = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
		}
		if f.EndDate != nil {
			e := f.EndDate.In(loc)
			period.To = endOfDay(time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, loc))
		}
		p.Period = period
		return p
	}

	month, monthOK := parseInt(f.Month)
	year, yearOK := parseInt(f.Year)

	switch {
	case isSet(f.Year) && yearOK:
		switch {
		case isSet(f.Month) && monthOK:
			p.Period = monthRange(year, time.Month(month), loc)
		case strings.TrimSpace(f.Semester) == "1":
			p.Period = &DateRange{
				From: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
				To:   endOfDay(time.Date(year, time.June, 30, 0, 0, 0, 0, loc)),
			}
		case strings.TrimSpace(f.Semester) == "2":
			p.Period = &DateRange{
				From: time.Date(year, time.July, 1, 0, 0, 0, 0, loc),
				To:   endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, loc)),
			}
		default:
			p.Period = &DateRange{
				From: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
				To:   endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, loc)),
			}
		}
	case isSet(f.Month) && monthOK:
		p.Period = monthRange(now.Year(), time.Month(month), loc)
	case isAll(f.Month) && isAll(f.Year):
		p.Period = nil
	default:
		p.Period = monthRange(now.Year(), now.Month(), loc)
	}

	return p
}

func monthRange(year int, month time.Month, loc *time.Location) *DateRange {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return &DateRange{From: first, To: endOfDay(last)}
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func parseInt(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return n, err == nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || isAll(v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Colunas ordenáveis da tabela sales
const (
	SortColumnSaleDate      = "sale_date"
	SortColumnSalesperson   = "salesperson"
	SortColumnNetValue      = "net_value"
	SortColumnGrossValue    = "gross_value"
	SortColumnAdministrator = "administrator"
)

var sortAliases = map[string]string{
	"datavenda":      SortColumnSaleDate,
	"saledate":       SortColumnSaleDate,
	"date":           SortColumnSaleDate,
	"consultornome":  SortColumnSalesperson,
	"consultor":      SortColumnSalesperson,
	"salesperson":    SortColumnSalesperson,
	"valorliquido":   SortColumnNetValue,
	"netvalue":       SortColumnNetValue,
	"valorbruto":     SortColumnGrossValue,
	"grossvalue":     SortColumnGrossValue,
	"administradora": SortColumnAdministrator,
	"administrator":  SortColumnAdministrator,
}

// Sort é uma ordenação já validada contra a lista de colunas permitidas
type Sort struct {
	Column    string
	Direction string
}

func (s Sort) String() string {
	return s.Column + " " + s.Direction
}

// ResolveSort converte o pedido do cliente em uma ordenação segura.
// Colunas fora da lista permitida caem em data da venda decrescente.
func ResolveSort(column, direction string) Sort {
	key := strings.Map(func(r rune) rune {
		if r == '_' || r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(column)))

	resolved, ok := sortAliases[key]
	if !ok {
		return Sort{Column: SortColumnSaleDate, Direction: "DESC"}
	}

	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(direction), "asc") {
		dir = "ASC"
	}

	return Sort{Column: resolved, Direction: dir}
}
