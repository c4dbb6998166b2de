package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/parser"
)

// firstParam devolve o primeiro parâmetro preenchido entre os nomes aceitos
func firstParam(q url.Values, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// listParam aceita tanto ?x=a&x=b quanto ?x=a,b
func listParam(q url.Values, names ...string) []string {
	var out []string
	for _, name := range names {
		for _, raw := range q[name] {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					out = append(out, v)
				}
			}
		}
	}
	return out
}

func dateParam(q url.Values, loc *time.Location, names ...string) (*time.Time, error) {
	raw := firstParam(q, names...)
	if raw == "" {
		return nil, nil
	}
	t, err := parser.ParseDate(raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDashboardFilters lê os filtros da query string em português ou inglês
func parseDashboardFilters(q url.Values, loc *time.Location) (domain.DashboardFilters, error) {
	filters := domain.DashboardFilters{
		Month:          firstParam(q, "month", "mes"),
		Year:           firstParam(q, "year", "ano"),
		Semester:       firstParam(q, "semester", "semestre"),
		Salesperson:    firstParam(q, "salesperson", "consultor"),
		Administrator:  firstParam(q, "administrator", "administradora"),
		Search:         firstParam(q, "search", "q"),
		Salespeople:    listParam(q, "salespeople", "consultores"),
		Administrators: listParam(q, "administrators", "administradoras"),
	}

	start, err := dateParam(q, loc, "start_date", "data_inicio")
	if err != nil {
		return filters, err
	}
	end, err := dateParam(q, loc, "end_date", "data_fim")
	if err != nil {
		return filters, err
	}
	filters.StartDate = start
	filters.EndDate = end

	return filters, filters.Validate()
}

func parseSalesListQuery(q url.Values, loc *time.Location) (domain.SalesListQuery, error) {
	filters, err := parseDashboardFilters(q, loc)
	if err != nil {
		return domain.SalesListQuery{}, err
	}

	page, _ := strconv.Atoi(firstParam(q, "page", "pagina"))
	limit, _ := strconv.Atoi(firstParam(q, "limit", "limite"))

	return domain.SalesListQuery{
		Filters: filters,
		Page:    page,
		Limit:   limit,
		SortBy:  firstParam(q, "sort_by", "sortBy"),
		SortDir: firstParam(q, "sort_dir", "sortDir", "order"),
	}, nil
}
