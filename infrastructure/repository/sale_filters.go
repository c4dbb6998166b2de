package repository

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyPredicate traduz o predicado do domínio para cláusulas WHERE
func applyPredicate(sb squirrel.SelectBuilder, p domain.SalePredicate) squirrel.SelectBuilder {
	if p.Period != nil {
		if !p.Period.From.IsZero() {
			sb = sb.Where(squirrel.GtOrEq{"sale_date": p.Period.From})
		}
		if !p.Period.To.IsZero() {
			sb = sb.Where(squirrel.LtOrEq{"sale_date": p.Period.To})
		}
	}

	if p.Salesperson != "" {
		sb = sb.Where("lower(salesperson) = lower(?)", p.Salesperson)
	}
	if p.Administrator != "" {
		sb = sb.Where("lower(administrator) = lower(?)", p.Administrator)
	}

	if len(p.Salespeople) > 0 {
		sb = sb.Where(squirrel.Eq{"salesperson": p.Salespeople})
	}
	if len(p.Administrators) > 0 {
		sb = sb.Where(squirrel.Eq{"administrator": p.Administrators})
	}

	if p.Search != "" {
		pattern := "%" + likeEscaper.Replace(p.Search) + "%"
		sb = sb.Where(squirrel.Or{
			squirrel.ILike{"salesperson": pattern},
			squirrel.ILike{"administrator": pattern},
			squirrel.ILike{"group_code": pattern},
			squirrel.ILike{"quota_code": pattern},
		})
	}

	return sb
}

func rankingQuery(p domain.SalePredicate) squirrel.SelectBuilder {
	sb := squirrel.
		Select(
			"salesperson",
			"COALESCE(SUM(net_value), 0)",
			"COALESCE(SUM(gross_value), 0)",
			"COUNT(*)",
		).
		From(salesTable).
		GroupBy("salesperson").
		// empate no total líquido é desfeito pelo nome, para a posição ser estável
		OrderBy("SUM(net_value) DESC", "salesperson ASC").
		PlaceholderFormat(squirrel.Dollar)

	return applyPredicate(sb, p)
}

func totalsQuery(p domain.SalePredicate) squirrel.SelectBuilder {
	sb := squirrel.
		Select(
			"COALESCE(SUM(net_value), 0)",
			"COALESCE(SUM(gross_value), 0)",
			"COUNT(*)",
		).
		From(salesTable).
		PlaceholderFormat(squirrel.Dollar)

	return applyPredicate(sb, p)
}

func listQuery(p domain.SalePredicate, sort domain.Sort, limit, offset int) squirrel.SelectBuilder {
	sb := squirrel.
		Select(saleColumns...).
		From(salesTable).
		// sort vem de domain.ResolveSort, que só devolve colunas da lista permitida
		OrderBy(sort.String(), "id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	return applyPredicate(sb, p)
}
