// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

//go:generate mockgen -source=sale.go -destination=mocks/sale.go -package=mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-ranking-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/utils"
)

const salesTable = "sales"

var saleColumns = []string{
	"id",
	"salesperson",
	"administrator",
	"group_code",
	"quota_code",
	"gross_value",
	"net_value",
	"sale_date",
	"competence",
	"created_at",
	"updated_at",
}

// ErrDuplicateSale indica que já existe venda com a mesma chave de negócio
var ErrDuplicateSale = errors.New("venda já cadastrada para administradora, grupo e cota")

type SaleRepository interface {
	// UpsertByBusinessKey atualiza a venda com a mesma chave de negócio ou cria uma nova.
	// Retorna o id resultante e se a venda foi criada.
	UpsertByBusinessKey(ctx context.Context, sale *domain.Sale) (string, bool, error)
	// CreateUnique cria a venda e retorna ErrDuplicateSale se a chave de negócio já existir
	CreateUnique(ctx context.Context, sale *domain.Sale) error
	Ranking(ctx context.Context, predicate domain.SalePredicate) ([]domain.RankingRow, error)
	Totals(ctx context.Context, predicate domain.SalePredicate) (domain.SaleTotals, error)
	List(ctx context.Context, predicate domain.SalePredicate, sort domain.Sort, limit, offset int) ([]domain.Sale, error)
	ListAll(ctx context.Context, predicate domain.SalePredicate, sort domain.Sort, limit int) ([]domain.Sale, error)
	Recent(ctx context.Context, limit int) ([]domain.Sale, error)
	FilterOptions(ctx context.Context) (domain.FilterOptions, error)
	TopByNetValue(ctx context.Context, limit int) ([]domain.Sale, error)
	Duplicates(ctx context.Context) ([]domain.DuplicateGroup, error)
	LastUpdate(ctx context.Context) (*time.Time, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type saleRepository struct {
	conn postgres.Conn
}

func NewSaleRepository(conn postgres.Conn) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(row rowScanner) (domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.ID,
		&s.Salesperson,
		&s.Administrator,
		&s.Group,
		&s.Quota,
		&s.GrossValue,
		&s.NetValue,
		&s.SaleDate,
		&s.Competence,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *saleRepository) querySales(ctx context.Context, q postgres.Queryer, sb squirrel.SelectBuilder) ([]domain.Sale, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query")
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear venda")
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return sales, nil
}

const lockBusinessKeySQL = "SELECT pg_advisory_xact_lock(hashtext($1))"

// lockBusinessKey serializa, até o fim da transação, as escritas na mesma chave de negócio.
// O lock vale entre processos que compartilham o banco.
func lockBusinessKey(ctx context.Context, tx *sql.Tx, key domain.BusinessKey) error {
	_, err := tx.ExecContext(ctx, lockBusinessKeySQL, key.String())
	return errors.Wrap(err, "erro ao obter lock da chave de negócio")
}

func businessKeyQuery(key domain.BusinessKey) squirrel.SelectBuilder {
	return squirrel.
		Select("id").
		From(salesTable).
		Where(squirrel.Eq{
			"administrator": key.Administrator,
			"group_code":    key.Group,
			"quota_code":    key.Quota,
		}).
		// chaves legadas podem ter mais de uma linha; a mais antiga é a atualizada
		OrderBy("created_at ASC", "id ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)
}

func findIDByBusinessKey(ctx context.Context, tx *sql.Tx, key domain.BusinessKey) (string, error) {
	query, args, err := businessKeyQuery(key).ToSql()
	if err != nil {
		return "", errors.Wrap(err, "erro ao construir a query")
	}

	var id string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "erro ao buscar venda pela chave de negócio")
	}
	return id, nil
}

func insertSaleQuery(sale *domain.Sale) squirrel.InsertBuilder {
	return squirrel.
		Insert(salesTable).
		Columns(
			"id",
			"salesperson",
			"administrator",
			"group_code",
			"quota_code",
			"gross_value",
			"net_value",
			"sale_date",
			"competence",
		).
		Values(
			sale.ID,
			sale.Salesperson,
			sale.Administrator,
			sale.Group,
			sale.Quota,
			sale.GrossValue,
			sale.NetValue,
			sale.SaleDate,
			sale.Competence,
		).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)
}

func insertSale(ctx context.Context, tx *sql.Tx, sale *domain.Sale) error {
	if sale.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return errors.Wrap(err, "erro ao gerar id da venda")
		}
		sale.ID = id
	}

	query, args, err := insertSaleQuery(sale).ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&sale.CreatedAt, &sale.UpdatedAt)
	return errors.Wrap(err, "erro ao inserir venda")
}

func updateSaleQuery(id string, sale *domain.Sale) squirrel.UpdateBuilder {
	return squirrel.
		Update(salesTable).
		Set("salesperson", sale.Salesperson).
		Set("gross_value", sale.GrossValue).
		Set("net_value", sale.NetValue).
		Set("sale_date", sale.SaleDate).
		Set("competence", sale.Competence).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)
}

func updateSale(ctx context.Context, tx *sql.Tx, id string, sale *domain.Sale) error {
	query, args, err := updateSaleQuery(id, sale).ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de atualização")
	}

	sale.ID = id
	err = tx.QueryRowContext(ctx, query, args...).Scan(&sale.CreatedAt, &sale.UpdatedAt)
	return errors.Wrap(err, "erro ao atualizar venda")
}

func (r *saleRepository) UpsertByBusinessKey(ctx context.Context, sale *domain.Sale) (string, bool, error) {
	created := false

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		key := sale.BusinessKey()
		if err := lockBusinessKey(ctx, tx, key); err != nil {
			return err
		}

		id, err := findIDByBusinessKey(ctx, tx, key)
		if err != nil {
			return err
		}

		if id != "" {
			return updateSale(ctx, tx, id, sale)
		}

		created = true
		return insertSale(ctx, tx, sale)
	})
	if err != nil {
		return "", false, err
	}

	return sale.ID, created, nil
}

func (r *saleRepository) CreateUnique(ctx context.Context, sale *domain.Sale) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		key := sale.BusinessKey()
		if err := lockBusinessKey(ctx, tx, key); err != nil {
			return err
		}

		id, err := findIDByBusinessKey(ctx, tx, key)
		if err != nil {
			return err
		}
		if id != "" {
			return ErrDuplicateSale
		}

		return insertSale(ctx, tx, sale)
	})
}

func (r *saleRepository) Ranking(ctx context.Context, predicate domain.SalePredicate) ([]domain.RankingRow, error) {
	query, args, err := rankingQuery(predicate).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query de ranking")
	}
	defer rows.Close()

	ranking := make([]domain.RankingRow, 0)
	for rows.Next() {
		var row domain.RankingRow
		if err := rows.Scan(&row.Salesperson, &row.NetTotal, &row.GrossTotal, &row.SalesCount); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear linha do ranking")
		}
		ranking = append(ranking, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return ranking, nil
}

func (r *saleRepository) Totals(ctx context.Context, predicate domain.SalePredicate) (domain.SaleTotals, error) {
	var totals domain.SaleTotals

	query, args, err := totalsQuery(predicate).ToSql()
	if err != nil {
		return totals, errors.Wrap(err, "erro ao construir a query")
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&totals.NetTotal, &totals.GrossTotal, &totals.Count)
	if err != nil {
		return domain.SaleTotals{}, errors.Wrap(err, "erro ao calcular totais")
	}

	return totals, nil
}

func (r *saleRepository) List(ctx context.Context, predicate domain.SalePredicate, sort domain.Sort, limit, offset int) ([]domain.Sale, error) {
	return r.querySales(ctx, r.conn, listQuery(predicate, sort, limit, offset))
}

func (r *saleRepository) ListAll(ctx context.Context, predicate domain.SalePredicate, sort domain.Sort, limit int) ([]domain.Sale, error) {
	return r.querySales(ctx, r.conn, listQuery(predicate, sort, limit, 0))
}

func (r *saleRepository) Recent(ctx context.Context, limit int) ([]domain.Sale, error) {
	sb := squirrel.
		Select(saleColumns...).
		From(salesTable).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.querySales(ctx, r.conn, sb)
}

func (r *saleRepository) TopByNetValue(ctx context.Context, limit int) ([]domain.Sale, error) {
	sb := squirrel.
		Select(saleColumns...).
		From(salesTable).
		OrderBy("net_value DESC", "id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.querySales(ctx, r.conn, sb)
}

func (r *saleRepository) distinct(ctx context.Context, column string) ([]string, error) {
	query, args, err := squirrel.
		Select(column).
		Distinct().
		From(salesTable).
		Where(squirrel.NotEq{column: ""}).
		OrderBy(column + " ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao listar valores distintos de %s", column)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear valor")
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

func (r *saleRepository) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	salespeople, err := r.distinct(ctx, "salesperson")
	if err != nil {
		return domain.FilterOptions{}, err
	}

	administrators, err := r.distinct(ctx, "administrator")
	if err != nil {
		return domain.FilterOptions{}, err
	}

	return domain.FilterOptions{
		Salespeople:    salespeople,
		Administrators: administrators,
	}, nil
}

func (r *saleRepository) Duplicates(ctx context.Context) ([]domain.DuplicateGroup, error) {
	query, args, err := squirrel.
		Select(
			"administrator",
			"group_code",
			"quota_code",
			"COUNT(*)",
			"array_agg(id ORDER BY created_at)",
		).
		From(salesTable).
		GroupBy("administrator", "group_code", "quota_code").
		Having("COUNT(*) > 1").
		OrderBy("COUNT(*) DESC", "administrator ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar duplicidades")
	}
	defer rows.Close()

	groups := make([]domain.DuplicateGroup, 0)
	for rows.Next() {
		var g domain.DuplicateGroup
		if err := rows.Scan(&g.Administrator, &g.Group, &g.Quota, &g.Count, pq.Array(&g.SaleIDs)); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear duplicidade")
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return groups, nil
}

func (r *saleRepository) LastUpdate(ctx context.Context) (*time.Time, error) {
	var last sql.NullTime
	err := r.conn.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM "+salesTable).Scan(&last)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar última atualização")
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (r *saleRepository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		query, args, err := squirrel.Delete(salesTable).PlaceholderFormat(squirrel.Dollar).ToSql()
		if err != nil {
			return errors.Wrap(err, "erro ao construir query de exclusão")
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "erro ao excluir vendas")
		}

		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
