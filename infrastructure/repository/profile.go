package repository

//go:generate mockgen -source=profile.go -destination=mocks/profile.go -package=mocks

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-ranking-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
)

const profilesTable = "user_profiles"

var profileColumns = []string{
	"id",
	"sheet_name",
	"display_name",
	"photo_url",
	"created_at",
	"updated_at",
}

// ErrProfileSheetNameTaken indica que outro perfil já usa o mesmo nome de planilha
var ErrProfileSheetNameTaken = errors.New("nome na planilha já cadastrado")

// ErrProfileGone indica que o perfil sumiu antes da atualização
var ErrProfileGone = errors.New("perfil não encontrado")

type ProfileRepository interface {
	List(ctx context.Context) ([]domain.UserProfile, error)
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	// SheetNameExists compara sem diferenciar maiúsculas; excludeID ignora o próprio perfil
	SheetNameExists(ctx context.Context, sheetName string, excludeID string) (bool, error)
	Create(ctx context.Context, profile *domain.UserProfile) error
	Update(ctx context.Context, profile *domain.UserProfile) error
	Delete(ctx context.Context, id string) (bool, error)
}

type profileRepository struct {
	conn postgres.Conn
}

func NewProfileRepository(conn postgres.Conn) ProfileRepository {
	return &profileRepository{
		conn: conn,
	}
}

func scanProfile(row rowScanner) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var photo sql.NullString

	err := row.Scan(&p.ID, &p.SheetName, &p.DisplayName, &photo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if photo.Valid && photo.String != "" {
		p.PhotoURL = &photo.String
	}

	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	query, args, err := squirrel.
		Select(profileColumns...).
		From(profilesTable).
		OrderBy("display_name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar perfis")
	}
	defer rows.Close()

	profiles := make([]domain.UserProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear perfil")
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return profiles, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	query, args, err := squirrel.
		Select(profileColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	profile, err := scanProfile(r.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar perfil")
	}

	return profile, nil
}

func (r *profileRepository) SheetNameExists(ctx context.Context, sheetName string, excludeID string) (bool, error) {
	sb := squirrel.
		Select("1").
		From(profilesTable).
		Where("lower(sheet_name) = lower(?)", sheetName).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	if excludeID != "" {
		sb = sb.Where(squirrel.NotEq{"id": excludeID})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return false, errors.Wrap(err, "erro ao construir a query")
	}

	var one int
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "erro ao verificar nome na planilha")
	}

	return true, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	query, args, err := squirrel.
		Insert(profilesTable).
		Columns("id", "sheet_name", "display_name", "photo_url").
		Values(profile.ID, profile.SheetName, profile.DisplayName, profile.PhotoURL).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return ErrProfileSheetNameTaken
	}

	return errors.Wrap(err, "erro ao criar perfil")
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	query, args, err := squirrel.
		Update(profilesTable).
		Set("sheet_name", profile.SheetName).
		Set("display_name", profile.DisplayName).
		Set("photo_url", profile.PhotoURL).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": profile.ID}).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de atualização")
	}

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return ErrProfileSheetNameTaken
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileGone
	}

	return errors.Wrap(err, "erro ao atualizar perfil")
}

func (r *profileRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := squirrel.
		Delete(profilesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "erro ao construir query de exclusão")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrap(err, "erro ao excluir perfil")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
