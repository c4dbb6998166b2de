// Package migration aplica o schema do banco com goose a partir dos arquivos embutidos em sql/
package migration

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var migrations embed.FS

const migrationsDir = "sql"

func setup() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(logrus.StandardLogger())
	return goose.SetDialect("postgres")
}

// Up aplica todas as migrações pendentes
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return errors.Wrap(err, "erro ao configurar goose")
	}

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return errors.Wrap(err, "erro ao aplicar migrações")
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err == nil {
		logrus.WithField("version", version).Info("Migrações aplicadas")
	}

	return nil
}

// Down desfaz a última migração aplicada
func Down(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return errors.Wrap(err, "erro ao configurar goose")
	}

	return errors.Wrap(goose.DownContext(ctx, db, migrationsDir), "erro ao desfazer migração")
}
