// Comando de manutenção do banco: aplica ou desfaz migrações e importa perfis
// de consultores a partir de uma planilha CSV ou XLSX.
//
//	go run ./infrastructure/migration/script -cmd up
//	go run ./infrastructure/migration/script -cmd seed-profiles -file perfis.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-ranking-api/infrastructure/migration"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/internal/config"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/profiling"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

const (
	cmdUp           = "up"
	cmdDown         = "down"
	cmdSeedProfiles = "seed-profiles"

	scriptTimeout = 5 * time.Minute
)

func main() {
	cmd := flag.String("cmd", cmdUp, "up | down | seed-profiles")
	file := flag.String("file", "", "planilha de perfis (.csv ou .xlsx) para seed-profiles")
	dsn := flag.String("dsn", "", "string de conexão; por padrão usa a configuração da API")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Configure(cfg.App.LogLevel)

	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}

	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()

	switch *cmd {
	case cmdUp:
		err = migration.Up(ctx, conn.DB)
	case cmdDown:
		err = migration.Down(ctx, conn.DB)
	case cmdSeedProfiles:
		err = seedProfiles(ctx, conn, *file)
	default:
		logrus.Fatalf("Comando desconhecido: %s", *cmd)
	}

	if err != nil {
		logrus.WithError(err).Error("Script finalizado com erro")
		os.Exit(1)
	}

	logrus.WithField("elapsed", time.Since(startTime).String()).Info("Script concluído")
}

func seedProfiles(ctx context.Context, conn *postgres.Connection, path string) error {
	if path == "" {
		return errors.New("informe a planilha com -file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	requests, err := readProfileRows(path, data)
	if err != nil {
		return err
	}

	logrus.Infof("Iniciando importação de %d perfis...", len(requests))

	service := profiling.NewService(repository.NewProfileRepository(conn), nil, nil)

	var created, skipped, failed int
	for i, req := range requests {
		_, err := service.Create(ctx, req)

		var profileErr *profiling.ProfileError
		switch {
		case err == nil:
			created++
		case errors.As(err, &profileErr) && profileErr.Code == apiErrors.ErrAlreadyExists:
			skipped++
		default:
			failed++
			logrus.WithFields(logrus.Fields{
				"row":        i + 2,
				"sheet_name": req.SheetName,
			}).WithError(err).Warn("Perfil não importado")
		}

		if i > 0 && i%10 == 0 {
			logrus.Infof("Progresso: %d/%d perfis processados", i+1, len(requests))
		}
	}

	logrus.WithFields(logrus.Fields{
		"created": created,
		"skipped": skipped,
		"failed":  failed,
	}).Info("Importação de perfis concluída")

	return nil
}
