// Comando migrate: aplica las migraciones goose embebidas sobre la BD configurada.
//
// Uso:
//
//	go run ./cmd/migrate -cmd up
//	go run ./cmd/migrate -cmd status
//	go run ./cmd/migrate -cmd version -to 20260105090000
//	go run ./cmd/migrate -cmd validate
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
	"github.com/jhoicas/Inventario-ledger/pkg/migrate"
)

func main() {
	command := flag.String("cmd", "up", "comando goose: up, down, status, version, validate")
	to := flag.String("to", "", "versión destino (YYYYMMDDHHMMSS) para -cmd version")
	timeout := flag.Duration("timeout", 5*time.Minute, "tiempo máximo de ejecución")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	// validate no necesita BD.
	if *command == "validate" {
		if err := migrate.Validate(); err != nil {
			log.Fatal().Err(err).Msg("migraciones inválidas")
		}
		log.Info().Msg("migraciones válidas")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	switch *command {
	case "version":
		err = migrate.MigrateToVersion(ctx, db, *to)
	default:
		err = migrate.Run(ctx, db, *command)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *command).Msg("migración fallida")
	}
	log.Info().Str("cmd", *command).Msg("migración completada")
}
