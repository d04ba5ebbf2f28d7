package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/interfaces/cli"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		return cli.ExitInternal
	}

	// stdout queda para la salida de los comandos.
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Out:   os.Stderr,
	})
	zl := log.With().Str("run_id", uuid.NewString()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	defer func() {
		if pool != nil {
			pool.Close()
		}
	}()

	return cli.Run(ctx, cli.Env{
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Log:          zl,
		Encoding:     cfg.Inventory.CSVEncoding,
		HistoryLimit: cfg.Inventory.HistoryLimit,
		Location:     cfg.DB.Location(),
		JWT:          cfg.JWT,
		Open: func(ctx context.Context) (*cli.Services, error) {
			p, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return nil, err
			}
			pool = p

			itemRepo := postgres.NewItemRepository(pool)
			movRepo := postgres.NewStockMovementRepository(pool)
			txRunner := postgres.NewTxRunner(pool)
			return &cli.Services{
				Items:     inventory.NewItemUseCase(txRunner, itemRepo, zl),
				Movements: inventory.NewRegisterMovementUseCase(txRunner, zl),
				Query:     inventory.NewStockQueryUseCase(itemRepo, movRepo, cfg.Inventory.HistoryLimit),
				Replenish: inventory.NewReplenishmentUseCase(itemRepo),
				Import:    transfer.NewImportItemsUseCase(txRunner, zl),
				Export:    transfer.NewExportSnapshotUseCase(itemRepo, infrapdf.NewMarotoStockReportGenerator(cfg.App.Name)),
				Migrate: func(ctx context.Context) error {
					return postgres.Migrate(ctx, pool)
				},
			}, nil
		},
	}, os.Args[1:])
}
