// seed reinicia el almacén configurado y lo puebla con datos de demostración:
// productos, ubicaciones y movimientos con fechas retroactivas.
//
// Uso: go run ./cmd/seed [-reset-only]
// Con -reset-only solo vacía el almacén.
// Usa las mismas variables de entorno que la API (DB_DRIVER, DATABASE_URL, SQLITE_PATH, ...).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/backend"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type seedProduct struct {
	name, sku, description, price string
}

var products = []seedProduct{
	{"Tornillo hexagonal 1/4", "TOR-014", "Caja x 100", "12500"},
	{"Tuerca de seguridad 1/4", "TUE-014", "Caja x 100", "8900"},
	{"Llave inglesa 10\"", "LLA-010", "", "45000"},
	{"Cinta aislante", "CIN-001", "Rollo 20 m", ""},
}

var locations = []dto.CreateLocationRequest{
	{Name: "Bodega Central", Address: "Cra 7 # 12-40"},
	{Name: "Tienda Norte", Address: "Cll 140 # 15-20"},
	{Name: "Tienda Sur", Address: ""},
}

// plan de movimientos: índices sobre products/locations (-1 = sin ubicación) y días atrás.
var plan = []struct {
	product, from, to int
	qty               int64
	daysAgo           int
}{
	{0, -1, 0, 500, 30},
	{1, -1, 0, 400, 30},
	{2, -1, 0, 20, 28},
	{3, -1, 0, 60, 27},
	{0, 0, 1, 120, 20},
	{0, 0, 2, 80, 20},
	{1, 0, 1, 100, 18},
	{2, 0, 1, 5, 15},
	{0, 1, -1, 35, 10},
	{1, 1, -1, 22, 9},
	{3, 0, 2, 15, 7},
	{0, 2, -1, 12, 3},
	{2, 1, -1, 2, 1},
}

func main() {
	resetOnly := flag.Bool("reset-only", false, "solo borrar movimientos, productos y ubicaciones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos sembrados se pierden al terminar")
	}

	ctx := context.Background()
	runner, closeStore, err := backend.Open(ctx, cfg.DB, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if *resetOnly {
		err = reset(ctx, usecase.NewProductUseCase(runner), usecase.NewLocationUseCase(runner), inventory.NewLedgerUseCase(runner, log))
		if err == nil {
			log.Info().Msg("almacén vacío")
		}
	} else {
		err = seed(ctx, runner, log, time.Now().UTC())
	}
	if err != nil {
		log.Error().Err(err).Msg("sembrar datos")
		closeStore()
		os.Exit(1)
	}
}

// seed borra el contenido actual (libro primero, luego datos maestros) y crea los datos de demostración.
func seed(ctx context.Context, runner inventory.TxRunner, log *logger.Logger, now time.Time) error {
	productUC := usecase.NewProductUseCase(runner)
	locationUC := usecase.NewLocationUseCase(runner)
	ledgerUC := inventory.NewLedgerUseCase(runner, log)

	if err := reset(ctx, productUC, locationUC, ledgerUC); err != nil {
		return fmt.Errorf("reiniciar: %w", err)
	}

	productIDs := make([]int64, 0, len(products))
	for _, p := range products {
		in := dto.CreateProductRequest{Name: p.name, SKU: p.sku, Description: p.description}
		if p.price != "" {
			price, err := decimal.NewFromString(p.price)
			if err != nil {
				return fmt.Errorf("precio %s: %w", p.sku, err)
			}
			in.Price = &price
		}
		out, err := productUC.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("producto %s: %w", p.sku, err)
		}
		productIDs = append(productIDs, out.ID)
	}

	locationIDs := make([]int64, 0, len(locations))
	for _, l := range locations {
		out, err := locationUC.Create(ctx, l)
		if err != nil {
			return fmt.Errorf("ubicación %s: %w", l.Name, err)
		}
		locationIDs = append(locationIDs, out.ID)
	}

	locID := func(i int) int64 {
		if i < 0 {
			return 0
		}
		return locationIDs[i]
	}
	for _, m := range plan {
		ts := now.AddDate(0, 0, -m.daysAgo)
		_, err := ledgerUC.Record(ctx, dto.RecordMovementRequest{
			ProductID:      productIDs[m.product],
			FromLocationID: locID(m.from),
			ToLocationID:   locID(m.to),
			Quantity:       m.qty,
			Timestamp:      &ts,
		})
		if err != nil {
			return fmt.Errorf("movimiento: %w", err)
		}
	}

	log.Info().
		Int("products", len(productIDs)).
		Int("locations", len(locationIDs)).
		Int("movements", len(plan)).
		Msg("datos de demostración creados")
	return nil
}

func reset(ctx context.Context, productUC *usecase.ProductUseCase, locationUC *usecase.LocationUseCase, ledgerUC *inventory.LedgerUseCase) error {
	movements, err := ledgerUC.List(ctx)
	if err != nil {
		return err
	}
	for _, m := range movements {
		if err := ledgerUC.Remove(ctx, m.ID); err != nil {
			return err
		}
	}
	ps, err := productUC.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range ps {
		if err := productUC.Delete(ctx, p.ID); err != nil {
			return err
		}
	}
	ls, err := locationUC.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range ls {
		if err := locationUC.Delete(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}
