// Package cli implementa el binario inventario: subcomandos sobre los casos de uso
// del ledger, salida legible en stdout y códigos de salida estables.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// Códigos de salida.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitRejected = 3 // regla de negocio
	ExitNotFound = 4
)

// Services casos de uso que requieren el almacén abierto.
type Services struct {
	Items     *inventory.ItemUseCase
	Movements *inventory.RegisterMovementUseCase
	Query     *inventory.StockQueryUseCase
	Replenish *inventory.ReplenishmentUseCase
	Import    *transfer.ImportItemsUseCase
	Export    *transfer.ExportSnapshotUseCase
	Migrate   func(ctx context.Context) error
}

// Env entorno de una invocación. Open se llama tras validar los argumentos y solo si el comando usa el almacén.
type Env struct {
	Stdout       io.Writer
	Stderr       io.Writer
	Log          zerolog.Logger
	Encoding     string
	HistoryLimit int
	Location     string
	JWT          config.JWTConfig
	Open         func(ctx context.Context) (*Services, error)
}

type command struct {
	name    string
	alias   string
	summary string
	run     func(ctx context.Context, r *runner, args []string) error
}

var commands = []command{
	{name: "init", summary: "crea el esquema si no existe", run: cmdInit},
	{name: "add-item", summary: "alta o actualización de artículo (--sku --name [--unit] [--min-qty])", run: cmdAddItem},
	{name: "delete-item", summary: "borra un artículo y su historial (--sku)", run: cmdDeleteItem},
	{name: "stock-in", alias: "in", summary: "registra una entrada (--sku --qty [--reason] [--ref])", run: cmdStockIn},
	{name: "stock-out", alias: "out", summary: "registra una salida (--sku --qty [--reason] [--ref] [--allow-negative])", run: cmdStockOut},
	{name: "get-stock", alias: "stock", summary: "muestra el stock de un artículo (--sku)", run: cmdGetStock},
	{name: "list-items", alias: "list", summary: "lista artículos con stock", run: cmdListItems},
	{name: "get-history", alias: "history", summary: "historial de movimientos (--sku [--limit] [--offset])", run: cmdGetHistory},
	{name: "replenishment", alias: "reorder", summary: "lista de reposición de artículos bajo mínimo", run: cmdReplenishment},
	{name: "export-csv", summary: "exporta el stock a CSV (PATH)", run: cmdExportCSV},
	{name: "import-items", summary: "importa artículos desde CSV (PATH)", run: cmdImportItems},
	{name: "export-pdf", summary: "genera el informe de stock en PDF (PATH)", run: cmdExportPDF},
	{name: "issue-token", summary: "emite un token para la API (--operator [--role])", run: cmdIssueToken},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name || (c.alias != "" && c.alias == name) {
			return c, true
		}
	}
	return command{}, false
}

// Run ejecuta args (sin el nombre del programa) y devuelve el código de salida.
func Run(ctx context.Context, env Env, args []string) int {
	global := flag.NewFlagSet("inventario", flag.ContinueOnError)
	global.SetOutput(env.Stderr)
	global.Usage = func() { printUsage(env.Stderr) }
	encoding := global.String("encoding", env.Encoding, "codificación de los CSV")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	if rest[0] == "help" {
		printUsage(env.Stdout)
		return ExitOK
	}
	cmd, ok := lookupCommand(rest[0])
	if !ok {
		fmt.Fprintf(env.Stderr, "comando desconocido: %s\n\n", rest[0])
		printUsage(env.Stderr)
		return ExitUsage
	}

	r := &runner{env: env, encoding: *encoding}
	env.Log.Debug().Str("cmd", cmd.name).Msg("ejecutando comando")
	return r.exit(cmd.run(ctx, r, rest[1:]))
}

func printUsage(w io.Writer) {
	var b strings.Builder
	b.WriteString("uso: inventario [--encoding CODIFICACION] <comando> [opciones]\n\ncomandos:\n")
	for _, c := range commands {
		name := c.name
		if c.alias != "" {
			name += " (" + c.alias + ")"
		}
		fmt.Fprintf(&b, "  %-26s %s\n", name, c.summary)
	}
	b.WriteString("\ncódigos de salida: 0 ok, 1 error interno, 2 uso, 3 rechazado, 4 no encontrado\n")
	io.WriteString(w, b.String())
}

// exitCode traduce errores de dominio a códigos de salida.
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownItem), errors.Is(err, domain.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrMissingColumns),
		errors.Is(err, domain.ErrInvalidImportRow),
		errors.Is(err, domain.ErrInvalidInput):
		return ExitRejected
	default:
		return ExitInternal
	}
}
