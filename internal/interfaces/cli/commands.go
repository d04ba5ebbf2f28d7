package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/csvfile"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// withSKU añade el SKU a los errores de artículo inexistente.
func withSKU(err error, sku string) error {
	if errors.Is(err, domain.ErrUnknownItem) || errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: SKU=%s", err, sku)
	}
	return err
}

func cmdInit(ctx context.Context, r *runner, args []string) error {
	if err := parse(r.flags("init"), args); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	if err := svc.Migrate(ctx); err != nil {
		return err
	}
	r.out("Esquema inicializado: %s", r.env.Location)
	return nil
}

func cmdAddItem(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("add-item")
	var in dto.UpsertItemRequest
	fs.StringVar(&in.SKU, "sku", "", "SKU")
	fs.StringVar(&in.Name, "name", "", "nombre")
	fs.StringVar(&in.Unit, "unit", "pcs", "unidad")
	fs.Int64Var(&in.MinQty, "min-qty", 0, "stock mínimo")
	if err := parse(fs, args, "sku", "name"); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	res, err := svc.Items.Upsert(ctx, in)
	if err != nil {
		return err
	}
	action := "Actualizado"
	if res.Created {
		action = "Registrado"
	}
	r.out("%s: SKU=%s nombre=%s unidad=%s mínimo=%d", action, res.SKU, res.Name, res.Unit, res.MinQty)
	return nil
}

func cmdDeleteItem(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("delete-item")
	sku := fs.String("sku", "", "SKU")
	if err := parse(fs, args, "sku"); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	deleted, err := svc.Items.Delete(ctx, *sku)
	if err != nil {
		return err
	}
	if deleted {
		r.out("Eliminado: SKU=%s", *sku)
	} else {
		r.out("No existe: SKU=%s", *sku)
	}
	return nil
}

func movementFlags(r *runner, name string, outbound bool) (*dto.RegisterMovementRequest, func([]string) error) {
	fs := r.flags(name)
	in := &dto.RegisterMovementRequest{}
	fs.StringVar(&in.SKU, "sku", "", "SKU")
	fs.Int64Var(&in.Qty, "qty", 0, "cantidad (> 0)")
	fs.StringVar(&in.Reason, "reason", "", "motivo")
	fs.StringVar(&in.Ref, "ref", "", "referencia (albarán, pedido...)")
	if outbound {
		fs.BoolVar(&in.AllowNegative, "allow-negative", false, "permite dejar el stock en negativo")
	}
	return in, func(args []string) error { return parse(fs, args, "sku", "qty") }
}

func cmdStockIn(ctx context.Context, r *runner, args []string) error {
	in, parseArgs := movementFlags(r, "stock-in", false)
	if err := parseArgs(args); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	res, err := svc.Movements.RegisterInbound(ctx, *in)
	if err != nil {
		return withSKU(err, in.SKU)
	}
	r.out("Entrada registrada id=%d / SKU=%s stock=%d", res.MovementID, res.SKU, res.CurrentStock)
	return nil
}

func cmdStockOut(ctx context.Context, r *runner, args []string) error {
	in, parseArgs := movementFlags(r, "stock-out", true)
	if err := parseArgs(args); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	res, err := svc.Movements.RegisterOutbound(ctx, *in)
	if err != nil {
		return withSKU(err, in.SKU)
	}
	warn := ""
	if res.BelowMin {
		warn = " *bajo mínimo*"
	}
	r.out("Salida registrada id=%d / SKU=%s stock=%d%s", res.MovementID, res.SKU, res.CurrentStock, warn)
	return nil
}

func cmdGetStock(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("get-stock")
	sku := fs.String("sku", "", "SKU")
	if err := parse(fs, args, "sku"); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	s, err := svc.Query.StockOf(ctx, *sku)
	if err != nil {
		return withSKU(err, *sku)
	}
	r.out("SKU=%s nombre=%s stock=%d %s (mínimo=%d)", s.SKU, s.Name, s.Qty, s.Unit, s.MinQty)
	return nil
}

func cmdListItems(ctx context.Context, r *runner, args []string) error {
	if err := parse(r.flags("list-items"), args); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	list, err := svc.Query.ListWithStock(ctx)
	if err != nil {
		return err
	}
	r.out("SKU, nombre, stock, unidad, mínimo, aviso")
	for _, s := range list {
		alert := ""
		if s.BelowMin {
			alert = "LOW"
		}
		r.out("%s, %s, %d, %s, %d, %s", s.SKU, s.Name, s.Qty, s.Unit, s.MinQty, alert)
	}
	return nil
}

func cmdGetHistory(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("get-history")
	sku := fs.String("sku", "", "SKU")
	limit := fs.Int("limit", r.env.HistoryLimit, "máximo de movimientos")
	offset := fs.Int("offset", 0, "desplazamiento")
	if err := parse(fs, args, "sku"); err != nil {
		return err
	}
	page := dto.PageRequest{Offset: *offset}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "limit" {
			page.Limit = limit
		}
	})
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	h, err := svc.Query.History(ctx, *sku, page)
	if err != nil {
		return withSKU(err, *sku)
	}
	r.out("Historial (últimos %d de %d): SKU=%s", h.Page.Limit, h.Page.Total, h.SKU)
	for _, m := range h.Movements {
		r.out("%s  %+d\t%s\t%s", m.At.Format(time.RFC3339), m.ChangeQty, m.Reason, m.Ref)
	}
	return nil
}

func cmdReplenishment(ctx context.Context, r *runner, args []string) error {
	if err := parse(r.flags("replenishment"), args); err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	list, err := svc.Replenish.GenerateReplenishmentList(ctx)
	if err != nil {
		return err
	}
	r.out("prioridad, SKU, nombre, stock, mínimo, ideal, pedir")
	for _, s := range list {
		r.out("%d, %s, %s, %d, %d, %d, %d %s", s.Priority, s.SKU, s.Name, s.CurrentStock, s.MinQty, s.IdealStock, s.SuggestedOrderQty, s.Unit)
	}
	return nil
}

func cmdExportCSV(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("export-csv")
	enc := fs.String("encoding", r.encoding, "codificación de salida")
	path, err := parsePath(fs, args)
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	records, err := svc.Export.Snapshot(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, transfer.SnapshotRow(rec))
	}
	if err := csvfile.WriteFile(path, *enc, transfer.SnapshotHeader, rows); err != nil {
		return fmt.Errorf("exportar %s: %w", path, err)
	}
	r.out("Exportado: %s (filas=%d)", path, len(rows))
	return nil
}

func cmdImportItems(ctx context.Context, r *runner, args []string) error {
	fs := r.flags("import-items")
	enc := fs.String("encoding", r.encoding, "codificación de entrada")
	path, err := parsePath(fs, args)
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	header, rows, err := csvfile.ReadFile(path, *enc)
	if err != nil {
		return fmt.Errorf("importar %s: %w", path, err)
	}
	res, err := svc.Import.Import(ctx, header, rows)
	if err != nil {
		return err
	}
	r.out("Importado: %s (filas=%d altas=%d actualizaciones=%d import_id=%s)",
		path, res.Rows, res.Created, res.Updated, res.ImportID)
	return nil
}

func cmdExportPDF(ctx context.Context, r *runner, args []string) error {
	path, err := parsePath(r.flags("export-pdf"), args)
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	pdf, err := svc.Export.ReportPDF(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	r.out("Informe generado: %s (%d bytes)", path, len(pdf))
	return nil
}

func cmdIssueToken(_ context.Context, r *runner, args []string) error {
	fs := r.flags("issue-token")
	operator := fs.String("operator", "", "nombre del operador")
	role := fs.String("role", jwt.RoleOperator, "admin | operador | lector")
	if err := parse(fs, args, "operator"); err != nil {
		return err
	}
	if !jwt.ValidRole(*role) {
		return usagef("issue-token: rol desconocido %q", *role)
	}
	if r.env.JWT.Secret == "" {
		return errors.New("JWT_SECRET no configurado")
	}

	tok, err := jwt.Generate(r.env.JWT.Secret, *operator, *role, r.env.JWT.Issuer, time.Duration(r.env.JWT.Expiration)*time.Minute)
	if err != nil {
		return err
	}
	r.out("%s", tok)
	return nil
}
