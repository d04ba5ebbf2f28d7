package http

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/csvfile"
)

// TransferHandler importación y exportación masiva.
type TransferHandler struct {
	imp      *transfer.ImportItemsUseCase
	exp      *transfer.ExportSnapshotUseCase
	encoding string
}

// NewTransferHandler construye el handler. encoding es la codificación CSV por defecto.
func NewTransferHandler(imp *transfer.ImportItemsUseCase, exp *transfer.ExportSnapshotUseCase, encoding string) *TransferHandler {
	return &TransferHandler{imp: imp, exp: exp, encoding: encoding}
}

// ImportItems godoc
// @Summary      Importar artículos desde CSV (sku,name,unit,min_qty)
// @Description  Multipart con campo "file" o cuerpo text/csv. Todo o nada.
// @Tags         transfer
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        encoding  query  string  false  "utf-8, shift_jis, euc-jp, windows-1252..."
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/import/items [post]
func (h *TransferHandler) ImportItems(c *fiber.Ctx) error {
	var r io.Reader = bytes.NewReader(c.Body())
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return badBody(c)
		}
		defer f.Close()
		r = f
	}

	header, rows, err := csvfile.Read(r, c.Query("encoding", h.encoding))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CSV", Message: err.Error()})
	}
	res, err := h.imp.Import(c.UserContext(), header, rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ExportCSV godoc
// @Summary      Exportar stock a CSV (sku,name,unit,qty,min_qty,below_min)
// @Tags         transfer
// @Security     Bearer
// @Produce      text/csv
// @Param        encoding  query  string  false  "codificación de salida"
// @Success      200
// @Router       /api/export/stock.csv [get]
func (h *TransferHandler) ExportCSV(c *fiber.Ctx) error {
	records, err := h.exp.Snapshot(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, transfer.SnapshotRow(r))
	}

	enc := c.Query("encoding", h.encoding)
	var buf bytes.Buffer
	if err := csvfile.Write(&buf, enc, transfer.SnapshotHeader, rows); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ENCODING", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset="+enc)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.csv"`)
	return c.Send(buf.Bytes())
}

// ReportPDF godoc
// @Summary      Informe de stock en PDF
// @Tags         transfer
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/reports/stock.pdf [get]
func (h *TransferHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, err := h.exp.ReportPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stock.pdf"`)
	return c.Send(pdf)
}
