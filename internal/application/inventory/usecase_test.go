package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ctx    context.Context
	items  *inventory.ItemUseCase
	moves  *inventory.RegisterMovementUseCase
	query  *inventory.StockQueryUseCase
	replen *inventory.ReplenishmentUseCase
	clock  *fakeClock
}

// fakeClock avanza un segundo en cada lectura para que el orden por fecha sea determinista.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{cur: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	log := zerolog.Nop()
	return &fixture{
		ctx:    context.Background(),
		items:  inventory.NewItemUseCase(store, store.Items(), log).WithClock(clock.Now),
		moves:  inventory.NewRegisterMovementUseCase(store, log).WithClock(clock.Now),
		query:  inventory.NewStockQueryUseCase(store.Items(), store.Movements(), 0),
		replen: inventory.NewReplenishmentUseCase(store.Items()),
		clock:  clock,
	}
}

func (f *fixture) addItem(t *testing.T, sku string, minQty int64) *dto.ItemResponse {
	t.Helper()
	res, err := f.items.Upsert(f.ctx, dto.UpsertItemRequest{SKU: sku, Name: "Artículo " + sku, MinQty: minQty})
	require.NoError(t, err)
	return res
}

func (f *fixture) in(t *testing.T, sku string, qty int64) *dto.MovementResponse {
	t.Helper()
	res, err := f.moves.RegisterInbound(f.ctx, dto.RegisterMovementRequest{SKU: sku, Qty: qty})
	require.NoError(t, err)
	return res
}

func (f *fixture) stock(t *testing.T, sku string) int64 {
	t.Helper()
	n, err := f.query.CurrentStock(f.ctx, sku)
	require.NoError(t, err)
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de artículos
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsert_DosVecesMismoIDYAtributos(t *testing.T) {
	f := newFixture(t)
	req := dto.UpsertItemRequest{SKU: "A-1", Name: "Tornillo", Unit: "caja", MinQty: 3}

	first, err := f.items.Upsert(f.ctx, req)
	require.NoError(t, err)
	second, err := f.items.Upsert(f.ctx, req)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.ID, second.ID)

	got, err := f.items.Lookup(f.ctx, "A-1")
	require.NoError(t, err)
	assert.Equal(t, "Tornillo", got.Name)
	assert.Equal(t, "caja", got.Unit)
	assert.Equal(t, int64(3), got.MinQty)

	list, err := f.query.ListWithStock(f.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "un SKU es una sola fila")
}

func TestUpsert_UnidadPorDefecto(t *testing.T) {
	f := newFixture(t)
	res := f.addItem(t, "A-1", 0)
	assert.Equal(t, "pcs", res.Unit)
}

func TestUpsert_ActualizaAtributos(t *testing.T) {
	f := newFixture(t)
	first := f.addItem(t, "A-1", 0)

	upd, err := f.items.Upsert(f.ctx, dto.UpsertItemRequest{SKU: "A-1", Name: "Nuevo", Unit: "kg", MinQty: 9})
	require.NoError(t, err)
	assert.Equal(t, first.ID, upd.ID)
	assert.Equal(t, "Nuevo", upd.Name)
	assert.True(t, upd.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, first.CreatedAt, upd.CreatedAt)
}

func TestUpsert_SKUoNombreVacios(t *testing.T) {
	f := newFixture(t)
	_, err := f.items.Upsert(f.ctx, dto.UpsertItemRequest{SKU: "  ", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.items.Upsert(f.ctx, dto.UpsertItemRequest{SKU: "A-1", Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLookup_NoExisteDevuelveNil(t *testing.T) {
	f := newFixture(t)
	got, err := f.items.Lookup(f.ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_SKUDesconocidoDevuelveFalse(t *testing.T) {
	f := newFixture(t)
	deleted, err := f.items.Delete(f.ctx, "NOPE")
	require.NoError(t, err)
	assert.False(t, deleted)
}

// Caso: borrar cascada; el historial deja de existir y un SKU recreado empieza de cero.
func TestDelete_CascadaYRecreacion(t *testing.T) {
	f := newFixture(t)
	old := f.addItem(t, "A-1", 0)
	f.in(t, "A-1", 10)

	deleted, err := f.items.Delete(f.ctx, "A-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.query.History(f.ctx, "A-1", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	again := f.addItem(t, "A-1", 0)
	assert.NotEqual(t, old.ID, again.ID)
	assert.Zero(t, f.stock(t, "A-1"))

	hist, err := f.query.History(f.ctx, "A-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, hist.Movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_SinMovimientosEsCero(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	assert.Zero(t, f.stock(t, "A-1"))
}

func TestCurrentStock_SKUDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.query.CurrentStock(f.ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

// Caso 1: flujo básico del ledger (100 entra, 10 sale -> 90).
func TestFlujoBasico(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)

	in := f.in(t, "A-1", 100)
	assert.Equal(t, int64(100), in.CurrentStock)

	out, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(-10), out.ChangeQty)
	assert.Equal(t, int64(90), out.CurrentStock)
	assert.Greater(t, out.MovementID, in.MovementID)

	assert.Equal(t, int64(90), f.stock(t, "A-1"))
}

func TestStockEsSumaIndependienteDelOrden(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	f.addItem(t, "B-1", 0)

	for _, q := range []int64{7, 3, 12} {
		f.in(t, "A-1", q)
	}
	_, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 4})
	require.NoError(t, err)

	_, err = f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "B-1", Qty: 4, AllowNegative: true})
	require.NoError(t, err)
	for _, q := range []int64{12, 3, 7} {
		f.in(t, "B-1", q)
	}

	assert.Equal(t, int64(18), f.stock(t, "A-1"))
	assert.Equal(t, f.stock(t, "A-1"), f.stock(t, "B-1"))
}

// Caso 2: salida sin stock rechazada y sin efectos.
func TestSalida_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)

	_, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(0), stockErr.Current)
	assert.Equal(t, int64(1), stockErr.Requested)

	assert.Zero(t, f.stock(t, "A-1"))
	hist, err := f.query.History(f.ctx, "A-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, hist.Movements, "la salida rechazada no deja movimiento")
}

// Caso 3: allow_negative deja el stock en negativo.
func TestSalida_PermiteNegativo(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)

	out, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 1, AllowNegative: true})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), out.CurrentStock)
	assert.Equal(t, int64(-1), f.stock(t, "A-1"))

	_, err = f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 1, AllowNegative: true})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), f.stock(t, "A-1"))
}

func TestMovimiento_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)

	for _, q := range []int64{0, -5} {
		_, err := f.moves.RegisterInbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: q})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: q, AllowNegative: true})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
}

func TestMovimiento_SKUDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.moves.RegisterInbound(f.ctx, dto.RegisterMovementRequest{SKU: "NOPE", Qty: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
	_, err = f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "NOPE", Qty: 1, AllowNegative: true})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

func TestMovimiento_MotivoPorDefectoYReferencia(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	f.in(t, "A-1", 5)
	_, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 2, Reason: "venta", Ref: "PED-7"})
	require.NoError(t, err)

	hist, err := f.query.History(f.ctx, "A-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hist.Movements, 2)
	assert.Equal(t, "venta", hist.Movements[0].Reason)
	assert.Equal(t, "PED-7", hist.Movements[0].Ref)
	assert.Equal(t, "inbound", hist.Movements[1].Reason)
}

// Caso 4: alerta de mínimo tras una salida (o con stock por debajo del mínimo).
func TestMovimiento_RegistraOperadorEnElLog(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	store := memory.NewStore()
	items := inventory.NewItemUseCase(store, store.Items(), zerolog.Nop()).WithClock(f.clock.Now)
	_, err := items.Upsert(f.ctx, dto.UpsertItemRequest{SKU: "A-1", Name: "Tornillo"})
	require.NoError(t, err)
	moves := inventory.NewRegisterMovementUseCase(store, zerolog.New(&buf)).WithClock(f.clock.Now)

	_, err = moves.RegisterInbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 2, Operator: "ana"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"operator":"ana"`)

	buf.Reset()
	_, err = moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 5, Operator: "luis"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, buf.String(), `"operator":"luis"`)
}

func TestBelowMin(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 10)

	in := f.in(t, "A-1", 5)
	assert.True(t, in.BelowMin)

	st, err := f.query.StockOf(f.ctx, "A-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), st.Qty)
	assert.True(t, st.BelowMin)

	f.in(t, "A-1", 5)
	st, err = f.query.StockOf(f.ctx, "A-1")
	require.NoError(t, err)
	assert.False(t, st.BelowMin, "qty == min_qty no está por debajo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

// Caso 5: +3 y luego -1 -> el historial muestra -1 antes que +3.
func TestHistory_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	f.in(t, "A-1", 3)
	_, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 1})
	require.NoError(t, err)

	hist, err := f.query.History(f.ctx, "A-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hist.Movements, 2)
	assert.Equal(t, int64(-1), hist.Movements[0].ChangeQty)
	assert.Equal(t, int64(3), hist.Movements[1].ChangeQty)
	assert.Equal(t, 2, hist.Page.Total)
	assert.Equal(t, inventory.DefaultHistoryLimit, hist.Page.Limit)
}

func TestHistory_LimiteYOffset(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	for q := int64(1); q <= 5; q++ {
		f.in(t, "A-1", q)
	}

	hist, err := f.query.History(f.ctx, "A-1", dto.NewPage(2, 1))
	require.NoError(t, err)
	require.Len(t, hist.Movements, 2)
	assert.Equal(t, int64(4), hist.Movements[0].ChangeQty)
	assert.Equal(t, int64(3), hist.Movements[1].ChangeQty)
	assert.Equal(t, 5, hist.Page.Total)
}

func TestHistory_LimiteCeroYNegativo(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	f.in(t, "A-1", 1)
	f.in(t, "A-1", 2)

	hist, err := f.query.History(f.ctx, "A-1", dto.NewPage(0, 0))
	require.NoError(t, err)
	assert.Empty(t, hist.Movements, "limit=0 no devuelve filas")
	assert.Equal(t, 0, hist.Page.Limit)
	assert.Equal(t, 2, hist.Page.Total)

	_, err = f.query.History(f.ctx, "A-1", dto.NewPage(-1, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	hist, err = f.query.History(f.ctx, "A-1", dto.PageRequest{Offset: -3})
	require.NoError(t, err)
	assert.Len(t, hist.Movements, 2)
	assert.Equal(t, 0, hist.Page.Offset)
}

func TestStockOf_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	_, err := f.query.StockOf(f.ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListWithStock_OrdenadoPorSKU(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "C-3", 0)
	f.addItem(t, "A-1", 2)
	f.addItem(t, "B-2", 0)
	f.in(t, "B-2", 4)

	list, err := f.query.ListWithStock(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"A-1", "B-2", "C-3"}, []string{list[0].SKU, list[1].SKU, list[2].SKU})
	assert.True(t, list[0].BelowMin)
	assert.Equal(t, int64(4), list[1].Qty)
	assert.False(t, list[2].BelowMin)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Salidas concurrentes sobre el mismo artículo nunca dejan el stock en negativo.
func TestSalidasConcurrentes_NoSobrevenden(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	f.in(t, "A-1", 5)

	const workers = 20
	var ok, rejected int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 1})
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt32(&rejected, 1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), ok)
	assert.Equal(t, int32(workers-5), rejected)
	assert.Zero(t, f.stock(t, "A-1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestReplenishment_SoloBajoMinimoYOrdenadoPorUrgencia(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "OK-1", 2)
	f.in(t, "OK-1", 5)
	f.addItem(t, "A-1", 10) // 8/10 de déficit
	f.in(t, "A-1", 2)
	f.addItem(t, "B-2", 4) // 4/4 de déficit
	f.addItem(t, "C-3", 3) // 1/3 de déficit
	f.in(t, "C-3", 2)

	list, err := f.replen.GenerateReplenishmentList(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "B-2", list[0].SKU)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(6), list[0].IdealStock)
	assert.Equal(t, int64(6), list[0].SuggestedOrderQty)

	assert.Equal(t, "A-1", list[1].SKU)
	assert.Equal(t, int64(15), list[1].IdealStock)
	assert.Equal(t, int64(13), list[1].SuggestedOrderQty)

	assert.Equal(t, "C-3", list[2].SKU)
	assert.Equal(t, int64(5), list[2].IdealStock, "1,5 × 3 se redondea hacia arriba")
	assert.Equal(t, 3, list[2].Priority)
}

func TestReplenishment_MinimosEnormesNoDesbordan(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "HALF", math.MaxInt64/2)
	f.in(t, "HALF", 1)
	f.addItem(t, "MAX", math.MaxInt64)

	list, err := f.replen.GenerateReplenishmentList(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "MAX", list[0].SKU, "déficit relativo 1 frente a casi 1")
	assert.Equal(t, int64(math.MaxInt64), list[0].IdealStock)
	assert.Equal(t, int64(math.MaxInt64), list[0].SuggestedOrderQty)

	assert.Equal(t, "HALF", list[1].SKU)
	assert.Equal(t, int64(6917529027641081855), list[1].IdealStock)
	assert.Equal(t, int64(6917529027641081854), list[1].SuggestedOrderQty)
	for _, s := range list {
		assert.Positive(t, s.SuggestedOrderQty)
	}
}

func TestReplenishment_StockNegativoSinMinimo(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A-1", 0)
	_, err := f.moves.RegisterOutbound(f.ctx, dto.RegisterMovementRequest{SKU: "A-1", Qty: 2, AllowNegative: true})
	require.NoError(t, err)

	list, err := f.replen.GenerateReplenishmentList(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(0), list[0].IdealStock)
	assert.Equal(t, int64(2), list[0].SuggestedOrderQty)
}

func TestReplenishment_SinArticulos(t *testing.T) {
	f := newFixture(t)
	list, err := f.replen.GenerateReplenishmentList(f.ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
