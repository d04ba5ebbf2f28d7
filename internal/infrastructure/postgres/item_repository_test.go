package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var itemColumns = []string{"id", "sku", "name", "unit", "min_qty", "created_at", "updated_at"}

type ItemRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *ItemRepo
	ctx  context.Context
	now  time.Time
}

func (s *ItemRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewItemRepository(mock)
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *ItemRepoTestSuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestItemRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ItemRepoTestSuite))
}

func (s *ItemRepoTestSuite) TestUpsert_AltaNueva() {
	item := &entity.Item{SKU: "A-1", Name: "Tornillo", Unit: "pcs", MinQty: 10, UpdatedAt: s.now}

	s.mock.ExpectQuery(regexp.QuoteMeta(upsertItemSQL)).
		WithArgs("A-1", "Tornillo", "pcs", int64(10), s.now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).
			AddRow(int64(7), s.now, s.now, true))

	created, err := s.repo.Upsert(s.ctx, item)
	s.Require().NoError(err)
	s.True(created)
	s.Equal(int64(7), item.ID)
	s.Equal(s.now, item.CreatedAt)
}

func (s *ItemRepoTestSuite) TestUpsert_ActualizaConservandoID() {
	created := s.now.Add(-time.Hour)
	item := &entity.Item{SKU: "A-1", Name: "Tornillo M3", Unit: "caja", MinQty: 2, UpdatedAt: s.now}

	s.mock.ExpectQuery(regexp.QuoteMeta(upsertItemSQL)).
		WithArgs("A-1", "Tornillo M3", "caja", int64(2), s.now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).
			AddRow(int64(7), created, s.now, false))

	isNew, err := s.repo.Upsert(s.ctx, item)
	s.Require().NoError(err)
	s.False(isNew)
	s.Equal(int64(7), item.ID)
	s.Equal(created, item.CreatedAt, "created_at no cambia en una actualización")
}

func (s *ItemRepoTestSuite) TestGetBySKU_Encontrado() {
	s.mock.ExpectQuery(regexp.QuoteMeta(selectItemBySKUSQL)).
		WithArgs("A-1").
		WillReturnRows(pgxmock.NewRows(itemColumns).
			AddRow(int64(1), "A-1", "Tornillo", "pcs", int64(5), s.now, s.now))

	it, err := s.repo.GetBySKU(s.ctx, "A-1")
	s.Require().NoError(err)
	s.Require().NotNil(it)
	s.Equal("Tornillo", it.Name)
	s.Equal(int64(5), it.MinQty)
}

func (s *ItemRepoTestSuite) TestGetBySKU_NoExisteDevuelveNil() {
	s.mock.ExpectQuery(regexp.QuoteMeta(selectItemBySKUSQL)).
		WithArgs("NOPE").
		WillReturnError(pgx.ErrNoRows)

	it, err := s.repo.GetBySKU(s.ctx, "NOPE")
	s.NoError(err)
	s.Nil(it)
}

func (s *ItemRepoTestSuite) TestGetBySKUForUpdate_BloqueaFila() {
	s.mock.ExpectQuery(regexp.QuoteMeta(selectItemBySKUForUpdateSQL)).
		WithArgs("A-1").
		WillReturnRows(pgxmock.NewRows(itemColumns).
			AddRow(int64(1), "A-1", "Tornillo", "pcs", int64(0), s.now, s.now))

	it, err := s.repo.GetBySKUForUpdate(s.ctx, "A-1")
	s.Require().NoError(err)
	s.Equal(int64(1), it.ID)
}

func (s *ItemRepoTestSuite) TestGetBySKUForUpdate_LockTimeout() {
	s.mock.ExpectQuery(regexp.QuoteMeta(selectItemBySKUForUpdateSQL)).
		WithArgs("A-1").
		WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})

	_, err := s.repo.GetBySKUForUpdate(s.ctx, "A-1")
	s.ErrorIs(err, domain.ErrStoreBusy)
}

func (s *ItemRepoTestSuite) TestDeleteBySKU() {
	s.mock.ExpectExec(regexp.QuoteMeta(deleteItemBySKUSQL)).
		WithArgs("A-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	s.mock.ExpectExec(regexp.QuoteMeta(deleteItemBySKUSQL)).
		WithArgs("A-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := s.repo.DeleteBySKU(s.ctx, "A-1")
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.repo.DeleteBySKU(s.ctx, "A-1")
	s.Require().NoError(err)
	s.False(deleted, "borrar un SKU inexistente no es un error")
}

func (s *ItemRepoTestSuite) TestListWithStock() {
	cols := append(append([]string{}, itemColumns...), "qty")
	s.mock.ExpectQuery(regexp.QuoteMeta(listItemsWithStockSQL)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(2), "A-1", "Tornillo", "pcs", int64(10), s.now, s.now, int64(5)).
			AddRow(int64(1), "B-1", "Tuerca", "pcs", int64(0), s.now, s.now, int64(0)))

	list, err := s.repo.ListWithStock(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("A-1", list[0].SKU)
	s.Equal(int64(5), list[0].Quantity)
	s.True(list[0].BelowMin())
	s.False(list[1].BelowMin())
}
