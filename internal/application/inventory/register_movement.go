package inventory

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	policy "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// RegisterMovementUseCase registra entradas y salidas en el ledger de forma transaccional,
// con bloqueo de fila del artículo (SELECT FOR UPDATE) antes de recalcular el stock.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      Clock
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, log zerolog.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, log: log, now: SystemClock}
}

// WithClock sustituye el reloj (tests).
func (uc *RegisterMovementUseCase) WithClock(now Clock) *RegisterMovementUseCase {
	uc.now = now
	return uc
}

// RegisterInbound añade +qty al ledger. Motivo por defecto "inbound".
func (uc *RegisterMovementUseCase) RegisterInbound(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	return uc.register(ctx, in, false)
}

// RegisterOutbound añade -qty al ledger. Sin AllowNegative rechaza la salida si el stock quedaría negativo.
func (uc *RegisterMovementUseCase) RegisterOutbound(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	return uc.register(ctx, in, true)
}

func (uc *RegisterMovementUseCase) register(ctx context.Context, in dto.RegisterMovementRequest, outbound bool) (*dto.MovementResponse, error) {
	if err := policy.ValidateQuantity(in.Qty); err != nil {
		return nil, err
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonInbound
		if outbound {
			reason = entity.ReasonOutbound
		}
	}

	var out *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, moves repository.StockMovementRepository) error {
		// El bloqueo serializa a los escritores del mismo artículo hasta el Commit.
		item, err := items.GetBySKUForUpdate(ctx, in.SKU)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrUnknownItem
		}
		current, err := moves.SumByItem(ctx, item.ID)
		if err != nil {
			return err
		}

		change := in.Qty
		if outbound {
			if err := policy.CheckOutbound(item.SKU, current, in.Qty, in.AllowNegative); err != nil {
				return err
			}
			change = -in.Qty
		}

		mov := &entity.StockMovement{
			ItemID:    item.ID,
			ChangeQty: change,
			Reason:    reason,
			Ref:       in.Ref,
			At:        uc.now(),
		}
		if err := moves.Create(ctx, mov); err != nil {
			return err
		}

		after := current + change
		out = &dto.MovementResponse{
			MovementID:   mov.ID,
			SKU:          item.SKU,
			ChangeQty:    change,
			CurrentStock: after,
			MinQty:       item.MinQty,
			BelowMin:     policy.BelowMin(after, item.MinQty),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.log.Warn().Str("sku", in.SKU).Str("operator", in.Operator).Int64("qty", in.Qty).Msg("salida rechazada por stock insuficiente")
		}
		return nil, err
	}

	ev := uc.log.Info()
	if out.BelowMin {
		ev = uc.log.Warn()
	}
	ev.Str("sku", out.SKU).
		Str("operator", in.Operator).
		Int64("movement_id", out.MovementID).
		Int64("change_qty", out.ChangeQty).
		Int64("stock", out.CurrentStock).
		Bool("below_min", out.BelowMin).
		Msg("movimiento registrado")
	return out, nil
}
