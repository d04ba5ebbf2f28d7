package inventory

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: artículos bajo mínimo con la
// cantidad sugerida para volver al stock ideal (1,5 × mínimo).
type ReplenishmentUseCase struct {
	itemRepo repository.ItemRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

// idealStock mínimo × 1,5 redondeado hacia arriba; nunca negativo, satura en MaxInt64.
func idealStock(minQty int64) int64 {
	if minQty <= 0 {
		return 0
	}
	half := minQty/2 + minQty%2
	if minQty > math.MaxInt64-half {
		return math.MaxInt64
	}
	return minQty + half
}

// orderQty ideal - actual, saturado en MaxInt64 (el stock puede ser negativo).
func orderQty(ideal, current int64) int64 {
	if current < 0 && ideal > math.MaxInt64+current {
		return math.MaxInt64
	}
	return ideal - current
}

// GenerateReplenishmentList devuelve los artículos bajo mínimo ordenados por urgencia:
// primero el mayor déficit relativo, luego el mayor déficit absoluto, luego SKU.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	list, err := uc.itemRepo.ListWithStock(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestion, 0)
	for _, s := range list {
		if !s.BelowMin() {
			continue
		}
		ideal := idealStock(s.MinQty)
		suggestions = append(suggestions, dto.ReplenishmentSuggestion{
			SKU:               s.SKU,
			Name:              s.Name,
			Unit:              s.Unit,
			CurrentStock:      s.Quantity,
			MinQty:            s.MinQty,
			IdealStock:        ideal,
			SuggestedOrderQty: orderQty(ideal, s.Quantity),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return moreUrgent(suggestions[i], suggestions[j])
	})

	// Prioridad 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// moreUrgent compara déficits relativos sin división: a/b > c/d ⇔ a·d > c·b.
// Los productos se calculan en decimal exacto, sin desbordar int64.
// Un mínimo ≤ 0 solo queda por debajo con stock negativo y cuenta como déficit total.
func moreUrgent(a, b dto.ReplenishmentSuggestion) bool {
	defA, defB := deficit(a), deficit(b)
	switch {
	case a.MinQty <= 0 && b.MinQty > 0:
		return true
	case b.MinQty <= 0 && a.MinQty > 0:
		return false
	case a.MinQty > 0 && b.MinQty > 0:
		l := defA.Mul(decimal.NewFromInt(b.MinQty))
		r := defB.Mul(decimal.NewFromInt(a.MinQty))
		if c := l.Cmp(r); c != 0 {
			return c > 0
		}
	}
	if c := defA.Cmp(defB); c != 0 {
		return c > 0
	}
	return a.SKU < b.SKU
}

func deficit(s dto.ReplenishmentSuggestion) decimal.Decimal {
	return decimal.NewFromInt(s.MinQty).Sub(decimal.NewFromInt(s.CurrentStock))
}
