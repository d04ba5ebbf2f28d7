package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

const (
	codeForeignKeyViolation = "23503"
	codeLockNotAvailable    = "55P03"
)

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// isLockTimeout verifica si venció lock_timeout esperando un bloqueo (55P03).
func isLockTimeout(err error) bool {
	return pgErrorCode(err) == codeLockNotAvailable
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapPgError traduce los códigos que tienen significado de dominio; el resto se devuelve igual.
func mapPgError(err error) error {
	if isLockTimeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreBusy, err)
	}
	return err
}
