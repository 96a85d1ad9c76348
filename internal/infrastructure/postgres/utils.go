package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/voonda-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// translateWriteError mapea errores de escritura del store al taxónomo de
// dominio; nunca se filtra el error crudo de pgx hacia arriba sin envolver.
func translateWriteError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

// scopeArg convierte el TenantScope al argumento nullable de las queries:
// NULL desactiva el predicado (scope global del administrador general).
func scopeArg(scope domain.TenantScope) *string {
	return scope.CompanyID
}
