package dto

import "github.com/tu-usuario/voonda-api/internal/domain"

// ErrorResponse cuerpo de error HTTP. Details solo se llena para errores de
// validación con rechazos por campo.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// Pagination metadatos de página en listados.
type Pagination struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int64 `json:"pages"`
}

// NewPagination calcula los metadatos a partir del total y el tamaño pedido.
func NewPagination(total int64, page, pageSize int) Pagination {
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return Pagination{Total: total, Page: page, PageSize: pageSize, Pages: pages}
}
