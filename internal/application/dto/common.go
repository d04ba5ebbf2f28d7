package dto

// PageRequest paginación para listados. Limit nil aplica el límite por defecto; 0 no devuelve filas.
type PageRequest struct {
	Limit  *int `query:"limit"`
	Offset int  `query:"offset"`
}

// NewPage página con límite explícito.
func NewPage(limit, offset int) PageRequest {
	return PageRequest{Limit: &limit, Offset: offset}
}

// Normalize devuelve el límite efectivo y un offset no negativo.
func (p PageRequest) Normalize(defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if p.Limit != nil {
		limit = *p.Limit
	}
	return limit, max(p.Offset, 0)
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
