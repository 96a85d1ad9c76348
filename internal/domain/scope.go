package domain

// TenantScope predicado implícito de empresa que toda consulta sobre
// entidades particionadas debe intersectar. Un scope global (CompanyID nil)
// solo lo produce el administrador general; cualquier otro identity obtiene
// el predicado fijo company_id = X.
//
// Una búsqueda por ID que no satisface el predicado se comporta exactamente
// como "no encontrado": nunca se distingue "existe pero ajeno" de "no existe".
type TenantScope struct {
	CompanyID *string
}

// GlobalScope visibilidad total (administrador general).
func GlobalScope() TenantScope { return TenantScope{} }

// CompanyScope visibilidad restringida a una empresa.
func CompanyScope(companyID string) TenantScope {
	return TenantScope{CompanyID: &companyID}
}

// Global indica si el scope no restringe por empresa.
func (s TenantScope) Global() bool { return s.CompanyID == nil }

// Matches indica si una fila con la empresa dada es visible bajo el scope.
func (s TenantScope) Matches(companyID string) bool {
	return s.Global() || *s.CompanyID == companyID
}
