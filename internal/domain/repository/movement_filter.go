package repository

import "time"

// MovementFilter filtro común de listados del ledger. Campos vacíos no filtran.
// Para transferencias, BaseID coincide con origen o destino.
type MovementFilter struct {
	BaseID    string
	AssetID   string
	From      *time.Time
	To        *time.Time
	Personnel string // subcadena sobre assigned_to_personnel (asignaciones)
	Operation string // subcadena sobre operation_name (gastos)
	Status    string // estado de la asignación
	Limit     int // 0 = sin límite
	Offset    int
}

// Normalize descarta valores de paginación negativos. Limit 0 devuelve la secuencia completa.
func (f *MovementFilter) Normalize() {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
