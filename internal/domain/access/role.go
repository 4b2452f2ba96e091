// Package access resuelve el alcance de un llamador a partir de su rol y base asignada:
// el filtro que se aplica a las lecturas y la autorización de cada escritura.
package access

import (
	"fmt"

	"github.com/jhoicas/military-assets-api/internal/domain"
)

// Role es la enumeración cerrada de roles del sistema.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleBaseCommander    Role = "base_commander"
	RoleLogisticsOfficer Role = "logistics_officer"
)

// Roles devuelve todos los roles válidos.
func Roles() []Role {
	return []Role{RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer}
}

// ParseRole convierte el claim del token en un Role. Un rol desconocido es ErrForbidden.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer:
		return r, nil
	}
	return "", fmt.Errorf("%w: rol desconocido %q", domain.ErrForbidden, s)
}

// BaseScoped indica si el rol está limitado a una única base asignada.
func (r Role) BaseScoped() bool {
	return r != RoleAdmin
}

func (r Role) String() string { return string(r) }

// Action identifica una operación de escritura sujeta a la matriz de permisos.
type Action string

const (
	ActionCreatePurchase    Action = "create_purchase"
	ActionCreateTransfer    Action = "create_transfer"
	ActionCreateAssignment  Action = "create_assignment"
	ActionCreateExpenditure Action = "create_expenditure"
	ActionReadAuditLog      Action = "read_audit_log"
)

// permissions es la matriz de escritura: qué roles pueden ejecutar cada acción.
var permissions = map[Action]map[Role]bool{
	ActionCreatePurchase: {
		RoleAdmin:            true,
		RoleLogisticsOfficer: true,
	},
	ActionCreateTransfer: {
		RoleAdmin:            true,
		RoleLogisticsOfficer: true,
	},
	ActionCreateAssignment: {
		RoleAdmin:            true,
		RoleBaseCommander:    true,
		RoleLogisticsOfficer: true,
	},
	ActionCreateExpenditure: {
		RoleAdmin:         true,
		RoleBaseCommander: true,
	},
	ActionReadAuditLog: {
		RoleAdmin: true,
	},
}

// Permits consulta la matriz. Una acción no registrada no se permite a nadie.
func Permits(role Role, action Action) bool {
	return permissions[action][role]
}

// RolesFor lista los roles con permiso para la acción, en orden estable.
func RolesFor(action Action) []Role {
	var out []Role
	for _, r := range Roles() {
		if Permits(r, action) {
			out = append(out, r)
		}
	}
	return out
}
