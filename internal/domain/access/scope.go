package access

import (
	"fmt"

	"github.com/jhoicas/military-assets-api/internal/domain"
)

// Identity es la tupla que entrega el colaborador de autenticación; se confía tal cual.
type Identity struct {
	SubjectID string
	Role      Role
	BaseID    string
}

// Scope es el alcance resuelto de un llamador. Se construye solo con Resolve.
type Scope struct {
	identity Identity
}

// Resolve valida la identidad: un sujeto sin id o un rol limitado a base sin base
// asignada (cuenta mal configurada) es ErrForbidden.
func Resolve(id Identity) (Scope, error) {
	if id.SubjectID == "" {
		return Scope{}, fmt.Errorf("%w: identidad sin sujeto", domain.ErrForbidden)
	}
	if _, err := ParseRole(string(id.Role)); err != nil {
		return Scope{}, err
	}
	if id.Role.BaseScoped() && id.BaseID == "" {
		return Scope{}, fmt.Errorf("%w: usuario sin base asignada", domain.ErrForbidden)
	}
	return Scope{identity: id}, nil
}

// Identity devuelve la identidad subyacente.
func (s Scope) Identity() Identity { return s.identity }

// SubjectID devuelve el id del llamador.
func (s Scope) SubjectID() string { return s.identity.SubjectID }

// IsAdmin indica acceso sin restricción de base.
func (s Scope) IsAdmin() bool { return s.identity.Role == RoleAdmin }

// Authorize verifica solo la matriz de permisos para la acción.
func (s Scope) Authorize(action Action) error {
	if !Permits(s.identity.Role, action) {
		return fmt.Errorf("%w: el rol %s no puede %s", domain.ErrForbidden, s.identity.Role, action)
	}
	return nil
}

// AuthorizeWrite verifica permiso de rol y que la base destino sea la asignada.
func (s Scope) AuthorizeWrite(action Action, baseID string) error {
	if err := s.Authorize(action); err != nil {
		return err
	}
	if s.IsAdmin() || baseID == s.identity.BaseID {
		return nil
	}
	return fmt.Errorf("%w: solo puede operar sobre su base asignada", domain.ErrForbidden)
}

// AuthorizeTransfer exige que al menos uno de los extremos sea la base del llamador.
func (s Scope) AuthorizeTransfer(sourceBaseID, destinationBaseID string) error {
	if err := s.Authorize(ActionCreateTransfer); err != nil {
		return err
	}
	if s.IsAdmin() || sourceBaseID == s.identity.BaseID || destinationBaseID == s.identity.BaseID {
		return nil
	}
	return fmt.Errorf("%w: la transferencia debe involucrar su base asignada", domain.ErrForbidden)
}

// ReadBase resuelve el filtro de base para un listado. Para admin devuelve el filtro
// pedido (vacío = todas). Para roles limitados, vacío equivale a su base y cualquier
// otra base es ErrForbidden.
func (s Scope) ReadBase(requested string) (string, error) {
	if s.IsAdmin() {
		return requested, nil
	}
	if requested == "" || requested == s.identity.BaseID {
		return s.identity.BaseID, nil
	}
	return "", fmt.Errorf("%w: no tiene acceso a la base solicitada", domain.ErrForbidden)
}

// CanRead indica si el llamador puede ver un registro que referencia las bases dadas.
func (s Scope) CanRead(baseIDs ...string) bool {
	if s.IsAdmin() {
		return true
	}
	for _, b := range baseIDs {
		if b != "" && b == s.identity.BaseID {
			return true
		}
	}
	return false
}
