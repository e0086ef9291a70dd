package models

import "fmt"

// Action is the closed set of operations a client may request on a page.
type Action string

const (
	ActionView   Action = "ver"
	ActionCreate Action = "crear"
	ActionEdit   Action = "editar"
	ActionDelete Action = "eliminar"
	ActionImport Action = "importar"
	ActionExport Action = "exportar"
	ActionPrint  Action = "imprimir"
)

// Capability is one of the four stored permission flags.
type Capability string

const (
	CanView   Capability = "puede_ver"
	CanCreate Capability = "puede_crear"
	CanEdit   Capability = "puede_editar"
	CanDelete Capability = "puede_eliminar"
)

// Capability resolves an action to the permission flag that authorizes it.
// Import rides on the create flag; export and print ride on the view flag.
func (a Action) Capability() (Capability, error) {
	switch a {
	case ActionView, ActionExport, ActionPrint:
		return CanView, nil
	case ActionCreate, ActionImport:
		return CanCreate, nil
	case ActionEdit:
		return CanEdit, nil
	case ActionDelete:
		return CanDelete, nil
	default:
		return "", fmt.Errorf("unsupported action %q", string(a))
	}
}

// GroupScope says which groups a teacher assignment covers.
// The zero value covers every group of the grade.
type GroupScope struct {
	GroupID *int64
}

// AllGroups reports whether the scope spans every group of the grade
func (s GroupScope) AllGroups() bool {
	return s.GroupID == nil
}

// ScopeAllGroups returns a scope covering every group of the grade
func ScopeAllGroups() GroupScope {
	return GroupScope{}
}

// ScopeGroup returns a scope covering a single group
func ScopeGroup(groupID int64) GroupScope {
	return GroupScope{GroupID: &groupID}
}
