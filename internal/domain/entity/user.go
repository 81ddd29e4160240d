package entity

// Roles válidos de usuario (claim "role" del token).
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// LedgerWriterRoles roles que pueden registrar o revertir movimientos. Todos los roles pueden consultar.
var LedgerWriterRoles = []string{RoleAdmin, RoleBodeguero}
