package authz

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleTeknisi    = "teknisi"
	RoleSales      = "sales"
)

// IsKnown reports whether the role is part of the vocabulary.
// Everything role-scoped fails closed for unknown roles.
func IsKnown(role string) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleTeknisi, RoleSales:
		return true
	}
	return false
}

func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// CanManageAssignments reports whether the role may create or remove
// assignments on behalf of technicians.
func CanManageAssignments(role string) bool {
	return role == RoleSupervisor || role == RoleAdmin
}

// CanRecordSessions: only field technicians record presence events.
func CanRecordSessions(role string) bool {
	return role == RoleTeknisi
}
