package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionRequestsSubmit allows opening a new bonafide request.
	PermissionRequestsSubmit Permission = "requests:submit"

	// PermissionRequestsReadOwn allows viewing one's own requests.
	PermissionRequestsReadOwn Permission = "requests:read_own"

	// PermissionRequestsReadAll allows viewing the ledger (subject to the scoping policy).
	PermissionRequestsReadAll Permission = "requests:read_all"

	// PermissionRequestsProcess allows approving and rejecting requests.
	PermissionRequestsProcess Permission = "requests:process"

	// PermissionRequestsExport allows exporting the ledger.
	PermissionRequestsExport Permission = "requests:export"

	// PermissionCertificatesGenerate allows downloading certificates.
	PermissionCertificatesGenerate Permission = "certificates:generate"

	// PermissionSystemRead allows viewing runtime and backend status.
	PermissionSystemRead Permission = "system:read"
)

// Dashboard names the view a role is routed to.
type Dashboard string

const (
	DashboardStudent Dashboard = "student"
	DashboardAdmin   Dashboard = "admin"
)

var studentPermissions = []Permission{
	PermissionRequestsSubmit,
	PermissionRequestsReadOwn,
}

var adminPermissions = []Permission{
	PermissionRequestsReadAll,
	PermissionRequestsProcess,
	PermissionRequestsExport,
	PermissionCertificatesGenerate,
	PermissionSystemRead,
}

// PermissionsFor returns the capability set of a role. Unknown roles get none.
func PermissionsFor(role Role) []Permission {
	switch role {
	case RoleStudent:
		return append([]Permission(nil), studentPermissions...)
	case RoleAdmin:
		return append([]Permission(nil), adminPermissions...)
	default:
		return nil
	}
}

// DashboardFor returns the dashboard a role is routed to.
func DashboardFor(role Role) (Dashboard, bool) {
	switch role {
	case RoleStudent:
		return DashboardStudent, true
	case RoleAdmin:
		return DashboardAdmin, true
	default:
		return "", false
	}
}

// PermissionStrings converts a permission set to its string codes.
func PermissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
