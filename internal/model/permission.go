package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionStudentsRead allows viewing student lists and details.
	PermissionStudentsRead Permission = "students:read"

	// PermissionStudentsWrite allows enrolling and updating students.
	PermissionStudentsWrite Permission = "students:write"

	// PermissionAttendanceRead allows viewing attendance records and exports.
	PermissionAttendanceRead Permission = "attendance:read"

	// PermissionAttendanceWrite allows checking students in and out.
	PermissionAttendanceWrite Permission = "attendance:write"

	// PermissionStaffRead allows viewing staff and time sheets.
	PermissionStaffRead Permission = "staff:read"

	// PermissionStaffWrite allows managing staff and the time-clock.
	PermissionStaffWrite Permission = "staff:write"

	// PermissionPenaltiesRead allows viewing penalties.
	PermissionPenaltiesRead Permission = "penalties:read"

	// PermissionPenaltiesWrite allows recording and removing penalties.
	PermissionPenaltiesWrite Permission = "penalties:write"

	// PermissionInvoicesRead allows previewing invoices and listing past ones.
	PermissionInvoicesRead Permission = "invoices:read"

	// PermissionInvoicesWrite allows generating invoice documents.
	PermissionInvoicesWrite Permission = "invoices:write"

	// PermissionActivityRead allows viewing the history log and the live change feed.
	PermissionActivityRead Permission = "activity:read"

	// PermissionSettingsRead allows viewing application settings.
	PermissionSettingsRead Permission = "settings:read"

	// PermissionSettingsWrite allows editing application settings.
	PermissionSettingsWrite Permission = "settings:write"

	// PermissionAdminsWrite allows creating admin users.
	PermissionAdminsWrite Permission = "admins:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionStudentsRead,
	PermissionStudentsWrite,
	PermissionAttendanceRead,
	PermissionAttendanceWrite,
	PermissionStaffRead,
	PermissionStaffWrite,
	PermissionPenaltiesRead,
	PermissionPenaltiesWrite,
	PermissionInvoicesRead,
	PermissionInvoicesWrite,
	PermissionActivityRead,
	PermissionSettingsRead,
	PermissionSettingsWrite,
	PermissionAdminsWrite,
}
