package constants

const (
	RoleProjectManager = "project_manager"
	RoleMember         = "member"
)
