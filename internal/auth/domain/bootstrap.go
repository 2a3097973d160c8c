package domain

// BootstrapData describes the first administrator created on an empty
// account table.
type BootstrapData struct {
	AdminUsername string
	AdminEmail    string
	AdminFullName string
	AdminPassword string
	Permissions   []string
}
