package domain

// Identity is the authenticated caller as reported by the identity provider.
type Identity struct {
	ID   string
	Name string
	Role UserRole
}

// IsSupervisor reports whether the caller holds the supervisor role.
func (i *Identity) IsSupervisor() bool {
	return i != nil && i.Role == UserRoleSupervisor
}
