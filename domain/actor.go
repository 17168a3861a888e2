package domain

// Actor is the caller of a request, resolved from the token and the live user record.
type Actor struct {
	UserID     uint
	Email      string
	Name       string
	Role       string
	IsFraud    bool
	Registered bool
}

func (a Actor) IsAdmin() bool {
	return a.Registered && a.Role == RoleAdmin
}

func (a Actor) IsAgent() bool {
	return a.Registered && a.Role == RoleAgent
}

// CanManage is the owner-or-admin policy.
func (a Actor) CanManage(ownerEmail string) bool {
	if a.IsAdmin() {
		return true
	}

	return a.Email != "" && a.Email == ownerEmail
}
