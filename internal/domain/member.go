package domain

// Member represents a connection's participation meta.
// No transport or lifecycle logic here.
type Member struct {
	User *User
	Host bool
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(user *User) *Member {
	return &Member{User: user}
}
