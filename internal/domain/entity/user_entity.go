package entity

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the aggregate root for the account domain.
//
// Password holds the stored credential verbatim. By default the application
// compares it by plain equality for behavioral parity with the system this
// replaces; see internal/application/credentials.go for the bcrypt switch.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      string
	Address   string
	Photo     string
	CreatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
