package domain

import "time"

// User models a forum account as seen by clients. The password never leaves
// the server.
type User struct {
	ID        int64
	Created   time.Time
	Updated   *time.Time // nil until the first update
	Username  string
	Email     string
	Super     bool
	FirstName string
	LastName  string
}

// UserCreate carries the fields required to open an account.
type UserCreate struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserUpdate is a partial update: nil fields are left untouched.
type UserUpdate struct {
	Username  *string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// FullName joins first and last name the way the profile page shows it.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
