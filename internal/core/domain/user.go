package domain

import "time"

// User is an operator account for the web panel. Accounts are managed
// through the users CLI command, not the API.
type User struct {
	Username  string    `db:"username"`
	Password  string    `db:"password"` // bcrypt hash, never the plaintext
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewUser(username, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps UpdatedAt, used when the password changes.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}
