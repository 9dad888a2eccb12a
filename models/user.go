package models

import "time"

// User represents an account on the sync server. It is used for
// authentication and as the owner of project namespaces.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// Name is the display name of the user. Non-sensitive, may be shown in UI.
	Name string `json:"name"`

	// Password carries the password credential during register/login
	// exchanges. On the server side it holds the argon2id-encoded hash;
	// plaintext never reaches the persistence layer.
	Password string `json:"password"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
