package auth

import "strings"

// User is the profile of the signed-in operator.
type User struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Placeholder values for fields which the server did not send.
const (
	PlaceholderId        = "1"
	PlaceholderEmail     = "user@example.com"
	PlaceholderFirstName = "User"
	PlaceholderLastName  = "Name"
)

// Session is the normalized outcome of login or register.
type Session struct {
	Token string
	User  User
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
