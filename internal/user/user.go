package user

import "time"

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Country   string    `json:"country"`
	Gender    string    `json:"gender"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is the body returned by login and signup.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
