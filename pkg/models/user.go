package models

type User struct {
	ID       int64  `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	City     string `json:"city,omitempty"`
}
