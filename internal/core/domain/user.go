package domain

import "time"

// StartingCredits is the balance granted to every account at signup.
const StartingCredits = 5

// MaxNameLength bounds the display name accepted by rename.
const MaxNameLength = 100

// User models an account with a prepaid credit balance.
// Credits is a non-negative counter; every paid generation consumes exactly one.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Credits      int       `json:"credits"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
