package domain

import "time"

// Session is the signed-in user context. There is at most one per process.
type Session struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SignedInAt time.Time `json:"signedInAt"`
}
