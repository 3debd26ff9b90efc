package domain

import "time"

type ID string

// User is the sole persisted entity. Username is unique at the store,
// PasswordHash is the only field that ever changes after creation.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
