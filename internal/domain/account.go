package domain

import "time"

// AccountStatus represents lifecycle states for a provider account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account is the provider-side record backing a Subject.
type Account struct {
	ID         string
	Email      string
	SecretHash string
	Status     AccountStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Subject projects the account to the view the session core consumes.
func (a *Account) Subject() Subject {
	return Subject{ID: a.ID, Email: a.Email}
}
