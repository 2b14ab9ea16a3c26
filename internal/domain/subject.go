package domain

// Subject is the minimal identity view the session core operates on.
// It is sourced from the identity provider and never mutated locally.
type Subject struct {
	ID    string
	Email string
}
