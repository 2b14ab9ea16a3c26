package dto

import "time"

// ProviderSignupRequest payload for provider account creation.
type ProviderSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProviderLoginRequest payload for provider authentication.
type ProviderLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClaimResponse carries a provider-issued identity claim.
type ClaimResponse struct {
	Claim string `json:"claim"`
}

// EstablishRequest payload for register and login: an identity claim.
type EstablishRequest struct {
	Claim string `json:"claim"`
}

// RenewRequest payload for credential renewal. The claim is only consulted
// when the renewal token is expired.
type RenewRequest struct {
	RenewalToken string `json:"renewal_token"`
	Claim        string `json:"claim,omitempty"`
}

// CredentialPairResponse is the wire form of an issued credential pair.
type CredentialPairResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RenewalToken     string    `json:"renewal_token"`
	RenewalExpiresAt time.Time `json:"renewal_expires_at"`
}

// SubjectResponse is the wire form of the subject view.
type SubjectResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
