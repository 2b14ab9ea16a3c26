package session

import "errors"

// Failure taxonomy for the credential lifecycle. Callers branch on these with
// errors.Is; none of them is retried internally.
var (
	// ErrMissingCredential signals that no access credential was presented.
	ErrMissingCredential = errors.New("session: missing credential")
	// ErrCredentialExpired signals a well-signed access credential past its expiry.
	ErrCredentialExpired = errors.New("session: credential expired")
	// ErrInvalidCredential signals a forged or malformed access credential.
	ErrInvalidCredential = errors.New("session: invalid credential")

	// ErrMissingRenewalCredential signals that renew was called without a renewal credential.
	ErrMissingRenewalCredential = errors.New("session: missing renewal credential")
	// ErrInvalidRenewalCredential signals a forged renewal credential or a
	// credential of the wrong kind presented for renewal.
	ErrInvalidRenewalCredential = errors.New("session: invalid renewal credential")
	// ErrRenewalExpiredNeedsReauth signals the designed escape hatch: the renewal
	// credential expired and no fresh identity claim accompanied the request, so
	// the client must re-authenticate against the identity provider.
	ErrRenewalExpiredNeedsReauth = errors.New("session: renewal credential expired, reauthentication required")

	// ErrInvalidIdentityClaim signals that the identity provider rejected a claim
	// on the register or authenticate path.
	ErrInvalidIdentityClaim = errors.New("session: invalid identity claim")
	// ErrAuthenticationFailed signals that the provider rejected the fallback
	// claim during renewal.
	ErrAuthenticationFailed = errors.New("session: authentication failed")
)

// errRenewalExpired is the token-level classification of a well-signed,
// correctly-kinded renewal credential past expiry. The orchestrator turns it
// into either a fallback attempt or ErrRenewalExpiredNeedsReauth.
var errRenewalExpired = errors.New("session: renewal credential expired")
