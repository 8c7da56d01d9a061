package models

// SendData is the wire/storage shape of an ephemeral share. A send wraps a
// single cipher encrypted under its own randomly generated key, so a
// recipient holding only the link (and the optional password) can decrypt
// it without an account.
type SendData struct {
	// ID is the unique identifier of the send.
	ID string `json:"id"`

	// AccessID is the public identifier embedded in the share link.
	AccessID string `json:"accessId"`

	// Key is the ciphertext of the 16-byte send key seed, encrypted under
	// the account (or organization) key for storage.
	Key string `json:"key"`

	// Password is the base64 PBKDF2-HMAC-SHA256 digest of the optional
	// access password, salted with the send key seed. Empty when the send
	// is not password-gated. The send key is never derivable from this
	// digest; it is only checkable against it.
	Password string `json:"password,omitempty"`

	// MaxAccessCount caps how many times the send may be opened. Nil
	// means unlimited.
	MaxAccessCount *int `json:"maxAccessCount,omitempty"`

	// AccessCount is the number of accesses recorded so far. The server
	// count is authoritative; this value only gates UI rendering.
	AccessCount int `json:"accessCount"`

	// EachEmailAccessCount caps accesses per recipient email when the
	// send is restricted to specific recipients.
	EachEmailAccessCount *int `json:"eachEmailAccessCount,omitempty"`

	// ExpirationDate, when set, is the RFC 3339 instant after which the
	// send refuses to render.
	ExpirationDate string `json:"expirationDate,omitempty"`

	// RevisionDate is the server-side last-modification timestamp.
	RevisionDate string `json:"revisionDate,omitempty"`

	// Disabled blocks further access regardless of other gates.
	Disabled bool `json:"disabled"`

	// RequireOtp demands an emailed one-time code in addition to the link.
	RequireOtp bool `json:"requireOtp"`

	// Emails lists the recipient addresses the send is restricted to.
	Emails []string `json:"emails,omitempty"`

	// Cipher is the wrapped vault item, with every ciphertext field
	// encrypted under the send key rather than the account key.
	Cipher CipherData `json:"cipher"`
}
