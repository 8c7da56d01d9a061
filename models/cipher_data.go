package models

// CipherData is the flat, JSON-serializable shape of a vault item as it is
// exchanged with storage and the network. Every ciphertext-bearing field is
// a plain string holding the serialized encrypted form; the database and
// the server treat those strings as opaque. Dates are RFC 3339 strings.
type CipherData struct {
	// ID is the unique identifier of the vault item.
	ID string `json:"id"`

	// OrganizationID is set when the item is owned by an organization and
	// must be decrypted with that organization's key instead of the
	// account key.
	OrganizationID string `json:"organizationId,omitempty"`

	// FolderID is the optional folder placement of the item.
	FolderID string `json:"folderId,omitempty"`

	// Type selects which one of the type-specific sub-shapes is populated.
	Type CipherType `json:"type"`

	// Name is the encrypted display name.
	Name string `json:"name"`

	// Notes is the encrypted free-form notes text.
	Notes string `json:"notes,omitempty"`

	// Favorite marks the item as pinned by the user. Plaintext flag.
	Favorite bool `json:"favorite"`

	// Reprompt requires master-password re-entry before revealing the
	// item when non-zero. Plaintext flag.
	Reprompt int `json:"reprompt"`

	// Edit and ViewPassword carry the caller's permissions on an
	// organization-owned item as reported by the server.
	Edit         bool `json:"edit"`
	ViewPassword bool `json:"viewPassword"`

	// CollectionIDs lists the organization collections the item belongs to.
	CollectionIDs []string `json:"collectionIds,omitempty"`

	// RevisionDate is the server-side last-modification timestamp.
	RevisionDate string `json:"revisionDate,omitempty"`

	// CreationDate is the server-side creation timestamp.
	CreationDate string `json:"creationDate,omitempty"`

	// DeletedDate, when set, marks the item as soft-deleted (in trash).
	DeletedDate string `json:"deletedDate,omitempty"`

	// Exactly one of the following sub-shapes is populated, selected by
	// Type. SecureNote also serves every secure-note-shaped type.
	Login      *LoginData      `json:"login,omitempty"`
	Card       *CardData       `json:"card,omitempty"`
	Identity   *IdentityData   `json:"identity,omitempty"`
	SecureNote *SecureNoteData `json:"secureNote,omitempty"`

	// Fields holds the ordered custom key/value/type triples.
	Fields []FieldData `json:"fields,omitempty"`

	// Attachments lists encrypted attachment metadata.
	Attachments []AttachmentData `json:"attachments,omitempty"`

	// PasswordHistory records previous encrypted passwords of a login.
	PasswordHistory []PasswordHistoryData `json:"passwordHistory,omitempty"`
}

// LoginData is the wire shape of the login sub-shape. All secret-bearing
// fields are encrypted strings.
type LoginData struct {
	Username string         `json:"username,omitempty"`
	Password string         `json:"password,omitempty"`
	TOTP     string         `json:"totp,omitempty"`
	URIs     []LoginURIData `json:"uris,omitempty"`

	// PasswordRevisionDate is the RFC 3339 timestamp of the last password
	// change. Plaintext.
	PasswordRevisionDate string `json:"passwordRevisionDate,omitempty"`
}

// LoginURIData is one encrypted URI plus its plaintext matching strategy.
type LoginURIData struct {
	URI   string        `json:"uri,omitempty"`
	Match *URIMatchType `json:"match,omitempty"`
}

// CardData is the wire shape of the payment-card sub-shape.
type CardData struct {
	CardholderName string `json:"cardholderName,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Number         string `json:"number,omitempty"`
	ExpMonth       string `json:"expMonth,omitempty"`
	ExpYear        string `json:"expYear,omitempty"`
	Code           string `json:"code,omitempty"`
}

// IdentityData is the wire shape of the identity sub-shape.
type IdentityData struct {
	Title          string `json:"title,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	MiddleName     string `json:"middleName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Address1       string `json:"address1,omitempty"`
	Address2       string `json:"address2,omitempty"`
	Address3       string `json:"address3,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	PostalCode     string `json:"postalCode,omitempty"`
	Country        string `json:"country,omitempty"`
	Company        string `json:"company,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	SSN            string `json:"ssn,omitempty"`
	Username       string `json:"username,omitempty"`
	PassportNumber string `json:"passportNumber,omitempty"`
	LicenseNumber  string `json:"licenseNumber,omitempty"`
}

// SecureNoteData is the wire shape of the secure-note sub-shape. The note
// text itself lives in the cipher's Notes field.
type SecureNoteData struct {
	Type SecureNoteType `json:"type"`
}

// FieldData is one custom field: encrypted name and value, plaintext
// display type.
type FieldData struct {
	Name  string    `json:"name,omitempty"`
	Value string    `json:"value,omitempty"`
	Type  FieldType `json:"type"`
}

// AttachmentData is the encrypted metadata of one attachment. The blob
// itself is stored elsewhere; Key is the attachment's own encrypted
// symmetric key.
type AttachmentData struct {
	ID       string `json:"id"`
	URL      string `json:"url,omitempty"`
	FileName string `json:"fileName,omitempty"`
	Key      string `json:"key,omitempty"`
	Size     string `json:"size,omitempty"`
	SizeName string `json:"sizeName,omitempty"`
}

// PasswordHistoryData is one previous encrypted password with the
// plaintext timestamp of its retirement.
type PasswordHistoryData struct {
	Password     string `json:"password"`
	LastUsedDate string `json:"lastUsedDate,omitempty"`
}
