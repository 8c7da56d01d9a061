// Package view holds the decrypted, display-ready representations of vault
// entities. View values are always derived from Domain objects (or built by
// the import pipeline), are owned by the caller, and are never persisted.
// A View never contains an EncryptedString.
package view

import (
	"time"

	"github.com/vaultkit/go-vault-client/models"
)

// Cipher is the decrypted representation of one vault item. Exactly one of
// the type-specific sub-shape pointers is non-nil, selected by Type.
type Cipher struct {
	ID             string
	OrganizationID string
	FolderID       string
	Type           models.CipherType
	Name           string
	Notes          string
	Favorite       bool
	Reprompt       int
	Edit           bool
	ViewPassword   bool
	CollectionIDs  []string
	RevisionDate   *time.Time
	CreationDate   *time.Time
	DeletedDate    *time.Time

	Login      *Login
	Card       *Card
	Identity   *Identity
	SecureNote *SecureNote

	Fields          []Field
	Attachments     []Attachment
	PasswordHistory []PasswordHistory
}

// IsDeleted reports whether the item is soft-deleted (in trash).
func (c *Cipher) IsDeleted() bool {
	return c.DeletedDate != nil
}

// Login is the decrypted login sub-shape.
type Login struct {
	Username             string
	Password             string
	TOTP                 string
	URIs                 []LoginURI
	PasswordRevisionDate *time.Time
}

// LoginURI is one decrypted URI with its matching strategy.
type LoginURI struct {
	URI   string
	Match *models.URIMatchType
}

// Card is the decrypted payment-card sub-shape.
type Card struct {
	CardholderName string
	Brand          string
	Number         string
	ExpMonth       string
	ExpYear        string
	Code           string
}

// Identity is the decrypted identity sub-shape.
type Identity struct {
	Title          string
	FirstName      string
	MiddleName     string
	LastName       string
	Address1       string
	Address2       string
	Address3       string
	City           string
	State          string
	PostalCode     string
	Country        string
	Company        string
	Email          string
	Phone          string
	SSN            string
	Username       string
	PassportNumber string
	LicenseNumber  string
}

// SecureNote is the decrypted secure-note sub-shape. The note text lives in
// the cipher's Notes field.
type SecureNote struct {
	Type models.SecureNoteType
}

// Field is one decrypted custom field.
type Field struct {
	Name  string
	Value string
	Type  models.FieldType
}

// Attachment is the decrypted metadata of one attachment.
type Attachment struct {
	ID       string
	URL      string
	FileName string
	Size     string
	SizeName string
}

// PasswordHistory is one decrypted previous password.
type PasswordHistory struct {
	Password     string
	LastUsedDate *time.Time
}
