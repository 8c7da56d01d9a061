package service

import (
	"github.com/vaultkit/go-vault-client/models"
)

// exportDocument is the top-level JSON export shape. Exactly one of Folders
// and Collections is populated, matching personal versus organization scope.
// The validation marker is present only in encrypted exports: a freshly
// encrypted random GUID an importer can decrypt to detect a wrong key before
// touching the items.
type exportDocument struct {
	Encrypted        bool               `json:"encrypted"`
	EncKeyValidation string             `json:"encKeyValidation_DO_NOT_EDIT,omitempty"`
	Folders          []exportFolder     `json:"folders,omitempty"`
	Collections      []exportCollection `json:"collections,omitempty"`
	Items            []exportItem       `json:"items"`
}

// encryptedExportDocument carries still-encrypted records. Items and
// folders/collections keep their storage representation.
type encryptedExportDocument struct {
	Encrypted        bool                    `json:"encrypted"`
	EncKeyValidation string                  `json:"encKeyValidation_DO_NOT_EDIT"`
	Folders          []models.FolderData     `json:"folders,omitempty"`
	Collections      []models.CollectionData `json:"collections,omitempty"`
	Items            []models.CipherData     `json:"items"`
}

type exportFolder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type exportCollection struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	ExternalID     string `json:"externalId,omitempty"`
}

type exportItem struct {
	ID             string            `json:"id"`
	OrganizationID *string           `json:"organizationId"`
	FolderID       *string           `json:"folderId"`
	CollectionIDs  []string          `json:"collectionIds,omitempty"`
	Type           models.CipherType `json:"type"`
	Name           string            `json:"name"`
	Notes          string            `json:"notes,omitempty"`
	Favorite       bool              `json:"favorite"`
	Reprompt       int               `json:"reprompt"`
	Fields         []exportField     `json:"fields,omitempty"`
	Login          *exportLogin      `json:"login,omitempty"`
	Card           *exportCard       `json:"card,omitempty"`
	Identity       *exportIdentity   `json:"identity,omitempty"`
	SecureNote     *exportSecureNote `json:"secureNote,omitempty"`
}

type exportField struct {
	Name  string           `json:"name"`
	Value string           `json:"value"`
	Type  models.FieldType `json:"type"`
}

type exportLogin struct {
	Username string           `json:"username,omitempty"`
	Password string           `json:"password,omitempty"`
	TOTP     string           `json:"totp,omitempty"`
	URIs     []exportLoginURI `json:"uris,omitempty"`
}

type exportLoginURI struct {
	URI   string               `json:"uri"`
	Match *models.URIMatchType `json:"match,omitempty"`
}

type exportCard struct {
	CardholderName string `json:"cardholderName,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Number         string `json:"number,omitempty"`
	ExpMonth       string `json:"expMonth,omitempty"`
	ExpYear        string `json:"expYear,omitempty"`
	Code           string `json:"code,omitempty"`
}

type exportIdentity struct {
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

type exportSecureNote struct {
	Type models.SecureNoteType `json:"type"`
}
