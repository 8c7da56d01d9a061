package models

// FolderData is the wire/storage shape of a folder. Name is an encrypted
// string decrypted with the account key.
type FolderData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RevisionDate string `json:"revisionDate,omitempty"`
}

// CollectionData is the wire/storage shape of an organization collection.
// Name is an encrypted string decrypted with the organization key, not the
// account key.
type CollectionData struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`

	// ExternalID links the collection to an external directory entry.
	ExternalID string `json:"externalId,omitempty"`

	// ReadOnly and HidePasswords carry the caller's ACL on the collection.
	ReadOnly      bool `json:"readOnly"`
	HidePasswords bool `json:"hidePasswords"`
}
