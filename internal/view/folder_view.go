package view

import "time"

// Folder is the decrypted representation of a folder.
type Folder struct {
	ID           string
	Name         string
	RevisionDate *time.Time
}

// Collection is the decrypted representation of an organization collection.
type Collection struct {
	ID             string
	OrganizationID string
	Name           string
	ExternalID     string
	ReadOnly       bool
	HidePasswords  bool
}
