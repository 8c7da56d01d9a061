package models

// SyncResponse is the full vault snapshot the server returns for the
// authenticated user. All records are still encrypted.
type SyncResponse struct {
	Ciphers     []CipherData     `json:"ciphers"`
	Folders     []FolderData     `json:"folders"`
	Collections []CollectionData `json:"collections"`
	Sends       []SendData       `json:"sends"`
}
