package importers

import "errors"

var (
	// ErrEncryptedInput is returned when a plaintext importer is handed
	// an encrypted export document.
	ErrEncryptedInput = errors.New("document is encrypted, use the encrypted importer")

	// ErrWrongImportKey is returned when the validation marker of an
	// encrypted document does not decrypt under any available key. The
	// items are never touched in that case.
	ErrWrongImportKey = errors.New("import file is encrypted under a different key")
)
