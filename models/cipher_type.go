package models

// CipherType is the discriminant selecting which type-specific sub-shape of
// a vault item is populated. The numeric values are storage-stable: they
// appear in the local cache, in sync payloads, and in encrypted exports.
type CipherType int

const (
	// MasterPassword is the synthetic "type 0" cipher holding the vault's
	// own encryption key material. It is stored like any other cipher for
	// uniformity but excluded from listing, sharing and export.
	MasterPassword CipherType = 0

	// Login represents authentication credentials: username, password,
	// URIs and an optional TOTP seed.
	Login CipherType = 1

	// SecureNote represents free-form secret text.
	SecureNote CipherType = 2

	// Card represents payment card information.
	Card CipherType = 3

	// Identity represents personal identity information.
	Identity CipherType = 4

	// The types below share the SecureNote encryption shape: their
	// structured payload is a plaintext JSON document embedded in the
	// notes field. They differ only in how the UI renders them.

	TOTP                 CipherType = 5
	CryptoWallet         CipherType = 6
	DriverLicense        CipherType = 7
	CitizenID            CipherType = 8
	Passport             CipherType = 9
	SocialSecurityNumber CipherType = 10
	WirelessRouter       CipherType = 11
	Server               CipherType = 12
	APIKey               CipherType = 13
	Database             CipherType = 14
)

// cipherTypeNames maps each type to its export/import string form, the
// value written to the "type" CSV column.
var cipherTypeNames = map[CipherType]string{
	Login:                "login",
	SecureNote:           "note",
	Card:                 "card",
	Identity:             "identity",
	TOTP:                 "totp",
	CryptoWallet:         "crypto-wallet",
	DriverLicense:        "driver-license",
	CitizenID:            "citizen-id",
	Passport:             "passport",
	SocialSecurityNumber: "social-security-number",
	WirelessRouter:       "wireless-router",
	Server:               "server",
	APIKey:               "api-cipher",
	Database:             "database",
}

// String returns the export string form of the type, or "" for types that
// never appear in exports (MasterPassword, unknown values).
func (t CipherType) String() string {
	return cipherTypeNames[t]
}

// CipherTypeFromString resolves an import "type" column value. The second
// result reports whether the value named a known type.
func CipherTypeFromString(s string) (CipherType, bool) {
	for t, name := range cipherTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// IsSecureNoteShaped reports whether the type encrypts through the
// SecureNote sub-shape (its structured payload, if any, lives in notes).
func (t CipherType) IsSecureNoteShaped() bool {
	return t == SecureNote || t >= TOTP
}
