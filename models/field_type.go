package models

// FieldType is the display type of a custom field. It controls masking and
// input affordances in the UI only; every custom field value is encrypted
// the same way regardless of its type.
type FieldType int

const (
	FieldText      FieldType = 0
	FieldHidden    FieldType = 1
	FieldURL       FieldType = 2
	FieldEmail     FieldType = 3
	FieldAddress   FieldType = 4
	FieldDate      FieldType = 5
	FieldMonthYear FieldType = 6
	FieldPhone     FieldType = 7
)

// SecureNoteType distinguishes secure-note payload kinds. Only Generic is
// currently produced; the field exists for wire compatibility.
type SecureNoteType int

const (
	SecureNoteGeneric SecureNoteType = 0
)

// URIMatchType selects the matching strategy that associates a login with
// one of its URIs.
type URIMatchType int

const (
	URIMatchDomain URIMatchType = 0
	URIMatchHost   URIMatchType = 1
	URIMatchStarts URIMatchType = 2
	URIMatchExact  URIMatchType = 3
	URIMatchRegex  URIMatchType = 4
	URIMatchNever  URIMatchType = 5
)
