package importers

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// Values longer than this, or containing newlines, read better as notes
// than as a custom field.
const maxFieldValueLength = 200

// baseImporter carries the behavior every importer shares. organization
// selects collections over folders as the grouping entity.
type baseImporter struct {
	organization bool
}

// csvRecord is one data row. columns preserves source order; values maps
// lower-cased column names to cell contents.
type csvRecord struct {
	columns []string
	values  map[string]string
}

func (r csvRecord) value(name string) string {
	return r.values[name]
}

// parseCSVRecords parses the whole document. With header true the first row
// names the columns; otherwise columns get positional names ("column1",
// "column2", ...). Ragged rows are tolerated; a malformed document fails as
// a whole.
func parseCSVRecords(data string, header bool) ([]csvRecord, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv document: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var columns []string
	if header {
		for _, name := range rows[0] {
			columns = append(columns, strings.ToLower(strings.TrimSpace(name)))
		}
		rows = rows[1:]
	}

	records := make([]csvRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		rec := csvRecord{values: make(map[string]string, len(row))}
		for i, cell := range row {
			name := fmt.Sprintf("column%d", i+1)
			if i < len(columns) {
				name = columns[i]
			}
			rec.columns = append(rec.columns, name)
			rec.values[name] = cell
		}
		records = append(records, rec)
	}
	return records, nil
}

// initLoginCipher returns a fresh login-shaped cipher, the starting shape
// for every imported row until the row proves to be something else.
func (b *baseImporter) initLoginCipher() *view.Cipher {
	return &view.Cipher{
		Type:  models.Login,
		Login: &view.Login{},
	}
}

// processFolder records the grouping of the cipher currently being built
// (the one that will be appended next) under the named folder or
// collection, deduplicating names across rows. Call it before appending the
// cipher to the result.
func (b *baseImporter) processFolder(result *ImportResult, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	cipherIndex := len(result.Ciphers)

	if b.organization {
		for i, c := range result.Collections {
			if c.Name == name {
				result.CollectionRelationships = append(result.CollectionRelationships, Relationship{cipherIndex, i})
				return
			}
		}
		result.Collections = append(result.Collections, &view.Collection{Name: name})
		result.CollectionRelationships = append(result.CollectionRelationships, Relationship{cipherIndex, len(result.Collections) - 1})
		return
	}

	for i, f := range result.Folders {
		if f.Name == name {
			result.FolderRelationships = append(result.FolderRelationships, Relationship{cipherIndex, i})
			return
		}
	}
	result.Folders = append(result.Folders, &view.Folder{Name: name})
	result.FolderRelationships = append(result.FolderRelationships, Relationship{cipherIndex, len(result.Folders) - 1})
}

// processKvp folds a source column the importer did not recognize into the
// cipher rather than dropping it. Short values become custom fields; long
// or multi-line values are appended to notes.
func (b *baseImporter) processKvp(c *view.Cipher, name, value string, fieldType models.FieldType) {
	if name == "" || value == "" {
		return
	}

	if len(value) > maxFieldValueLength || strings.Contains(value, "\n") {
		if c.Notes != "" {
			c.Notes += "\n"
		}
		c.Notes += name + ": " + value
		return
	}

	c.Fields = append(c.Fields, view.Field{Name: name, Value: value, Type: fieldType})
}

// getValueOrDefault returns value unless it is blank.
func (b *baseImporter) getValueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// makeURIArray splits a cell holding one URI per line into login URIs.
func (b *baseImporter) makeURIArray(cell string) []view.LoginURI {
	var uris []view.LoginURI
	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		uris = append(uris, view.LoginURI{URI: line})
	}
	return uris
}

// cleanupCipher normalizes a finished row. Every cipher needs a display
// name, even when the source row had none.
func (b *baseImporter) cleanupCipher(c *view.Cipher) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = "--"
	}
	c.Notes = strings.TrimSpace(c.Notes)
}

// inferCardBrand guesses the card network from the number prefix.
func inferCardBrand(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case hasPrefixInRange(digits, 51, 55), hasPrefixInRange(digits, 2221, 2720):
		return "Mastercard"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "Amex"
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return "Discover"
	case strings.HasPrefix(digits, "35"):
		return "JCB"
	case strings.HasPrefix(digits, "30"), strings.HasPrefix(digits, "36"), strings.HasPrefix(digits, "38"):
		return "Diners Club"
	case strings.HasPrefix(digits, "62"):
		return "UnionPay"
	}
	return ""
}

func hasPrefixInRange(digits string, low, high int) bool {
	width := len(fmt.Sprint(low))
	if len(digits) < width {
		return false
	}
	var prefix int
	if _, err := fmt.Sscanf(digits[:width], "%d", &prefix); err != nil {
		return false
	}
	return prefix >= low && prefix <= high
}
