package importers

import (
	"context"
	"strings"

	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// SniffCSVImporter handles CSV exports from competing password managers
// that carry no explicit type column. The row shape selects the cipher
// type: a card number column means a card, a first name means an identity,
// a content column means a note, and a url or password column means a
// login. Vendor-specific columns survive as custom fields.
type SniffCSVImporter struct {
	baseImporter
}

// NewSniffCSVImporter constructs the importer.
func NewSniffCSVImporter(organization bool) *SniffCSVImporter {
	return &SniffCSVImporter{baseImporter{organization: organization}}
}

// Column aliases seen across vendor exports, lower-cased.
var (
	sniffFolderColumns   = []string{"folder", "group", "grouping", "category"}
	sniffNameColumns     = []string{"name", "title", "account"}
	sniffNotesColumns    = []string{"notes", "note", "comments", "extra"}
	sniffURLColumns      = []string{"url", "login_uri", "website", "web site"}
	sniffUsernameColumns = []string{"username", "login_username", "login", "email"}
	sniffPasswordColumns = []string{"password", "login_password", "pass"}
	sniffTOTPColumns     = []string{"totp", "login_totp", "otp"}

	sniffCardNumberColumns = []string{"cardnumber", "card_number", "ccnumber"}
	sniffCardHolderColumns = []string{"cardholder", "cardholdername", "name_on_card"}
	sniffCardExpColumns    = []string{"expiry", "expiration", "ccexp"}
	sniffCardCodeColumns   = []string{"cvv", "cvc", "security_code"}

	sniffFirstNameColumns = []string{"firstname", "first_name"}
	sniffLastNameColumns  = []string{"lastname", "last_name"}

	sniffContentColumns = []string{"content", "secure_note"}
)

func (imp *SniffCSVImporter) Parse(_ context.Context, data string) (*ImportResult, error) {
	result := &ImportResult{}

	records, err := parseCSVRecords(data, true)
	if err != nil {
		return result, err
	}

	for _, rec := range records {
		imp.processFolder(result, firstValue(rec, sniffFolderColumns))

		c := imp.initLoginCipher()
		consumed := map[string]bool{}

		c.Name = takeFirst(rec, sniffNameColumns, consumed)
		c.Notes = takeFirst(rec, sniffNotesColumns, consumed)
		for _, column := range sniffFolderColumns {
			consumed[column] = true
		}

		switch {
		case firstValue(rec, sniffCardNumberColumns) != "":
			imp.fillCard(c, rec, consumed)
		case firstValue(rec, sniffFirstNameColumns) != "":
			imp.fillIdentity(c, rec, consumed)
		case firstValue(rec, sniffContentColumns) != "":
			c.Type = models.SecureNote
			c.Login = nil
			c.SecureNote = &view.SecureNote{}
			content := takeFirst(rec, sniffContentColumns, consumed)
			if c.Notes == "" {
				c.Notes = content
			} else {
				c.Notes += "\n" + content
			}
		default:
			imp.fillLogin(c, rec, consumed)
		}

		for _, column := range rec.columns {
			if consumed[column] {
				continue
			}
			imp.processKvp(c, column, rec.value(column), models.FieldText)
		}

		imp.cleanupCipher(c)
		result.Ciphers = append(result.Ciphers, c)
	}

	result.Success = true
	return result, nil
}

func (imp *SniffCSVImporter) fillLogin(c *view.Cipher, rec csvRecord, consumed map[string]bool) {
	c.Login.Username = takeFirst(rec, sniffUsernameColumns, consumed)
	c.Login.Password = takeFirst(rec, sniffPasswordColumns, consumed)
	c.Login.TOTP = takeFirst(rec, sniffTOTPColumns, consumed)
	c.Login.URIs = imp.makeURIArray(takeFirst(rec, sniffURLColumns, consumed))
}

func (imp *SniffCSVImporter) fillCard(c *view.Cipher, rec csvRecord, consumed map[string]bool) {
	c.Type = models.Card
	c.Login = nil
	c.Card = &view.Card{
		Number:         takeFirst(rec, sniffCardNumberColumns, consumed),
		CardholderName: takeFirst(rec, sniffCardHolderColumns, consumed),
		Code:           takeFirst(rec, sniffCardCodeColumns, consumed),
	}
	c.Card.Brand = inferCardBrand(c.Card.Number)

	// Vendor expiry cells come as "MM/YYYY" or "MM/YY".
	expiry := takeFirst(rec, sniffCardExpColumns, consumed)
	if parts := strings.SplitN(expiry, "/", 2); len(parts) == 2 {
		c.Card.ExpMonth = strings.TrimSpace(parts[0])
		c.Card.ExpYear = strings.TrimSpace(parts[1])
	} else if expiry != "" {
		imp.processKvp(c, "expiry", expiry, models.FieldText)
	}
}

func (imp *SniffCSVImporter) fillIdentity(c *view.Cipher, rec csvRecord, consumed map[string]bool) {
	c.Type = models.Identity
	c.Login = nil
	c.Identity = &view.Identity{
		FirstName: takeFirst(rec, sniffFirstNameColumns, consumed),
		LastName:  takeFirst(rec, sniffLastNameColumns, consumed),
		Email:     takeFirst(rec, []string{"email"}, consumed),
		Phone:     takeFirst(rec, []string{"phone"}, consumed),
		Company:   takeFirst(rec, []string{"company"}, consumed),
	}
}

// firstValue returns the first non-empty cell among the column aliases.
func firstValue(rec csvRecord, columns []string) string {
	for _, column := range columns {
		if v := rec.value(column); v != "" {
			return v
		}
	}
	return ""
}

// takeFirst is firstValue plus marking every alias consumed so the columns
// do not also surface as custom fields.
func takeFirst(rec csvRecord, columns []string, consumed map[string]bool) string {
	value := firstValue(rec, columns)
	for _, column := range columns {
		consumed[column] = true
	}
	return value
}
