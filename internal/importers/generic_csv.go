package importers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// knownGenericColumns lists the first-class columns of the native CSV
// dialect. Anything else folds into custom fields.
var knownGenericColumns = map[string]bool{
	"folder":         true,
	"collections":    true,
	"favorite":       true,
	"type":           true,
	"name":           true,
	"notes":          true,
	"fields":         true,
	"reprompt":       true,
	"login_uri":      true,
	"login_username": true,
	"login_password": true,
	"login_totp":     true,
}

// GenericCSVImporter parses the system's own CSV dialect, the inverse of
// the CSV export.
type GenericCSVImporter struct {
	baseImporter
}

// NewGenericCSVImporter constructs the importer. With organization true the
// grouping column is "collections" instead of "folder".
func NewGenericCSVImporter(organization bool) *GenericCSVImporter {
	return &GenericCSVImporter{baseImporter{organization: organization}}
}

func (imp *GenericCSVImporter) Parse(_ context.Context, data string) (*ImportResult, error) {
	result := &ImportResult{}

	records, err := parseCSVRecords(data, true)
	if err != nil {
		return result, err
	}

	for _, rec := range records {
		if imp.organization {
			for _, name := range strings.Split(rec.value("collections"), "\n") {
				imp.processFolder(result, name)
			}
		} else {
			imp.processFolder(result, rec.value("folder"))
		}

		c := imp.initLoginCipher()
		c.Name = rec.value("name")
		c.Favorite = parseBool(rec.value("favorite"))
		if reprompt, convErr := strconv.Atoi(strings.TrimSpace(rec.value("reprompt"))); convErr == nil {
			c.Reprompt = reprompt
		}

		notes := rec.value("notes")
		typeName := strings.TrimSpace(rec.value("type"))
		t, known := models.CipherTypeFromString(typeName)

		switch {
		case !known:
			// Unknown type values degrade to a login row; the value
			// itself survives as a custom field.
			c.Notes = notes
			imp.fillLogin(c, rec)
			imp.processKvp(c, "type", typeName, models.FieldText)

		case t == models.Login:
			c.Notes = notes
			imp.fillLogin(c, rec)

		case t == models.Card:
			c.Type = models.Card
			c.Login = nil
			imp.expandCardNotes(c, notes)

		case t == models.Identity:
			c.Type = models.Identity
			c.Login = nil
			imp.expandIdentityNotes(c, notes)

		default: // SecureNote and the secure-note shaped types
			c.Type = t
			c.Login = nil
			c.SecureNote = &view.SecureNote{}
			c.Notes = notes
		}

		// The fields cell holds newline-joined "name: value" segments.
		// A segment without a delimiter is skipped, not fatal to the row.
		for _, segment := range strings.Split(rec.value("fields"), "\n") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			parts := strings.SplitN(segment, ":", 2)
			if len(parts) != 2 {
				continue
			}
			c.Fields = append(c.Fields, view.Field{
				Name:  strings.TrimSpace(parts[0]),
				Value: strings.TrimSpace(parts[1]),
				Type:  models.FieldText,
			})
		}

		for _, column := range rec.columns {
			if knownGenericColumns[column] {
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

func (imp *GenericCSVImporter) fillLogin(c *view.Cipher, rec csvRecord) {
	c.Login.Username = rec.value("login_username")
	c.Login.Password = rec.value("login_password")
	c.Login.TOTP = rec.value("login_totp")
	c.Login.URIs = imp.makeURIArray(rec.value("login_uri"))
}

// expandCardNotes re-expands the JSON object the CSV export stuffed into
// the notes cell. Keys map through an explicit allow-list; anything else
// becomes a custom field instead of silently setting a property. A notes
// cell that is not JSON stays plain notes.
func (imp *GenericCSVImporter) expandCardNotes(c *view.Cipher, notes string) {
	c.Card = &view.Card{}

	var payload map[string]string
	if err := json.Unmarshal([]byte(notes), &payload); err != nil {
		c.Notes = notes
		return
	}

	for key, value := range payload {
		switch key {
		case "cardholderName":
			c.Card.CardholderName = value
		case "brand":
			c.Card.Brand = value
		case "number":
			c.Card.Number = value
		case "expMonth":
			c.Card.ExpMonth = value
		case "expYear":
			c.Card.ExpYear = value
		case "code":
			c.Card.Code = value
		case "notes":
			c.Notes = value
		default:
			imp.processKvp(c, key, value, models.FieldText)
		}
	}

	if c.Card.Brand == "" {
		c.Card.Brand = inferCardBrand(c.Card.Number)
	}
}

func (imp *GenericCSVImporter) expandIdentityNotes(c *view.Cipher, notes string) {
	c.Identity = &view.Identity{}

	var payload map[string]string
	if err := json.Unmarshal([]byte(notes), &payload); err != nil {
		c.Notes = notes
		return
	}

	for key, value := range payload {
		switch key {
		case "title":
			c.Identity.Title = value
		case "firstName":
			c.Identity.FirstName = value
		case "middleName":
			c.Identity.MiddleName = value
		case "lastName":
			c.Identity.LastName = value
		case "address1":
			c.Identity.Address1 = value
		case "address2":
			c.Identity.Address2 = value
		case "address3":
			c.Identity.Address3 = value
		case "city":
			c.Identity.City = value
		case "state":
			c.Identity.State = value
		case "postalCode":
			c.Identity.PostalCode = value
		case "country":
			c.Identity.Country = value
		case "company":
			c.Identity.Company = value
		case "email":
			c.Identity.Email = value
		case "phone":
			c.Identity.Phone = value
		case "ssn":
			c.Identity.SSN = value
		case "username":
			c.Identity.Username = value
		case "passportNumber":
			c.Identity.PassportNumber = value
		case "licenseNumber":
			c.Identity.LicenseNumber = value
		case "notes":
			c.Notes = value
		default:
			imp.processKvp(c, key, value, models.FieldText)
		}
	}
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes"
}
