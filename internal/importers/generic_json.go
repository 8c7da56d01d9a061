package importers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// jsonDocument is the plaintext JSON export shape.
type jsonDocument struct {
	Encrypted   bool             `json:"encrypted"`
	Folders     []jsonFolder     `json:"folders"`
	Collections []jsonCollection `json:"collections"`
	Items       []jsonItem       `json:"items"`
}

type jsonFolder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type jsonCollection struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	ExternalID     string `json:"externalId"`
}

type jsonItem struct {
	ID             string            `json:"id"`
	OrganizationID *string           `json:"organizationId"`
	FolderID       *string           `json:"folderId"`
	CollectionIDs  []string          `json:"collectionIds"`
	Type           models.CipherType `json:"type"`
	Name           string            `json:"name"`
	Notes          string            `json:"notes"`
	Favorite       bool              `json:"favorite"`
	Reprompt       int               `json:"reprompt"`
	Fields         []jsonField       `json:"fields"`
	Login          *jsonLogin        `json:"login"`
	Card           *jsonCard         `json:"card"`
	Identity       *jsonIdentity     `json:"identity"`
	SecureNote     *jsonSecureNote   `json:"secureNote"`
}

type jsonField struct {
	Name  string           `json:"name"`
	Value string           `json:"value"`
	Type  models.FieldType `json:"type"`
}

type jsonLogin struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	TOTP     string         `json:"totp"`
	URIs     []jsonLoginURI `json:"uris"`
}

type jsonLoginURI struct {
	URI   string               `json:"uri"`
	Match *models.URIMatchType `json:"match"`
}

type jsonCard struct {
	CardholderName string `json:"cardholderName"`
	Brand          string `json:"brand"`
	Number         string `json:"number"`
	ExpMonth       string `json:"expMonth"`
	ExpYear        string `json:"expYear"`
	Code           string `json:"code"`
}

type jsonIdentity struct {
	Title          string `json:"title"`
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName"`
	LastName       string `json:"lastName"`
	Address1       string `json:"address1"`
	Address2       string `json:"address2"`
	Address3       string `json:"address3"`
	City           string `json:"city"`
	State          string `json:"state"`
	PostalCode     string `json:"postalCode"`
	Country        string `json:"country"`
	Company        string `json:"company"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	SSN            string `json:"ssn"`
	Username       string `json:"username"`
	PassportNumber string `json:"passportNumber"`
	LicenseNumber  string `json:"licenseNumber"`
}

type jsonSecureNote struct {
	Type models.SecureNoteType `json:"type"`
}

// GenericJSONImporter parses the system's own plaintext JSON export.
type GenericJSONImporter struct {
	baseImporter
}

// NewGenericJSONImporter constructs the importer.
func NewGenericJSONImporter(organization bool) *GenericJSONImporter {
	return &GenericJSONImporter{baseImporter{organization: organization}}
}

func (imp *GenericJSONImporter) Parse(_ context.Context, data string) (*ImportResult, error) {
	result := &ImportResult{}

	var doc jsonDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return result, fmt.Errorf("parse json document: %w", err)
	}
	if doc.Encrypted {
		return result, ErrEncryptedInput
	}

	folderIndex := make(map[string]int, len(doc.Folders))
	for i, f := range doc.Folders {
		result.Folders = append(result.Folders, &view.Folder{Name: f.Name})
		folderIndex[f.ID] = i
	}
	collectionIndex := make(map[string]int, len(doc.Collections))
	for i, col := range doc.Collections {
		result.Collections = append(result.Collections, &view.Collection{
			OrganizationID: col.OrganizationID,
			Name:           col.Name,
			ExternalID:     col.ExternalID,
		})
		collectionIndex[col.ID] = i
	}

	for _, item := range doc.Items {
		if item.Type == models.MasterPassword {
			continue
		}

		cipherIndex := len(result.Ciphers)
		if item.FolderID != nil {
			if i, ok := folderIndex[*item.FolderID]; ok {
				result.FolderRelationships = append(result.FolderRelationships, Relationship{cipherIndex, i})
			}
		}
		for _, id := range item.CollectionIDs {
			if i, ok := collectionIndex[id]; ok {
				result.CollectionRelationships = append(result.CollectionRelationships, Relationship{cipherIndex, i})
			}
		}

		c := jsonItemToView(item)
		imp.cleanupCipher(c)
		result.Ciphers = append(result.Ciphers, c)
	}

	result.Success = true
	return result, nil
}

func jsonItemToView(item jsonItem) *view.Cipher {
	c := &view.Cipher{
		Type:     item.Type,
		Name:     item.Name,
		Notes:    item.Notes,
		Favorite: item.Favorite,
		Reprompt: item.Reprompt,
	}
	for _, f := range item.Fields {
		c.Fields = append(c.Fields, view.Field{Name: f.Name, Value: f.Value, Type: f.Type})
	}

	// The payload decides the shape; the declared type follows it, so a
	// mislabelled item still encrypts instead of failing the shape check.
	switch {
	case item.Login != nil:
		c.Type = models.Login
		login := &view.Login{
			Username: item.Login.Username,
			Password: item.Login.Password,
			TOTP:     item.Login.TOTP,
		}
		for _, u := range item.Login.URIs {
			login.URIs = append(login.URIs, view.LoginURI{URI: u.URI, Match: u.Match})
		}
		c.Login = login
	case item.Card != nil:
		c.Type = models.Card
		c.Card = &view.Card{
			CardholderName: item.Card.CardholderName,
			Brand:          item.Card.Brand,
			Number:         item.Card.Number,
			ExpMonth:       item.Card.ExpMonth,
			ExpYear:        item.Card.ExpYear,
			Code:           item.Card.Code,
		}
		if c.Card.Brand == "" {
			c.Card.Brand = inferCardBrand(c.Card.Number)
		}
	case item.Identity != nil:
		c.Type = models.Identity
		c.Identity = &view.Identity{
			Title:          item.Identity.Title,
			FirstName:      item.Identity.FirstName,
			MiddleName:     item.Identity.MiddleName,
			LastName:       item.Identity.LastName,
			Address1:       item.Identity.Address1,
			Address2:       item.Identity.Address2,
			Address3:       item.Identity.Address3,
			City:           item.Identity.City,
			State:          item.Identity.State,
			PostalCode:     item.Identity.PostalCode,
			Country:        item.Identity.Country,
			Company:        item.Identity.Company,
			Email:          item.Identity.Email,
			Phone:          item.Identity.Phone,
			SSN:            item.Identity.SSN,
			Username:       item.Identity.Username,
			PassportNumber: item.Identity.PassportNumber,
			LicenseNumber:  item.Identity.LicenseNumber,
		}
	case item.SecureNote != nil:
		if !item.Type.IsSecureNoteShaped() {
			c.Type = models.SecureNote
		}
		c.SecureNote = &view.SecureNote{Type: item.SecureNote.Type}
	default:
		// No sub-shape in the source at all; normalize by type so the
		// cipher still encrypts.
		if item.Type.IsSecureNoteShaped() {
			c.SecureNote = &view.SecureNote{}
		} else {
			c.Login = &view.Login{}
			c.Type = models.Login
		}
	}
	return c
}
