package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vaultkit/go-vault-client/internal/adapter"
	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// Personal and organization CSV column sets. Organization exports scope
// items by collection, so the folder column is replaced.
var (
	personalCSVHeader = []string{"folder", "favorite", "type", "name", "notes", "fields", "reprompt", "login_uri", "login_username", "login_password", "login_totp"}
	orgCSVHeader      = []string{"collections", "favorite", "type", "name", "notes", "fields", "reprompt", "login_uri", "login_username", "login_password", "login_totp"}
)

type exportService struct {
	ciphers     CipherService
	folders     FolderService
	collections CollectionService
	crypto      crypto.CryptoService
	adapter     adapter.ServerAdapter
	logger      *logger.Logger
}

// NewExportService constructs the [ExportService]. Organization exports go
// through the server adapter because organization records are not kept in
// the local store.
func NewExportService(ciphers CipherService, folders FolderService, collections CollectionService, cs crypto.CryptoService, srv adapter.ServerAdapter, log *logger.Logger) ExportService {
	return &exportService{ciphers: ciphers, folders: folders, collections: collections, crypto: cs, adapter: srv, logger: log}
}

// FileName builds the conventional export file name for the given prefix
// and extension, e.g. "vault_export_20260829150405.csv".
func FileName(prefix, extension string) string {
	return fmt.Sprintf("%s_export_%s.%s", prefix, time.Now().Format("20060102150405"), extension)
}

func (s *exportService) GetExport(ctx context.Context, format ExportFormat) (string, error) {
	switch format {
	case ExportFormatCSV, ExportFormatJSON:
		views, err := s.ciphers.GetAllDecrypted(ctx)
		if err != nil {
			return "", err
		}
		folders, err := s.folders.GetAllDecrypted(ctx)
		if err != nil {
			return "", err
		}
		if format == ExportFormatCSV {
			return buildPersonalCSV(views, folders)
		}
		return buildPersonalJSON(views, folders)

	case ExportFormatEncryptedJSON:
		return s.buildPersonalEncryptedJSON(ctx)

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (s *exportService) GetOrganizationExport(ctx context.Context, organizationID string, format ExportFormat) (string, error) {
	switch format {
	case ExportFormatCSV, ExportFormatJSON, ExportFormatEncryptedJSON:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	collectionData, err := s.adapter.GetCollections(ctx, organizationID)
	if err != nil {
		return "", fmt.Errorf("fetch organization collections: %w", err)
	}
	cipherData, err := s.adapter.GetOrganizationCiphers(ctx, organizationID)
	if err != nil {
		return "", fmt.Errorf("fetch organization ciphers: %w", err)
	}

	if format == ExportFormatEncryptedJSON {
		return s.buildOrgEncryptedJSON(ctx, organizationID, collectionData, cipherData)
	}

	collections, views, err := s.decryptOrgRecords(ctx, collectionData, cipherData)
	if err != nil {
		return "", err
	}
	if format == ExportFormatCSV {
		return buildOrgCSV(views, collections)
	}
	return buildOrgJSON(views, collections)
}

// decryptOrgRecords decrypts fetched organization records concurrently.
// Both lists use pre-sized slots so output order matches the server order.
func (s *exportService) decryptOrgRecords(ctx context.Context, collectionData []models.CollectionData, cipherData []models.CipherData) ([]*view.Collection, []*view.Cipher, error) {
	collections := make([]*view.Collection, len(collectionData))
	views := make([]*view.Cipher, len(cipherData))

	g, gctx := errgroup.WithContext(ctx)
	for i, data := range collectionData {
		i, data := i, data
		g.Go(func() error {
			c, err := domain.NewCollection(data)
			if err != nil {
				return err
			}
			v, err := c.Decrypt(gctx, s.crypto, nil)
			if err != nil {
				return err
			}
			collections[i] = v
			return nil
		})
	}
	for i, data := range cipherData {
		i, data := i, data
		g.Go(func() error {
			c, err := domain.NewCipher(data)
			if err != nil {
				return err
			}
			v, err := c.Decrypt(gctx, s.crypto, nil)
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Err(err).Str("func", "exportService.decryptOrgRecords").Msg("failed to decrypt organization records")
		return nil, nil, err
	}
	return collections, views, nil
}

// exportable reports whether a view belongs in an export. Trashed items and
// the master-password pseudo item never leave the vault.
func exportable(v *view.Cipher) bool {
	return !v.IsDeleted() && v.Type != models.MasterPassword
}

func buildPersonalCSV(views []*view.Cipher, folders []*view.Folder) (string, error) {
	folderNames := make(map[string]string, len(folders))
	for _, f := range folders {
		folderNames[f.ID] = f.Name
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(personalCSVHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, v := range views {
		if !exportable(v) {
			continue
		}
		row := append([]string{folderNames[v.FolderID]}, commonCSVColumns(v)...)
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func buildOrgCSV(views []*view.Cipher, collections []*view.Collection) (string, error) {
	collectionNames := make(map[string]string, len(collections))
	for _, c := range collections {
		collectionNames[c.ID] = c.Name
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(orgCSVHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, v := range views {
		if !exportable(v) {
			continue
		}
		names := make([]string, 0, len(v.CollectionIDs))
		for _, id := range v.CollectionIDs {
			if name, ok := collectionNames[id]; ok {
				names = append(names, name)
			}
		}
		row := append([]string{strings.Join(names, "\n")}, commonCSVColumns(v)...)
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

// commonCSVColumns renders every column except the leading folder or
// collections cell.
func commonCSVColumns(v *view.Cipher) []string {
	favorite := ""
	if v.Favorite {
		favorite = "1"
	}

	fields := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		fields = append(fields, f.Name+": "+f.Value)
	}

	var uri, username, password, totp string
	if v.Login != nil {
		uris := make([]string, 0, len(v.Login.URIs))
		for _, u := range v.Login.URIs {
			uris = append(uris, u.URI)
		}
		uri = strings.Join(uris, "\n")
		username = v.Login.Username
		password = v.Login.Password
		totp = v.Login.TOTP
	}

	return []string{
		favorite,
		v.Type.String(),
		v.Name,
		csvNotes(v),
		strings.Join(fields, "\n"),
		strconv.Itoa(v.Reprompt),
		uri,
		username,
		password,
		totp,
	}
}

// csvNotes renders the notes cell. Card and identity items have no columns
// of their own in the flat CSV shape, so their sub-shape rides along as a
// JSON object in notes and is re-expanded on import.
func csvNotes(v *view.Cipher) string {
	var stuffed map[string]string

	switch {
	case v.Card != nil:
		stuffed = map[string]string{
			"cardholderName": v.Card.CardholderName,
			"brand":          v.Card.Brand,
			"number":         v.Card.Number,
			"expMonth":       v.Card.ExpMonth,
			"expYear":        v.Card.ExpYear,
			"code":           v.Card.Code,
		}
	case v.Identity != nil:
		stuffed = map[string]string{
			"title":          v.Identity.Title,
			"firstName":      v.Identity.FirstName,
			"middleName":     v.Identity.MiddleName,
			"lastName":       v.Identity.LastName,
			"address1":       v.Identity.Address1,
			"address2":       v.Identity.Address2,
			"address3":       v.Identity.Address3,
			"city":           v.Identity.City,
			"state":          v.Identity.State,
			"postalCode":     v.Identity.PostalCode,
			"country":        v.Identity.Country,
			"company":        v.Identity.Company,
			"email":          v.Identity.Email,
			"phone":          v.Identity.Phone,
			"ssn":            v.Identity.SSN,
			"username":       v.Identity.Username,
			"passportNumber": v.Identity.PassportNumber,
			"licenseNumber":  v.Identity.LicenseNumber,
		}
	default:
		return v.Notes
	}

	for key, value := range stuffed {
		if value == "" {
			delete(stuffed, key)
		}
	}
	if v.Notes != "" {
		stuffed["notes"] = v.Notes
	}

	raw, err := json.Marshal(stuffed)
	if err != nil {
		return v.Notes
	}
	return string(raw)
}

func buildPersonalJSON(views []*view.Cipher, folders []*view.Folder) (string, error) {
	doc := exportDocument{
		Encrypted: false,
		Folders:   make([]exportFolder, 0, len(folders)),
		Items:     make([]exportItem, 0, len(views)),
	}
	for _, f := range folders {
		doc.Folders = append(doc.Folders, exportFolder{ID: f.ID, Name: f.Name})
	}
	for _, v := range views {
		if !exportable(v) {
			continue
		}
		item := viewToExportItem(v)
		// Personal exports are re-importable into a personal vault, so
		// the organization linkage is dropped.
		item.OrganizationID = nil
		item.CollectionIDs = nil
		doc.Items = append(doc.Items, item)
	}
	return marshalExportDocument(doc)
}

func buildOrgJSON(views []*view.Cipher, collections []*view.Collection) (string, error) {
	doc := exportDocument{
		Encrypted:   false,
		Collections: make([]exportCollection, 0, len(collections)),
		Items:       make([]exportItem, 0, len(views)),
	}
	for _, c := range collections {
		doc.Collections = append(doc.Collections, exportCollection{
			ID:             c.ID,
			OrganizationID: c.OrganizationID,
			Name:           c.Name,
			ExternalID:     c.ExternalID,
		})
	}
	for _, v := range views {
		if !exportable(v) {
			continue
		}
		doc.Items = append(doc.Items, viewToExportItem(v))
	}
	return marshalExportDocument(doc)
}

func (s *exportService) buildPersonalEncryptedJSON(ctx context.Context) (string, error) {
	marker, err := s.crypto.EncryptString(ctx, uuid.NewString(), nil)
	if err != nil {
		return "", fmt.Errorf("encrypt validation marker: %w", err)
	}

	ciphers, err := s.ciphers.GetAll(ctx)
	if err != nil {
		return "", err
	}
	folders, err := s.folders.GetAll(ctx)
	if err != nil {
		return "", err
	}

	doc := encryptedExportDocument{
		Encrypted:        true,
		EncKeyValidation: marker.String(),
		Folders:          make([]models.FolderData, 0, len(folders)),
		Items:            make([]models.CipherData, 0, len(ciphers)),
	}
	for _, f := range folders {
		doc.Folders = append(doc.Folders, f.ToData())
	}
	for _, c := range ciphers {
		data := c.ToData()
		// Organization items are encrypted under keys the import target
		// may not hold, so an encrypted personal export skips them.
		if data.OrganizationID != "" || data.DeletedDate != "" || data.Type == models.MasterPassword {
			continue
		}
		doc.Items = append(doc.Items, data)
	}
	return marshalEncryptedExportDocument(doc)
}

func (s *exportService) buildOrgEncryptedJSON(ctx context.Context, organizationID string, collections []models.CollectionData, ciphers []models.CipherData) (string, error) {
	orgKey, err := s.crypto.GetOrgKey(organizationID)
	if err != nil {
		return "", err
	}
	marker, err := s.crypto.EncryptString(ctx, uuid.NewString(), orgKey)
	if err != nil {
		return "", fmt.Errorf("encrypt validation marker: %w", err)
	}

	doc := encryptedExportDocument{
		Encrypted:        true,
		EncKeyValidation: marker.String(),
		Collections:      collections,
		Items:            make([]models.CipherData, 0, len(ciphers)),
	}
	for _, data := range ciphers {
		if data.DeletedDate != "" || data.Type == models.MasterPassword {
			continue
		}
		doc.Items = append(doc.Items, data)
	}
	return marshalEncryptedExportDocument(doc)
}

func viewToExportItem(v *view.Cipher) exportItem {
	item := exportItem{
		ID:            v.ID,
		CollectionIDs: v.CollectionIDs,
		Type:          v.Type,
		Name:          v.Name,
		Notes:         v.Notes,
		Favorite:      v.Favorite,
		Reprompt:      v.Reprompt,
	}
	if v.OrganizationID != "" {
		item.OrganizationID = &v.OrganizationID
	}
	if v.FolderID != "" {
		item.FolderID = &v.FolderID
	}
	for _, f := range v.Fields {
		item.Fields = append(item.Fields, exportField{Name: f.Name, Value: f.Value, Type: f.Type})
	}

	switch {
	case v.Login != nil:
		login := &exportLogin{
			Username: v.Login.Username,
			Password: v.Login.Password,
			TOTP:     v.Login.TOTP,
		}
		for _, u := range v.Login.URIs {
			login.URIs = append(login.URIs, exportLoginURI{URI: u.URI, Match: u.Match})
		}
		item.Login = login
	case v.Card != nil:
		item.Card = &exportCard{
			CardholderName: v.Card.CardholderName,
			Brand:          v.Card.Brand,
			Number:         v.Card.Number,
			ExpMonth:       v.Card.ExpMonth,
			ExpYear:        v.Card.ExpYear,
			Code:           v.Card.Code,
		}
	case v.Identity != nil:
		item.Identity = &exportIdentity{
			Title:          v.Identity.Title,
			FirstName:      v.Identity.FirstName,
			MiddleName:     v.Identity.MiddleName,
			LastName:       v.Identity.LastName,
			Address1:       v.Identity.Address1,
			Address2:       v.Identity.Address2,
			Address3:       v.Identity.Address3,
			City:           v.Identity.City,
			State:          v.Identity.State,
			PostalCode:     v.Identity.PostalCode,
			Country:        v.Identity.Country,
			Company:        v.Identity.Company,
			Email:          v.Identity.Email,
			Phone:          v.Identity.Phone,
			SSN:            v.Identity.SSN,
			Username:       v.Identity.Username,
			PassportNumber: v.Identity.PassportNumber,
			LicenseNumber:  v.Identity.LicenseNumber,
		}
	case v.SecureNote != nil:
		item.SecureNote = &exportSecureNote{Type: v.SecureNote.Type}
	}
	return item
}

func marshalExportDocument(doc exportDocument) (string, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export document: %w", err)
	}
	return string(raw), nil
}

func marshalEncryptedExportDocument(doc encryptedExportDocument) (string, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export document: %w", err)
	}
	return string(raw), nil
}
