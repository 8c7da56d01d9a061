package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// Cipher is the in-memory encrypted representation of one vault item.
// Ciphertext-bearing fields are wrapped in [crypto.EncryptedString];
// identifiers, dates and flags pass through unwrapped. Exactly one of the
// type-specific sub-shape pointers is non-nil, selected by Type.
type Cipher struct {
	ID             string
	OrganizationID string
	FolderID       string
	Type           models.CipherType
	Name           *crypto.EncryptedString
	Notes          *crypto.EncryptedString
	Favorite       bool
	Reprompt       int
	Edit           bool
	ViewPassword   bool
	CollectionIDs  []string
	RevisionDate   *time.Time
	CreationDate   *time.Time
	DeletedDate    *time.Time

	Login      *Login
	Card       *Card
	Identity   *Identity
	SecureNote *SecureNote

	Fields          []Field
	Attachments     []Attachment
	PasswordHistory []PasswordHistory
}

// Login is the encrypted login sub-shape.
type Login struct {
	Username             *crypto.EncryptedString
	Password             *crypto.EncryptedString
	TOTP                 *crypto.EncryptedString
	URIs                 []LoginURI
	PasswordRevisionDate *time.Time
}

// LoginURI is one encrypted URI with its plaintext matching strategy.
type LoginURI struct {
	URI   *crypto.EncryptedString
	Match *models.URIMatchType
}

// Card is the encrypted payment-card sub-shape.
type Card struct {
	CardholderName *crypto.EncryptedString
	Brand          *crypto.EncryptedString
	Number         *crypto.EncryptedString
	ExpMonth       *crypto.EncryptedString
	ExpYear        *crypto.EncryptedString
	Code           *crypto.EncryptedString
}

// Identity is the encrypted identity sub-shape.
type Identity struct {
	Title          *crypto.EncryptedString
	FirstName      *crypto.EncryptedString
	MiddleName     *crypto.EncryptedString
	LastName       *crypto.EncryptedString
	Address1       *crypto.EncryptedString
	Address2       *crypto.EncryptedString
	Address3       *crypto.EncryptedString
	City           *crypto.EncryptedString
	State          *crypto.EncryptedString
	PostalCode     *crypto.EncryptedString
	Country        *crypto.EncryptedString
	Company        *crypto.EncryptedString
	Email          *crypto.EncryptedString
	Phone          *crypto.EncryptedString
	SSN            *crypto.EncryptedString
	Username       *crypto.EncryptedString
	PassportNumber *crypto.EncryptedString
	LicenseNumber  *crypto.EncryptedString
}

// SecureNote is the secure-note sub-shape. It also serves every
// secure-note-shaped type (TOTP, crypto wallet, driver license, ...): their
// structured payload is plaintext JSON inside the encrypted notes field.
type SecureNote struct {
	Type models.SecureNoteType
}

// Field is one encrypted custom field. Name and value are independently
// encrypted; the display type stays plaintext because it only affects
// masking, never encryption.
type Field struct {
	Name  *crypto.EncryptedString
	Value *crypto.EncryptedString
	Type  models.FieldType
}

// Attachment is the encrypted metadata of one attachment.
type Attachment struct {
	ID       string
	URL      string
	FileName *crypto.EncryptedString
	Key      *crypto.EncryptedString
	Size     string
	SizeName string
}

// PasswordHistory is one retired encrypted password.
type PasswordHistory struct {
	Password     *crypto.EncryptedString
	LastUsedDate *time.Time
}

// NewCipher builds the Domain form from the wire/storage form. An
// unrecognized type discriminant or a malformed ciphertext/date field is a
// fatal decode error for the whole entity.
func NewCipher(data models.CipherData) (*Cipher, error) {
	if data.Type < models.MasterPassword || data.Type > models.Database {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCipherType, int(data.Type))
	}

	c := &Cipher{
		ID:             data.ID,
		OrganizationID: data.OrganizationID,
		FolderID:       data.FolderID,
		Type:           data.Type,
		Favorite:       data.Favorite,
		Reprompt:       data.Reprompt,
		Edit:           data.Edit,
		ViewPassword:   data.ViewPassword,
		CollectionIDs:  data.CollectionIDs,
	}

	var err error
	if c.Name, err = parseEnc("name", data.Name); err != nil {
		return nil, err
	}
	if c.Notes, err = parseEnc("notes", data.Notes); err != nil {
		return nil, err
	}
	if c.RevisionDate, err = parseDate("revisionDate", data.RevisionDate); err != nil {
		return nil, err
	}
	if c.CreationDate, err = parseDate("creationDate", data.CreationDate); err != nil {
		return nil, err
	}
	if c.DeletedDate, err = parseDate("deletedDate", data.DeletedDate); err != nil {
		return nil, err
	}

	if err = c.decodeShape(data); err != nil {
		return nil, err
	}

	if len(data.Fields) > 0 {
		c.Fields = make([]Field, len(data.Fields))
		for i, f := range data.Fields {
			df := Field{Type: f.Type}
			if df.Name, err = parseEnc("field.name", f.Name); err != nil {
				return nil, err
			}
			if df.Value, err = parseEnc("field.value", f.Value); err != nil {
				return nil, err
			}
			c.Fields[i] = df
		}
	}

	if len(data.Attachments) > 0 {
		c.Attachments = make([]Attachment, len(data.Attachments))
		for i, a := range data.Attachments {
			da := Attachment{ID: a.ID, URL: a.URL, Size: a.Size, SizeName: a.SizeName}
			if da.FileName, err = parseEnc("attachment.fileName", a.FileName); err != nil {
				return nil, err
			}
			if da.Key, err = parseEnc("attachment.key", a.Key); err != nil {
				return nil, err
			}
			c.Attachments[i] = da
		}
	}

	if len(data.PasswordHistory) > 0 {
		c.PasswordHistory = make([]PasswordHistory, len(data.PasswordHistory))
		for i, p := range data.PasswordHistory {
			dp := PasswordHistory{}
			if dp.Password, err = parseEnc("passwordHistory.password", p.Password); err != nil {
				return nil, err
			}
			if dp.LastUsedDate, err = parseDate("passwordHistory.lastUsedDate", p.LastUsedDate); err != nil {
				return nil, err
			}
			c.PasswordHistory[i] = dp
		}
	}

	return c, nil
}

// decodeShape populates the single active sub-shape from data. A missing
// sub-object degrades to an empty shape; only the discriminant is trusted.
func (c *Cipher) decodeShape(data models.CipherData) error {
	switch {
	case c.Type == models.Login || c.Type == models.MasterPassword:
		login := &Login{}
		if d := data.Login; d != nil {
			var err error
			if login.Username, err = parseEnc("login.username", d.Username); err != nil {
				return err
			}
			if login.Password, err = parseEnc("login.password", d.Password); err != nil {
				return err
			}
			if login.TOTP, err = parseEnc("login.totp", d.TOTP); err != nil {
				return err
			}
			if login.PasswordRevisionDate, err = parseDate("login.passwordRevisionDate", d.PasswordRevisionDate); err != nil {
				return err
			}
			for _, u := range d.URIs {
				es, err := parseEnc("login.uri", u.URI)
				if err != nil {
					return err
				}
				login.URIs = append(login.URIs, LoginURI{URI: es, Match: u.Match})
			}
		}
		c.Login = login

	case c.Type == models.Card:
		card := &Card{}
		if d := data.Card; d != nil {
			for _, m := range []struct {
				name string
				src  string
				dst  **crypto.EncryptedString
			}{
				{"card.cardholderName", d.CardholderName, &card.CardholderName},
				{"card.brand", d.Brand, &card.Brand},
				{"card.number", d.Number, &card.Number},
				{"card.expMonth", d.ExpMonth, &card.ExpMonth},
				{"card.expYear", d.ExpYear, &card.ExpYear},
				{"card.code", d.Code, &card.Code},
			} {
				es, err := parseEnc(m.name, m.src)
				if err != nil {
					return err
				}
				*m.dst = es
			}
		}
		c.Card = card

	case c.Type == models.Identity:
		ident := &Identity{}
		if d := data.Identity; d != nil {
			for _, m := range []struct {
				name string
				src  string
				dst  **crypto.EncryptedString
			}{
				{"identity.title", d.Title, &ident.Title},
				{"identity.firstName", d.FirstName, &ident.FirstName},
				{"identity.middleName", d.MiddleName, &ident.MiddleName},
				{"identity.lastName", d.LastName, &ident.LastName},
				{"identity.address1", d.Address1, &ident.Address1},
				{"identity.address2", d.Address2, &ident.Address2},
				{"identity.address3", d.Address3, &ident.Address3},
				{"identity.city", d.City, &ident.City},
				{"identity.state", d.State, &ident.State},
				{"identity.postalCode", d.PostalCode, &ident.PostalCode},
				{"identity.country", d.Country, &ident.Country},
				{"identity.company", d.Company, &ident.Company},
				{"identity.email", d.Email, &ident.Email},
				{"identity.phone", d.Phone, &ident.Phone},
				{"identity.ssn", d.SSN, &ident.SSN},
				{"identity.username", d.Username, &ident.Username},
				{"identity.passportNumber", d.PassportNumber, &ident.PassportNumber},
				{"identity.licenseNumber", d.LicenseNumber, &ident.LicenseNumber},
			} {
				es, err := parseEnc(m.name, m.src)
				if err != nil {
					return err
				}
				*m.dst = es
			}
		}
		c.Identity = ident

	case c.Type.IsSecureNoteShaped():
		note := &SecureNote{Type: models.SecureNoteGeneric}
		if d := data.SecureNote; d != nil {
			note.Type = d.Type
		}
		c.SecureNote = note

	default:
		return fmt.Errorf("%w: %d", ErrUnknownCipherType, int(c.Type))
	}

	return nil
}

// ToData is the inverse of [NewCipher]: it writes the serialized ciphertext
// form of every Domain field back to the flat wire shape. The two
// directions are lossless for the declared field set.
func (c *Cipher) ToData() models.CipherData {
	data := models.CipherData{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		FolderID:       c.FolderID,
		Type:           c.Type,
		Name:           encString(c.Name),
		Notes:          encString(c.Notes),
		Favorite:       c.Favorite,
		Reprompt:       c.Reprompt,
		Edit:           c.Edit,
		ViewPassword:   c.ViewPassword,
		CollectionIDs:  c.CollectionIDs,
		RevisionDate:   dateString(c.RevisionDate),
		CreationDate:   dateString(c.CreationDate),
		DeletedDate:    dateString(c.DeletedDate),
	}

	switch {
	case c.Login != nil:
		d := &models.LoginData{
			Username:             encString(c.Login.Username),
			Password:             encString(c.Login.Password),
			TOTP:                 encString(c.Login.TOTP),
			PasswordRevisionDate: dateString(c.Login.PasswordRevisionDate),
		}
		for _, u := range c.Login.URIs {
			d.URIs = append(d.URIs, models.LoginURIData{URI: encString(u.URI), Match: u.Match})
		}
		data.Login = d
	case c.Card != nil:
		data.Card = &models.CardData{
			CardholderName: encString(c.Card.CardholderName),
			Brand:          encString(c.Card.Brand),
			Number:         encString(c.Card.Number),
			ExpMonth:       encString(c.Card.ExpMonth),
			ExpYear:        encString(c.Card.ExpYear),
			Code:           encString(c.Card.Code),
		}
	case c.Identity != nil:
		data.Identity = &models.IdentityData{
			Title:          encString(c.Identity.Title),
			FirstName:      encString(c.Identity.FirstName),
			MiddleName:     encString(c.Identity.MiddleName),
			LastName:       encString(c.Identity.LastName),
			Address1:       encString(c.Identity.Address1),
			Address2:       encString(c.Identity.Address2),
			Address3:       encString(c.Identity.Address3),
			City:           encString(c.Identity.City),
			State:          encString(c.Identity.State),
			PostalCode:     encString(c.Identity.PostalCode),
			Country:        encString(c.Identity.Country),
			Company:        encString(c.Identity.Company),
			Email:          encString(c.Identity.Email),
			Phone:          encString(c.Identity.Phone),
			SSN:            encString(c.Identity.SSN),
			Username:       encString(c.Identity.Username),
			PassportNumber: encString(c.Identity.PassportNumber),
			LicenseNumber:  encString(c.Identity.LicenseNumber),
		}
	case c.SecureNote != nil:
		data.SecureNote = &models.SecureNoteData{Type: c.SecureNote.Type}
	}

	for _, f := range c.Fields {
		data.Fields = append(data.Fields, models.FieldData{
			Name:  encString(f.Name),
			Value: encString(f.Value),
			Type:  f.Type,
		})
	}
	for _, a := range c.Attachments {
		data.Attachments = append(data.Attachments, models.AttachmentData{
			ID:       a.ID,
			URL:      a.URL,
			FileName: encString(a.FileName),
			Key:      encString(a.Key),
			Size:     a.Size,
			SizeName: a.SizeName,
		})
	}
	for _, p := range c.PasswordHistory {
		data.PasswordHistory = append(data.PasswordHistory, models.PasswordHistoryData{
			Password:     encString(p.Password),
			LastUsedDate: dateString(p.LastUsedDate),
		})
	}

	return data
}

// resolveCipherKey picks the decryption key for an item: an explicit caller
// key wins, an organization-owned item resolves its org key, everything
// else falls through to the account key (nil).
func resolveCipherKey(cs crypto.CryptoService, orgID string, key *crypto.SymmetricKey) (*crypto.SymmetricKey, error) {
	if key != nil {
		return key, nil
	}
	if orgID != "" {
		orgKey, err := cs.GetOrgKey(orgID)
		if err != nil {
			return nil, fmt.Errorf("resolve key for organization %s: %w", orgID, err)
		}
		return orgKey, nil
	}
	return nil, nil
}

// Decrypt converts the Domain form to its View under the resolved key. All
// field decryptions are issued concurrently and joined before returning;
// result ordering of fields and attachments matches the Domain ordering
// because destinations are pre-sized slots, not appended as completed.
func (c *Cipher) Decrypt(ctx context.Context, cs crypto.CryptoService, key *crypto.SymmetricKey) (*view.Cipher, error) {
	k, err := resolveCipherKey(cs, c.OrganizationID, key)
	if err != nil {
		return nil, err
	}

	v := &view.Cipher{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		FolderID:       c.FolderID,
		Type:           c.Type,
		Favorite:       c.Favorite,
		Reprompt:       c.Reprompt,
		Edit:           c.Edit,
		ViewPassword:   c.ViewPassword,
		CollectionIDs:  c.CollectionIDs,
		RevisionDate:   c.RevisionDate,
		CreationDate:   c.CreationDate,
		DeletedDate:    c.DeletedDate,
	}

	fields := []encField{
		{"name", c.Name, &v.Name},
		{"notes", c.Notes, &v.Notes},
	}

	switch {
	case c.Login != nil:
		lv := &view.Login{PasswordRevisionDate: c.Login.PasswordRevisionDate}
		fields = append(fields,
			encField{"login.username", c.Login.Username, &lv.Username},
			encField{"login.password", c.Login.Password, &lv.Password},
			encField{"login.totp", c.Login.TOTP, &lv.TOTP},
		)
		if n := len(c.Login.URIs); n > 0 {
			lv.URIs = make([]view.LoginURI, n)
			for i, u := range c.Login.URIs {
				lv.URIs[i].Match = u.Match
				fields = append(fields, encField{"login.uri", u.URI, &lv.URIs[i].URI})
			}
		}
		v.Login = lv

	case c.Card != nil:
		cv := &view.Card{}
		fields = append(fields,
			encField{"card.cardholderName", c.Card.CardholderName, &cv.CardholderName},
			encField{"card.brand", c.Card.Brand, &cv.Brand},
			encField{"card.number", c.Card.Number, &cv.Number},
			encField{"card.expMonth", c.Card.ExpMonth, &cv.ExpMonth},
			encField{"card.expYear", c.Card.ExpYear, &cv.ExpYear},
			encField{"card.code", c.Card.Code, &cv.Code},
		)
		v.Card = cv

	case c.Identity != nil:
		iv := &view.Identity{}
		fields = append(fields,
			encField{"identity.title", c.Identity.Title, &iv.Title},
			encField{"identity.firstName", c.Identity.FirstName, &iv.FirstName},
			encField{"identity.middleName", c.Identity.MiddleName, &iv.MiddleName},
			encField{"identity.lastName", c.Identity.LastName, &iv.LastName},
			encField{"identity.address1", c.Identity.Address1, &iv.Address1},
			encField{"identity.address2", c.Identity.Address2, &iv.Address2},
			encField{"identity.address3", c.Identity.Address3, &iv.Address3},
			encField{"identity.city", c.Identity.City, &iv.City},
			encField{"identity.state", c.Identity.State, &iv.State},
			encField{"identity.postalCode", c.Identity.PostalCode, &iv.PostalCode},
			encField{"identity.country", c.Identity.Country, &iv.Country},
			encField{"identity.company", c.Identity.Company, &iv.Company},
			encField{"identity.email", c.Identity.Email, &iv.Email},
			encField{"identity.phone", c.Identity.Phone, &iv.Phone},
			encField{"identity.ssn", c.Identity.SSN, &iv.SSN},
			encField{"identity.username", c.Identity.Username, &iv.Username},
			encField{"identity.passportNumber", c.Identity.PassportNumber, &iv.PassportNumber},
			encField{"identity.licenseNumber", c.Identity.LicenseNumber, &iv.LicenseNumber},
		)
		v.Identity = iv

	case c.SecureNote != nil:
		v.SecureNote = &view.SecureNote{Type: c.SecureNote.Type}

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCipherType, int(c.Type))
	}

	if n := len(c.Fields); n > 0 {
		v.Fields = make([]view.Field, n)
		for i, f := range c.Fields {
			v.Fields[i].Type = f.Type
			fields = append(fields,
				encField{"field.name", f.Name, &v.Fields[i].Name},
				encField{"field.value", f.Value, &v.Fields[i].Value},
			)
		}
	}

	if n := len(c.Attachments); n > 0 {
		v.Attachments = make([]view.Attachment, n)
		for i, a := range c.Attachments {
			v.Attachments[i].ID = a.ID
			v.Attachments[i].URL = a.URL
			v.Attachments[i].Size = a.Size
			v.Attachments[i].SizeName = a.SizeName
			fields = append(fields, encField{"attachment.fileName", a.FileName, &v.Attachments[i].FileName})
		}
	}

	if n := len(c.PasswordHistory); n > 0 {
		v.PasswordHistory = make([]view.PasswordHistory, n)
		for i, p := range c.PasswordHistory {
			v.PasswordHistory[i].LastUsedDate = p.LastUsedDate
			fields = append(fields, encField{"passwordHistory.password", p.Password, &v.PasswordHistory[i].Password})
		}
	}

	if err = decryptFields(ctx, cs, k, fields); err != nil {
		return nil, err
	}
	return v, nil
}

// EncryptCipher converts a View to its Domain form under the resolved key.
// The view must populate exactly the sub-shape its type selects; anything
// else is a caller error, not something to silently repair.
func EncryptCipher(ctx context.Context, cs crypto.CryptoService, v *view.Cipher, key *crypto.SymmetricKey) (*Cipher, error) {
	if err := checkShape(v); err != nil {
		return nil, err
	}

	k, err := resolveCipherKey(cs, v.OrganizationID, key)
	if err != nil {
		return nil, err
	}

	c := &Cipher{
		ID:             v.ID,
		OrganizationID: v.OrganizationID,
		FolderID:       v.FolderID,
		Type:           v.Type,
		Favorite:       v.Favorite,
		Reprompt:       v.Reprompt,
		Edit:           v.Edit,
		ViewPassword:   v.ViewPassword,
		CollectionIDs:  v.CollectionIDs,
		RevisionDate:   v.RevisionDate,
		CreationDate:   v.CreationDate,
		DeletedDate:    v.DeletedDate,
	}

	if c.Name, err = encryptValue(ctx, cs, v.Name, k); err != nil {
		return nil, fmt.Errorf("encrypt name: %w", err)
	}
	if c.Notes, err = encryptValue(ctx, cs, v.Notes, k); err != nil {
		return nil, fmt.Errorf("encrypt notes: %w", err)
	}

	switch {
	case v.Login != nil:
		l := &Login{PasswordRevisionDate: v.Login.PasswordRevisionDate}
		if l.Username, err = encryptValue(ctx, cs, v.Login.Username, k); err != nil {
			return nil, fmt.Errorf("encrypt login.username: %w", err)
		}
		if l.Password, err = encryptValue(ctx, cs, v.Login.Password, k); err != nil {
			return nil, fmt.Errorf("encrypt login.password: %w", err)
		}
		if l.TOTP, err = encryptValue(ctx, cs, v.Login.TOTP, k); err != nil {
			return nil, fmt.Errorf("encrypt login.totp: %w", err)
		}
		for _, u := range v.Login.URIs {
			es, uriErr := encryptValue(ctx, cs, u.URI, k)
			if uriErr != nil {
				return nil, fmt.Errorf("encrypt login.uri: %w", uriErr)
			}
			l.URIs = append(l.URIs, LoginURI{URI: es, Match: u.Match})
		}
		c.Login = l

	case v.Card != nil:
		card := &Card{}
		for _, m := range []struct {
			name  string
			plain string
			dst   **crypto.EncryptedString
		}{
			{"card.cardholderName", v.Card.CardholderName, &card.CardholderName},
			{"card.brand", v.Card.Brand, &card.Brand},
			{"card.number", v.Card.Number, &card.Number},
			{"card.expMonth", v.Card.ExpMonth, &card.ExpMonth},
			{"card.expYear", v.Card.ExpYear, &card.ExpYear},
			{"card.code", v.Card.Code, &card.Code},
		} {
			if *m.dst, err = encryptValue(ctx, cs, m.plain, k); err != nil {
				return nil, fmt.Errorf("encrypt %s: %w", m.name, err)
			}
		}
		c.Card = card

	case v.Identity != nil:
		ident := &Identity{}
		for _, m := range []struct {
			name  string
			plain string
			dst   **crypto.EncryptedString
		}{
			{"identity.title", v.Identity.Title, &ident.Title},
			{"identity.firstName", v.Identity.FirstName, &ident.FirstName},
			{"identity.middleName", v.Identity.MiddleName, &ident.MiddleName},
			{"identity.lastName", v.Identity.LastName, &ident.LastName},
			{"identity.address1", v.Identity.Address1, &ident.Address1},
			{"identity.address2", v.Identity.Address2, &ident.Address2},
			{"identity.address3", v.Identity.Address3, &ident.Address3},
			{"identity.city", v.Identity.City, &ident.City},
			{"identity.state", v.Identity.State, &ident.State},
			{"identity.postalCode", v.Identity.PostalCode, &ident.PostalCode},
			{"identity.country", v.Identity.Country, &ident.Country},
			{"identity.company", v.Identity.Company, &ident.Company},
			{"identity.email", v.Identity.Email, &ident.Email},
			{"identity.phone", v.Identity.Phone, &ident.Phone},
			{"identity.ssn", v.Identity.SSN, &ident.SSN},
			{"identity.username", v.Identity.Username, &ident.Username},
			{"identity.passportNumber", v.Identity.PassportNumber, &ident.PassportNumber},
			{"identity.licenseNumber", v.Identity.LicenseNumber, &ident.LicenseNumber},
		} {
			if *m.dst, err = encryptValue(ctx, cs, m.plain, k); err != nil {
				return nil, fmt.Errorf("encrypt %s: %w", m.name, err)
			}
		}
		c.Identity = ident

	case v.SecureNote != nil:
		c.SecureNote = &SecureNote{Type: v.SecureNote.Type}
	}

	for _, f := range v.Fields {
		df := Field{Type: f.Type}
		if df.Name, err = encryptValue(ctx, cs, f.Name, k); err != nil {
			return nil, fmt.Errorf("encrypt field.name: %w", err)
		}
		if df.Value, err = encryptValue(ctx, cs, f.Value, k); err != nil {
			return nil, fmt.Errorf("encrypt field.value: %w", err)
		}
		c.Fields = append(c.Fields, df)
	}

	for _, p := range v.PasswordHistory {
		dp := PasswordHistory{LastUsedDate: p.LastUsedDate}
		if dp.Password, err = encryptValue(ctx, cs, p.Password, k); err != nil {
			return nil, fmt.Errorf("encrypt passwordHistory.password: %w", err)
		}
		c.PasswordHistory = append(c.PasswordHistory, dp)
	}

	return c, nil
}

// checkShape verifies that exactly the sub-shape selected by the view's
// type discriminant is populated.
func checkShape(v *view.Cipher) error {
	var want string
	switch {
	case v.Type == models.Login || v.Type == models.MasterPassword:
		want = "login"
	case v.Type == models.Card:
		want = "card"
	case v.Type == models.Identity:
		want = "identity"
	case v.Type.IsSecureNoteShaped():
		want = "secureNote"
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCipherType, int(v.Type))
	}

	populated := map[string]bool{
		"login":      v.Login != nil,
		"card":       v.Card != nil,
		"identity":   v.Identity != nil,
		"secureNote": v.SecureNote != nil,
	}
	for shape, set := range populated {
		if set != (shape == want) {
			return fmt.Errorf("%w: type %d wants %s", ErrCipherShapeMismatch, int(v.Type), want)
		}
	}
	return nil
}
