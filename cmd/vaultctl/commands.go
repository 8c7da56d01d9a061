package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/vaultkit/go-vault-client/internal/adapter"
	"github.com/vaultkit/go-vault-client/internal/config"
	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/importers"
	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/service"
	"github.com/vaultkit/go-vault-client/internal/utils"
	"github.com/vaultkit/go-vault-client/internal/workers"
	"github.com/vaultkit/go-vault-client/models"
)

type app struct {
	cfg         *config.ClientConfig
	crypto      crypto.CryptoService
	users       service.UserService
	adapter     adapter.ServerAdapter
	ciphers     service.CipherService
	folders     service.FolderService
	collections service.CollectionService
	sends       service.SendService
	exports     service.ExportService
	logger      *logger.Logger
}

const usage = `Usage: vaultctl <command> [arguments]

Commands:
  list                          list vault items
  copy <name>                   copy an item's password to the clipboard
  import <format> <file>        import items (csv, sniff-csv, json, encrypted-json)
  export <format> [org-id]      export items (csv, json, encrypted_json)
  sync                          pull the server state once
  watch                         keep pulling on the configured interval

The vault is unlocked with the VAULT_EMAIL environment variable and a
master password prompt. Server commands additionally need VAULT_TOKEN.`

func (a *app) run(ctx context.Context) error {
	args := flag.Args()
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	if err := a.unlock(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return a.list(ctx)
	case "copy":
		if len(args) < 2 {
			return fmt.Errorf("usage: vaultctl copy <name>")
		}
		return a.copyPassword(ctx, args[1])
	case "import":
		if len(args) < 3 {
			return fmt.Errorf("usage: vaultctl import <format> <file>")
		}
		return a.importFile(ctx, args[1], args[2])
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("usage: vaultctl export <format> [org-id]")
		}
		orgID := ""
		if len(args) > 2 {
			orgID = args[2]
		}
		return a.export(ctx, args[1], orgID)
	case "sync":
		return a.syncWorker().Refresh(ctx)
	case "watch":
		workers.NewWorkers(a.syncWorker()).Run(ctx)
		return nil
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// unlock derives the account key from the master password and activates the
// user. The email doubles as the local partition key.
func (a *app) unlock(_ context.Context) error {
	email := strings.TrimSpace(os.Getenv("VAULT_EMAIL"))
	if email == "" {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("an email is required to unlock the vault")
	}

	fmt.Print("Master password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read master password: %w", err)
	}

	key, err := crypto.DeriveMasterKey(string(password), email)
	if err != nil {
		return fmt.Errorf("derive master key: %w", err)
	}
	a.crypto.SetKey(key)
	a.users.SetActiveUser(email)
	return nil
}

func (a *app) list(ctx context.Context) error {
	views, err := a.ciphers.GetAllDecrypted(ctx)
	if err != nil {
		return err
	}

	for _, v := range views {
		if v.IsDeleted() || v.Type == models.MasterPassword {
			continue
		}
		detail := ""
		if v.Login != nil && v.Login.Username != "" {
			detail = v.Login.Username
		}
		fmt.Printf("%-12s %-30s %s\n", v.Type.String(), v.Name, detail)
	}
	return nil
}

func (a *app) copyPassword(ctx context.Context, name string) error {
	views, err := a.ciphers.GetAllDecrypted(ctx)
	if err != nil {
		return err
	}

	for _, v := range views {
		if v.IsDeleted() || v.Name != name {
			continue
		}
		value := v.Notes
		if v.Login != nil && v.Login.Password != "" {
			value = v.Login.Password
		}
		if err = clipboard.WriteAll(value); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Printf("Copied %q to the clipboard.\n", name)
		return nil
	}
	return fmt.Errorf("no item named %q", name)
}

func (a *app) importFile(ctx context.Context, format, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var imp importers.Importer
	switch format {
	case "csv":
		imp = importers.NewGenericCSVImporter(false)
	case "sniff-csv":
		imp = importers.NewSniffCSVImporter(false)
	case "json":
		imp = importers.NewGenericJSONImporter(false)
	case "encrypted-json":
		imp = importers.NewEncryptedJSONImporter(a.crypto, false)
	default:
		return fmt.Errorf("unknown import format %q", format)
	}

	result, err := imp.Parse(ctx, string(raw))
	if err != nil {
		return fmt.Errorf("parse import document: %w", err)
	}

	if err = a.applyImport(ctx, result); err != nil {
		return err
	}
	fmt.Printf("Imported %d items and %d folders.\n", len(result.Ciphers), len(result.Folders))
	return nil
}

// applyImport persists a parsed import. Folders go first so the
// relationships can be resolved to their assigned ids.
func (a *app) applyImport(ctx context.Context, result *importers.ImportResult) error {
	folderIDs := make([]string, len(result.Folders))
	for i, f := range result.Folders {
		folder, err := domain.EncryptFolder(ctx, a.crypto, f, nil)
		if err != nil {
			return fmt.Errorf("encrypt folder %q: %w", f.Name, err)
		}
		fd := folder.ToData()
		fd.ID = utils.GenerateUUID()
		folderIDs[i] = fd.ID
		if err = a.folders.Upsert(ctx, fd); err != nil {
			return fmt.Errorf("save folder %q: %w", f.Name, err)
		}
	}

	for _, rel := range result.FolderRelationships {
		if rel.CipherIndex < len(result.Ciphers) && rel.TargetIndex < len(folderIDs) {
			result.Ciphers[rel.CipherIndex].FolderID = folderIDs[rel.TargetIndex]
		}
	}

	for _, v := range result.Ciphers {
		data, err := a.ciphers.Encrypt(ctx, v)
		if err != nil {
			return fmt.Errorf("encrypt item %q: %w", v.Name, err)
		}
		if err = a.ciphers.Upsert(ctx, data); err != nil {
			return fmt.Errorf("save item %q: %w", v.Name, err)
		}
	}
	return nil
}

func (a *app) export(ctx context.Context, format, orgID string) error {
	f := service.ExportFormat(format)

	var out string
	var err error
	if orgID != "" {
		out, err = a.exports.GetOrganizationExport(ctx, orgID, f)
	} else {
		out, err = a.exports.GetExport(ctx, f)
	}
	if err != nil {
		return err
	}

	ext := "json"
	if f == service.ExportFormatCSV {
		ext = "csv"
	}
	prefix := "vault"
	if orgID != "" {
		prefix = "org"
	}
	name := service.FileName(prefix, ext)
	if err = os.WriteFile(name, []byte(out), 0o600); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	fmt.Printf("Wrote %s.\n", name)
	return nil
}

func (a *app) syncWorker() *workers.SyncWorker {
	return workers.NewSyncWorker(
		a.adapter,
		a.ciphers,
		a.folders,
		a.collections,
		a.sends,
		a.cfg.Workers.SyncInterval,
		a.logger,
	)
}
