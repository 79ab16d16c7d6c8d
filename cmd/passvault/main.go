// Package main runs the passvault CLI: first-run setup or master-password
// login, then an interactive menu over the vault operations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/mkravets/passvault/internal/config"
	"github.com/mkravets/passvault/internal/generator"
	"github.com/mkravets/passvault/internal/hasher"
	"github.com/mkravets/passvault/internal/logger"
	"github.com/mkravets/passvault/internal/prompt"
	"github.com/mkravets/passvault/internal/session"
	"github.com/mkravets/passvault/internal/store"
	"github.com/mkravets/passvault/internal/vault"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	var showVer bool
	flag.BoolVar(&showVer, "version", false, "show build version and date")

	// Parse command-line and environment configuration.
	options := config.Parse()

	if showVer {
		fmt.Printf("passvault\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init("Warn"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zl := log.Log

	st := store.New(options.File)
	p := prompt.New(os.Stdin)
	sess := session.New(hasher.SHA256{}, st, zl)

	// Load the vault, or run first-time setup when no file exists yet.
	vf, err := st.Load()
	switch {
	case err == nil:
		if !sess.Verify(vf, p) {
			os.Exit(1)
		}
	case errors.Is(err, store.ErrNotFound):
		vf, err = sess.Setup(p)
		if err != nil {
			zl.Error("setup failed", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
	case errors.Is(err, store.ErrCorrupt):
		zl.Error("vault file is corrupt", zap.Error(err))
		fmt.Fprintf(os.Stderr, "The vault file %s is damaged and cannot be read.\n", st.Path())
		fmt.Fprintln(os.Stderr, "Restore it from a backup or remove it to start over.")
		os.Exit(1)
	default:
		zl.Error("cannot load vault", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Cannot read the vault file: %v\n", err)
		os.Exit(1)
	}

	v := vault.New(vf, st)
	menu(v, p, options.GenLength, zl)
}

// menu runs the interactive loop, dispatching to the vault operations until
// the user exits or input ends.
func menu(v *vault.Vault, p *prompt.Prompter, genLength int, zl *zap.Logger) {
	for {
		fmt.Println("=== Password Manager ===")
		fmt.Println("  1. Add password")
		fmt.Println("  2. View password")
		fmt.Println("  3. List all sites")
		fmt.Println("  4. Update password")
		fmt.Println("  5. Delete password")
		fmt.Println("  6. Generate password")
		fmt.Println("  7. Exit")

		choice, err := p.Line("Choose an option (1-7): ")
		if err != nil {
			return
		}

		switch vault.Normalize(choice) {
		case "1":
			addEntry(v, p, genLength, zl)
		case "2":
			viewEntry(v, p)
		case "3":
			listSites(v)
		case "4":
			updateEntry(v, p, genLength, zl)
		case "5":
			deleteEntry(v, p, zl)
		case "6":
			generatePassword(p, genLength)
		case "7":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid option. Try again.")
			fmt.Println()
		}
	}
}

// readPassword reads a password for a record, generating one when the user
// leaves the input blank. Returns the password and whether it was generated.
func readPassword(p *prompt.Prompter, label string, genLength int) (string, bool, error) {
	password, err := p.Secret(label)
	if err != nil {
		return "", false, err
	}
	if password != "" {
		return password, false, nil
	}
	password, err = generator.Generate(genLength)
	if err != nil {
		return "", false, err
	}
	return password, true, nil
}

func addEntry(v *vault.Vault, p *prompt.Prompter, genLength int, zl *zap.Logger) {
	fmt.Println("=== Add Password ===")
	site, err := p.Line("Enter site/service name: ")
	if err != nil {
		return
	}
	username, err := p.Line("Enter username or email: ")
	if err != nil {
		return
	}
	password, generated, err := readPassword(p, "Enter password (leave blank to generate): ", genLength)
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		return
	}

	if err := v.Add(site, strings.TrimSpace(username), password); err != nil {
		zl.Error("cannot save vault", zap.Error(err))
		fmt.Printf("Failed to save the vault: %v\n", err)
		return
	}
	if generated {
		fmt.Printf("Generated password: %s\n", password)
		offerClipboard(p, password)
	}
	fmt.Printf("Password for '%s' saved!\n", vault.Normalize(site))
	fmt.Println()
}

func viewEntry(v *vault.Vault, p *prompt.Prompter) {
	fmt.Println("=== View Password ===")
	site, err := p.Line("Enter site name: ")
	if err != nil {
		return
	}

	rec, err := v.View(site)
	if errors.Is(err, vault.ErrNotFound) {
		fmt.Printf("No entry found for '%s'.\n", vault.Normalize(site))
		fmt.Println()
		return
	}

	fmt.Println()
	fmt.Printf("  Site:     %s\n", vault.Normalize(site))
	fmt.Printf("  Username: %s\n", rec.Username)
	fmt.Printf("  Password: %s\n", rec.Password)
	fmt.Println()
	offerClipboard(p, rec.Password)
}

func listSites(v *vault.Vault) {
	fmt.Println("=== Saved Sites ===")
	if v.Len() == 0 {
		fmt.Println("No passwords saved yet.")
		fmt.Println()
		return
	}
	for i, site := range v.List() {
		fmt.Printf("  %d. %s\n", i+1, site)
	}
	fmt.Println()
}

func updateEntry(v *vault.Vault, p *prompt.Prompter, genLength int, zl *zap.Logger) {
	fmt.Println("=== Update Password ===")
	site, err := p.Line("Enter site name: ")
	if err != nil {
		return
	}
	if _, err := v.View(site); errors.Is(err, vault.ErrNotFound) {
		fmt.Printf("No entry found for '%s'.\n", vault.Normalize(site))
		fmt.Println()
		return
	}

	username, err := p.Line("Enter new username (leave blank to keep current): ")
	if err != nil {
		return
	}
	password, err := p.Secret("Enter new password (leave blank to keep current): ")
	if err != nil {
		return
	}

	// Blank input means "keep the current value": the vault API takes nil
	// for an untouched field.
	var newUsername, newPassword *string
	if username != "" {
		newUsername = &username
	}
	if password != "" {
		newPassword = &password
	}
	if newUsername == nil && newPassword == nil {
		fmt.Println("Nothing to update.")
		fmt.Println()
		return
	}

	if err := v.Update(site, newUsername, newPassword); err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			fmt.Printf("No entry found for '%s'.\n", vault.Normalize(site))
		} else {
			zl.Error("cannot save vault", zap.Error(err))
			fmt.Printf("Failed to save the vault: %v\n", err)
		}
		fmt.Println()
		return
	}
	fmt.Printf("Entry for '%s' updated.\n", vault.Normalize(site))
	fmt.Println()
}

func deleteEntry(v *vault.Vault, p *prompt.Prompter, zl *zap.Logger) {
	fmt.Println("=== Delete Password ===")
	listSites(v)
	if v.Len() == 0 {
		return
	}

	site, err := p.Line("Enter site name to delete: ")
	if err != nil {
		return
	}
	if _, err := v.View(site); errors.Is(err, vault.ErrNotFound) {
		fmt.Printf("No entry found for '%s'.\n", vault.Normalize(site))
		fmt.Println()
		return
	}

	confirmed, err := p.Confirm(fmt.Sprintf("Are you sure you want to delete '%s'? (y/n): ", vault.Normalize(site)))
	if err != nil {
		return
	}
	deleted, err := v.Delete(site, confirmed)
	if err != nil && !errors.Is(err, vault.ErrNotFound) {
		zl.Error("cannot save vault", zap.Error(err))
		fmt.Printf("Failed to save the vault: %v\n", err)
		fmt.Println()
		return
	}
	if deleted {
		fmt.Printf("'%s' deleted.\n", vault.Normalize(site))
	} else {
		fmt.Println("Cancelled.")
	}
	fmt.Println()
}

func generatePassword(p *prompt.Prompter, genLength int) {
	fmt.Println("=== Generate Password ===")
	answer, err := p.Line(fmt.Sprintf("Password length [%d]: ", genLength))
	if err != nil {
		return
	}
	length := genLength
	if answer != "" {
		n, err := strconv.Atoi(vault.Normalize(answer))
		if err != nil || n < 1 {
			fmt.Println("Invalid length.")
			fmt.Println()
			return
		}
		length = n
	}

	password, err := generator.Generate(length)
	if err != nil {
		fmt.Printf("Failed to generate password: %v\n", err)
		fmt.Println()
		return
	}
	fmt.Printf("Generated password: %s\n", password)
	offerClipboard(p, password)
	fmt.Println()
}

// offerClipboard copies the password to the system clipboard when the user
// asks for it. Clipboard failures (e.g. headless sessions) are reported but
// never fatal.
func offerClipboard(p *prompt.Prompter, password string) {
	ok, err := p.Confirm("Copy password to clipboard? (y/n): ")
	if err != nil || !ok {
		return
	}
	if err := clipboard.WriteAll(password); err != nil {
		fmt.Printf("Clipboard unavailable: %v\n", err)
		return
	}
	fmt.Println("Password copied to clipboard.")
}
