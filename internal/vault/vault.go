// Package vault provides the credential operations of an authenticated
// session, delegating persistence to a Store.
package vault

import (
	"errors"
	"sort"
	"strings"

	"github.com/mkravets/passvault/internal/models"
)

// ErrNotFound is returned when the requested site has no stored record.
var ErrNotFound = errors.New("no entry found for site")

// Store defines the persistence operation required by the vault. Every
// mutation is written back synchronously through it.
type Store interface {
	// Save rewrites the whole persisted vault file.
	Save(vf *models.VaultFile) error
}

// Vault owns the in-memory vault file for the current session and keeps the
// persisted copy in sync after every mutation.
type Vault struct {
	file  *models.VaultFile
	store Store
}

// New constructs a Vault over an already loaded (and already verified) vault
// file.
func New(vf *models.VaultFile, store Store) *Vault {
	if vf.Passwords == nil {
		vf.Passwords = make(map[string]models.CredentialRecord)
	}
	return &Vault{file: vf, store: store}
}

// Normalize returns the canonical form of a site name: trimmed and
// lowercased. "Google", " google " and "GOOGLE" all address the same record.
func Normalize(site string) string {
	return strings.ToLower(strings.TrimSpace(site))
}

// Add stores a credential record for site, overwriting any existing record
// without warning, and persists the vault. If the save fails the in-memory
// vault is rolled back so it keeps matching the file on disk.
func (v *Vault) Add(site, username, password string) error {
	key := Normalize(site)
	prev, existed := v.file.Passwords[key]
	v.file.Passwords[key] = models.CredentialRecord{
		Username: username,
		Password: password,
	}
	if err := v.store.Save(v.file); err != nil {
		if existed {
			v.file.Passwords[key] = prev
		} else {
			delete(v.file.Passwords, key)
		}
		return err
	}
	return nil
}

// View returns the record stored for site, or ErrNotFound.
func (v *Vault) View(site string) (models.CredentialRecord, error) {
	rec, ok := v.file.Passwords[Normalize(site)]
	if !ok {
		return models.CredentialRecord{}, ErrNotFound
	}
	return rec, nil
}

// List returns all stored site names. The order is the stable order the
// persisted file exhibits: encoding/json writes object keys sorted, and a
// JSON object carries no insertion order, so lexicographic order is the one
// ordering that survives a save/load round trip.
func (v *Vault) List() []string {
	sites := make([]string, 0, len(v.file.Passwords))
	for site := range v.file.Passwords {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}

// Len returns the number of stored records.
func (v *Vault) Len() int {
	return len(v.file.Passwords)
}

// Update replaces the supplied fields of an existing record and persists the
// vault. A nil pointer keeps the current value, so a caller can legitimately
// set a field to the empty string by passing a pointer to "". Returns
// ErrNotFound if the site has no record.
func (v *Vault) Update(site string, username, password *string) error {
	key := Normalize(site)
	prev, ok := v.file.Passwords[key]
	if !ok {
		return ErrNotFound
	}
	rec := prev
	if username != nil {
		rec.Username = *username
	}
	if password != nil {
		rec.Password = *password
	}
	v.file.Passwords[key] = rec
	if err := v.store.Save(v.file); err != nil {
		v.file.Passwords[key] = prev
		return err
	}
	return nil
}

// Delete removes the record for site when confirmed is true and persists the
// vault. A declined confirmation is a valid outcome: the record stays and
// Delete returns (false, nil). Returns ErrNotFound if the site has no record.
func (v *Vault) Delete(site string, confirmed bool) (bool, error) {
	key := Normalize(site)
	prev, ok := v.file.Passwords[key]
	if !ok {
		return false, ErrNotFound
	}
	if !confirmed {
		return false, nil
	}
	delete(v.file.Passwords, key)
	if err := v.store.Save(v.file); err != nil {
		v.file.Passwords[key] = prev
		return false, err
	}
	return true, nil
}
