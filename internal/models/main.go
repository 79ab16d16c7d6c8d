// Package models defines the core data structures for the vault file and
// the credential records it holds.
package models

// CredentialRecord holds the login data stored for a single site.
// Passwords are kept in plaintext inside the vault file; the file itself is
// the trust boundary. This mirrors the legacy storage format and is a known
// weakness, not an accident.
type CredentialRecord struct {
	// Username is the login name or email for the site.
	Username string `json:"username"`
	// Password is the plaintext password for the site.
	Password string `json:"password"`
}

// VaultFile is the persisted shape of the vault: the master-password digest
// plus the site → credential mapping. The JSON field names are fixed and must
// stay compatible with vault files written by earlier versions.
type VaultFile struct {
	// MasterHash is the hex-encoded SHA-256 digest of the master password.
	// It is set once during first-run setup and never changes.
	MasterHash string `json:"master_hash"`
	// Passwords maps a normalized site name (lowercased, trimmed) to its
	// credential record.
	Passwords map[string]CredentialRecord `json:"passwords"`
}

// NewVaultFile returns a VaultFile with the given master digest and no
// stored credentials.
func NewVaultFile(masterHash string) *VaultFile {
	return &VaultFile{
		MasterHash: masterHash,
		Passwords:  make(map[string]CredentialRecord),
	}
}
