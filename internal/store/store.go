// Package store owns the on-disk representation of the vault: a single JSON
// file holding the master digest and the site → credential mapping.
//
// The file is always read and rewritten whole. There is no locking: two
// processes writing the same vault file race each other and the last writer
// wins. Fixing that is out of scope.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mkravets/passvault/internal/models"
)

// DefaultPath is the vault file location used when no path is configured.
const DefaultPath = "storage.json"

var (
	// ErrNotFound is returned by Load when no vault file exists yet.
	ErrNotFound = errors.New("vault file not found")
	// ErrCorrupt is returned by Load when the file exists but cannot be
	// parsed as a vault file.
	ErrCorrupt = errors.New("vault file is corrupt")
)

// FileStore loads and saves a vault file at a fixed path.
type FileStore struct {
	path string
}

// New returns a FileStore bound to path. An empty path falls back to
// DefaultPath.
func New(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Path returns the location of the vault file.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads and parses the whole vault file. It returns ErrNotFound when the
// file does not exist and ErrCorrupt when the content is not a valid vault
// file, so callers can tell first run apart from a damaged vault.
func (fs *FileStore) Load() (*models.VaultFile, error) {
	buf, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "cannot read vault file %q", fs.path)
	}

	var vf models.VaultFile
	if err := json.Unmarshal(buf, &vf); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "parse %q: %v", fs.path, err)
	}
	if vf.MasterHash == "" {
		return nil, errors.Wrapf(ErrCorrupt, "%q is missing master_hash", fs.path)
	}
	if vf.Passwords == nil {
		vf.Passwords = make(map[string]models.CredentialRecord)
	}
	return &vf, nil
}

// Save rewrites the whole vault file. It writes to a uniquely named temp file
// next to the target and renames it into place, so a crash mid-write never
// leaves a truncated vault behind. The temp name carries a random suffix to
// stay clear of another process's in-flight write.
func (fs *FileStore) Save(vf *models.VaultFile) error {
	buf, err := json.MarshalIndent(vf, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode vault file")
	}

	tmp := filepath.Join(filepath.Dir(fs.path), "."+filepath.Base(fs.path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return errors.Wrapf(err, "write vault file %q", tmp)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "replace vault file %q", fs.path)
	}
	return nil
}
