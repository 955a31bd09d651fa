package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zhubert/stowaway/paths"
)

// localDirName is the hidden directory created beside the host file when a
// session is stored in local mode.
const localDirName = ".stowaway"

// Store reads and writes session sidecars and the files a session owns (the
// companion document copy and the host backup). Sidecars live either in the
// central sessions directory or in a .stowaway directory beside the host,
// always named by the host path key so lookups never depend on record
// contents.
type Store struct {
	centralDir string // overrides the default sessions directory when set
}

// NewStore creates a store backed by the standard sessions directory.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWithDir creates a store that keeps central sidecars in dir instead
// of the standard sessions directory. Used by tests.
func NewStoreWithDir(dir string) *Store {
	return &Store{centralDir: dir}
}

func (st *Store) central() (string, error) {
	if st.centralDir != "" {
		return st.centralDir, nil
	}
	return paths.SessionsDir()
}

func localDir(hostPath string) string {
	return filepath.Join(filepath.Dir(hostPath), localDirName)
}

// dirFor returns the directory holding the session's sidecar.
func (st *Store) dirFor(s *Session) (string, error) {
	if s.Local {
		return localDir(s.HostPath), nil
	}
	return st.central()
}

// SidecarPath returns the path of the session's JSON sidecar.
func (st *Store) SidecarPath(s *Session) (string, error) {
	dir, err := st.dirFor(s)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Key(s.HostPath)+".json"), nil
}

// ArtifactPaths returns where the session's companion copy and host backup
// should live. They sit next to the sidecar unless overrideDir is set.
func (st *Store) ArtifactPaths(s *Session, overrideDir string) (companion, backup string, err error) {
	dir := overrideDir
	if dir == "" {
		dir, err = st.dirFor(s)
		if err != nil {
			return "", "", err
		}
	}
	key := Key(s.HostPath)
	return filepath.Join(dir, key+".document.txt"), filepath.Join(dir, key+".host.bak"), nil
}

// Load finds the session for hostPath, checking the local directory beside
// the host before the central one. Returns nil with no error when no session
// exists.
func (st *Store) Load(hostPath string) (*Session, error) {
	name := Key(hostPath) + ".json"

	candidates := []string{filepath.Join(localDir(hostPath), name)}
	if central, err := st.central(); err == nil {
		candidates = append(candidates, filepath.Join(central, name))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read session file: %w", err)
		}

		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
		}
		// The short key could collide across hosts; the record is
		// authoritative.
		if s.HostPath != hostPath {
			continue
		}
		return &s, nil
	}
	return nil, nil
}

// Save writes the session sidecar atomically, creating the directory on
// first use.
func (st *Store) Save(s *Session) error {
	path, err := st.SidecarPath(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Delete removes the sidecar and every file the session owns. Files already
// gone are not an error.
func (st *Store) Delete(s *Session) error {
	path, err := st.SidecarPath(s)
	if err != nil {
		return err
	}

	var firstErr error
	for _, p := range []string{path, s.CompanionPath, s.BackupPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return firstErr
}

// WriteCompanion writes the session's private copy of the document to the
// recorded companion path.
func (st *Store) WriteCompanion(s *Session, text string) error {
	if s.CompanionPath == "" {
		return fmt.Errorf("session has no companion path")
	}
	if err := os.MkdirAll(filepath.Dir(s.CompanionPath), 0755); err != nil {
		return fmt.Errorf("failed to create companion directory: %w", err)
	}
	if err := AtomicWrite(s.CompanionPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write companion copy: %w", err)
	}
	return nil
}

// ReadCompanion returns the session's private copy of the document.
func (st *Store) ReadCompanion(s *Session) (string, error) {
	data, err := os.ReadFile(s.CompanionPath)
	if err != nil {
		return "", fmt.Errorf("failed to read companion copy: %w", err)
	}
	return string(data), nil
}

// WriteBackup stores a pre-injection copy of the host file, preserving its
// permission bits so a restore puts back what was there.
func (st *Store) WriteBackup(s *Session, content []byte, mode os.FileMode) error {
	if s.BackupPath == "" {
		return fmt.Errorf("session has no backup path")
	}
	if err := os.MkdirAll(filepath.Dir(s.BackupPath), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := AtomicWrite(s.BackupPath, content, mode); err != nil {
		return fmt.Errorf("failed to write host backup: %w", err)
	}
	return nil
}

// ReadBackup returns the pre-injection host content.
func (st *Store) ReadBackup(s *Session) ([]byte, error) {
	data, err := os.ReadFile(s.BackupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read host backup: %w", err)
	}
	return data, nil
}

// AtomicWrite writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partial file. The
// directory is synced afterwards to persist the rename.
func AtomicWrite(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return nil
	}
	defer d.Close()
	// Directory sync is best effort; some filesystems reject it.
	d.Sync()
	return nil
}
