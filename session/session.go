package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/stowaway/paginate"
)

// Session records one injection relationship between a source document and a
// host file. It is persisted as a JSON sidecar and is the single source of
// truth for where the reader currently is and which files the relationship
// owns.
type Session struct {
	ID           string `json:"id"`            // UUID identifying this injection
	HostPath     string `json:"host_path"`     // absolute path to the host file
	DocumentPath string `json:"document_path"` // absolute path to the original document

	CompanionPath string `json:"companion_path"` // engine-owned copy of the document
	BackupPath    string `json:"backup_path"`    // pre-injection copy of the host

	PageSize        int    `json:"page_size"`
	SnippetsPerPage int    `json:"snippets_per_page"`
	Unit            string `json:"unit"`           // "chars" or "lines"
	CommentPrefix   string `json:"comment_prefix"` // line comment leader, e.g. "//"

	CurrentPage int `json:"current_page"` // zero-based
	PageCount   int `json:"page_count"`

	HostFingerprint     string `json:"host_fingerprint"`     // sha256 of host content as last written
	DocumentFingerprint string `json:"document_fingerprint"` // sha256 of the companion copy

	Local bool `json:"local,omitempty"` // sidecar lives beside the host instead of centrally

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a session for hostPath with a fresh ID. Paths, pagination
// parameters, and fingerprints are filled in by the caller before the first
// Save.
func New(hostPath, documentPath string) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		HostPath:     hostPath,
		DocumentPath: documentPath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Params returns the pagination parameters the session was created with.
func (s *Session) Params() paginate.Params {
	return paginate.Params{
		PageSize:        s.PageSize,
		SnippetsPerPage: s.SnippetsPerPage,
		Unit:            paginate.Unit(s.Unit),
	}
}

// SetParams stores pagination parameters on the session.
func (s *Session) SetParams(p paginate.Params) {
	s.PageSize = p.PageSize
	s.SnippetsPerPage = p.SnippetsPerPage
	s.Unit = string(p.Unit)
}

// Touch updates the modification timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}
