package injector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zhubert/stowaway/config"
	"github.com/zhubert/stowaway/logger"
	"github.com/zhubert/stowaway/marker"
	"github.com/zhubert/stowaway/paginate"
	"github.com/zhubert/stowaway/session"
	"github.com/zhubert/stowaway/splice"
)

// Service orchestrates injection sessions: it owns the command flows and the
// order of checks, delegating pagination, marker encoding, host mutation, and
// persistence to their packages. Every mutating operation either fully
// succeeds or leaves host and session in their pre-command state.
type Service struct {
	store *session.Store
	cfg   *config.Config
	log   *slog.Logger
}

// NewService creates a service backed by the standard session store.
func NewService(cfg *config.Config) *Service {
	return NewServiceWithStore(cfg, session.NewStore())
}

// NewServiceWithStore creates a service with an explicit store. Used by
// tests to keep session files in a temp directory.
func NewServiceWithStore(cfg *config.Config, store *session.Store) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
		log:   logger.WithComponent("injector"),
	}
}

// InjectOptions configures a new injection. Zero values fall back to the
// loaded config.
type InjectOptions struct {
	DocumentPath string
	HostPath     string

	PageSize        int    // units per page, 0 means the configured default
	SnippetsPerPage int    // comment blocks per page, 0 means the configured default
	Unit            string // "chars" or "lines", "" means the configured default
	CommentPrefix   string // "" means inferred from the host extension

	CompanionDir string // where the companion copy and backup live, "" means beside the sidecar
	Local        bool   // keep session files in .stowaway beside the host
}

// StripOptions configures marker removal.
type StripOptions struct {
	// RestoreBackup replaces the host with the pre-injection backup verbatim
	// instead of scanning for markers. This is the remediation path when
	// markers have been damaged.
	RestoreBackup bool
}

// Result reports the session state after a successful command.
type Result struct {
	SessionID string
	HostPath  string
	Page      int // zero-based
	PageCount int
}

// Status reports an active session without mutating anything.
type Status struct {
	Session     *session.Session
	SidecarPath string

	// Drifted is set when the host content on disk no longer matches the
	// fingerprint recorded after the last command.
	Drifted bool

	// Diff describes how the host deviates from the content the engine last
	// wrote. Nil when the host is clean or the expected content cannot be
	// rebuilt.
	Diff []diffmatchpatch.Diff
}

// Inject hides the first page of a document inside the host file's comments
// and creates the session that tracks it.
func (s *Service) Inject(ctx context.Context, opts InjectOptions) (*Result, error) {
	opts, params, err := s.normalizeInject(opts)
	if err != nil {
		return nil, err
	}

	lock, err := session.Acquire(ctx, opts.HostPath)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	existing, err := s.store.Load(opts.HostPath)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s (session %s); run strip first",
			ErrAlreadyInjected, opts.HostPath, existing.ID)
	}

	docText, err := readDocument(opts.DocumentPath)
	if err != nil {
		return nil, err
	}
	hostData, hostMode, err := readHost(opts.HostPath)
	if err != nil {
		return nil, err
	}
	if marker.ContainsSentinel(string(hostData)) {
		return nil, fmt.Errorf("%w: %s already contains marker text from an earlier session; remove the stale markers first",
			ErrCorrupt, opts.HostPath)
	}

	doc, err := paginate.Split(docText, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	sess := session.New(opts.HostPath, opts.DocumentPath)
	sess.SetParams(params)
	sess.CommentPrefix = opts.CommentPrefix
	sess.Local = opts.Local
	sess.PageCount = doc.PageCount()

	companion, backup, err := s.store.ArtifactPaths(sess, opts.CompanionDir)
	if err != nil {
		return nil, err
	}
	sess.CompanionPath = companion
	sess.BackupPath = backup

	// The backup and companion are written before the host is touched, so
	// the restore path exists from the first moment markers do.
	if err := s.store.WriteBackup(sess, hostData, hostMode); err != nil {
		return nil, err
	}
	if err := s.store.WriteCompanion(sess, docText); err != nil {
		return nil, err
	}

	page := doc.Pages[0]
	newContent := composePage(string(hostData), page, sess)
	if err := session.AtomicWrite(opts.HostPath, []byte(newContent), hostMode); err != nil {
		return nil, fmt.Errorf("failed to write host file: %w", err)
	}

	sess.CurrentPage = 0
	sess.HostFingerprint = session.Fingerprint([]byte(newContent))
	sess.DocumentFingerprint = session.Fingerprint([]byte(docText))
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}

	s.log.Info("injected document into host",
		"session_id", sess.ID,
		"host", opts.HostPath,
		"pages", sess.PageCount,
		"page_size", params.PageSize,
		"snippets_per_page", params.SnippetsPerPage,
		"unit", string(params.Unit))

	return s.result(sess), nil
}

// Next advances the host to the following page.
func (s *Service) Next(ctx context.Context, hostPath string) (*Result, error) {
	return s.navigate(ctx, hostPath, func(sess *session.Session) (int, error) {
		if sess.CurrentPage+1 >= sess.PageCount {
			return 0, fmt.Errorf("%w: already at the last page (%d of %d)",
				ErrAtBoundary, sess.CurrentPage+1, sess.PageCount)
		}
		return sess.CurrentPage + 1, nil
	})
}

// Prev moves the host back to the preceding page.
func (s *Service) Prev(ctx context.Context, hostPath string) (*Result, error) {
	return s.navigate(ctx, hostPath, func(sess *session.Session) (int, error) {
		if sess.CurrentPage == 0 {
			return 0, fmt.Errorf("%w: already at the first page", ErrAtBoundary)
		}
		return sess.CurrentPage - 1, nil
	})
}

// Goto jumps the host to an arbitrary zero-based page. Jumping to the
// current page rewrites it in place.
func (s *Service) Goto(ctx context.Context, hostPath string, page int) (*Result, error) {
	return s.navigate(ctx, hostPath, func(sess *session.Session) (int, error) {
		if page < 0 || page >= sess.PageCount {
			return 0, fmt.Errorf("%w: page %d (document has pages 0 to %d)",
				ErrPageOutOfRange, page, sess.PageCount-1)
		}
		return page, nil
	})
}

// navigate is the shared flow for next, prev, and goto: verify nothing
// changed under us, swap the current page's markers for the target page's,
// then record the move.
func (s *Service) navigate(ctx context.Context, hostPath string, pick func(*session.Session) (int, error)) (*Result, error) {
	hostPath, err := filepath.Abs(hostPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve host path: %w", err)
	}

	lock, err := session.Acquire(ctx, hostPath)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	sess, err := s.loadSession(hostPath)
	if err != nil {
		return nil, err
	}

	hostData, hostMode, err := readHost(hostPath)
	if err != nil {
		return nil, err
	}
	if err := checkHostFingerprint(sess, hostData); err != nil {
		s.log.Warn("host drift detected", "session_id", sess.ID, "host", hostPath)
		return nil, err
	}

	target, err := pick(sess)
	if err != nil {
		return nil, err
	}

	doc, err := s.loadDocument(sess)
	if err != nil {
		return nil, err
	}

	clean, _, err := splice.Remove(string(hostData), sess.ID, sess.CommentPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to remove markers from %s: %w", hostPath, err)
	}

	newContent := composePage(clean, doc.Pages[target], sess)
	if err := session.AtomicWrite(hostPath, []byte(newContent), hostMode); err != nil {
		return nil, fmt.Errorf("failed to write host file: %w", err)
	}

	sess.CurrentPage = target
	sess.HostFingerprint = session.Fingerprint([]byte(newContent))
	sess.Touch()
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}

	s.log.Info("moved to page",
		"session_id", sess.ID,
		"host", hostPath,
		"page", target,
		"pages", sess.PageCount)

	return s.result(sess), nil
}

// Status reports where the session stands and whether the host still matches
// what the engine last wrote. It never mutates.
func (s *Service) Status(ctx context.Context, hostPath string) (*Status, error) {
	hostPath, err := filepath.Abs(hostPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve host path: %w", err)
	}

	lock, err := session.Acquire(ctx, hostPath)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	sess, err := s.loadSession(hostPath)
	if err != nil {
		return nil, err
	}
	sidecar, err := s.store.SidecarPath(sess)
	if err != nil {
		return nil, err
	}

	hostData, _, err := readHost(hostPath)
	if err != nil {
		return nil, err
	}

	st := &Status{Session: sess, SidecarPath: sidecar}
	if session.Fingerprint(hostData) != sess.HostFingerprint {
		st.Drifted = true
		st.Diff = s.driftDiff(sess, string(hostData))
	}
	return st, nil
}

// Strip removes every trace of the session from the host and deletes the
// session's files. With RestoreBackup the host is rewritten from the
// pre-injection backup without scanning for markers at all.
func (s *Service) Strip(ctx context.Context, hostPath string, opts StripOptions) (*Result, error) {
	hostPath, err := filepath.Abs(hostPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve host path: %w", err)
	}

	lock, err := session.Acquire(ctx, hostPath)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	sess, err := s.loadSession(hostPath)
	if err != nil {
		return nil, err
	}

	var newContent []byte
	mode := os.FileMode(0644)

	if opts.RestoreBackup {
		backup, err := s.store.ReadBackup(sess)
		if err != nil {
			return nil, err
		}
		newContent = backup
		if info, err := os.Stat(sess.BackupPath); err == nil {
			mode = info.Mode().Perm()
		}
	} else {
		hostData, hostMode, err := readHost(hostPath)
		if err != nil {
			return nil, err
		}
		mode = hostMode
		clean, _, err := splice.Remove(string(hostData), sess.ID, sess.CommentPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to remove markers from %s: %w (strip --restore-backup recovers the original)", hostPath, err)
		}
		newContent = []byte(clean)
	}

	if err := session.AtomicWrite(hostPath, newContent, mode); err != nil {
		return nil, fmt.Errorf("failed to write host file: %w", err)
	}
	if err := s.store.Delete(sess); err != nil {
		return nil, err
	}

	s.log.Info("stripped session from host",
		"session_id", sess.ID,
		"host", hostPath,
		"restored_backup", opts.RestoreBackup)

	return s.result(sess), nil
}

func (s *Service) result(sess *session.Session) *Result {
	return &Result{
		SessionID: sess.ID,
		HostPath:  sess.HostPath,
		Page:      sess.CurrentPage,
		PageCount: sess.PageCount,
	}
}

func (s *Service) loadSession(hostPath string) (*session.Session, error) {
	sess, err := s.store.Load(hostPath)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: %s; run inject first", ErrNoSession, hostPath)
	}
	return sess, nil
}

// loadDocument re-reads the companion copy and paginates it with the
// session's original parameters. Pagination is deterministic, so the pages
// come back exactly as they were cut at inject time.
func (s *Service) loadDocument(sess *session.Session) (*paginate.Document, error) {
	text, err := s.store.ReadCompanion(sess)
	if err != nil {
		return nil, err
	}
	if session.Fingerprint([]byte(text)) != sess.DocumentFingerprint {
		return nil, fmt.Errorf("%w: companion copy %s was modified", ErrDrift, sess.CompanionPath)
	}
	doc, err := paginate.Split(text, sess.Params())
	if err != nil {
		return nil, fmt.Errorf("failed to paginate companion copy: %w", err)
	}
	return doc, nil
}

// composePage renders one page of the document as marker blocks and splices
// them into clean host content. The plan is derived from the session ID, so
// the same session always scatters markers at the same lines.
func composePage(clean string, page paginate.Page, sess *session.Session) string {
	blocks := make([][]string, len(page.Snippets))
	for i, snip := range page.Snippets {
		blocks[i] = marker.EncodeBlock(sess.CommentPrefix, sess.ID, page.Index, i, len(page.Snippets), snip)
	}
	plan := splice.Plan(planLineCount(clean), len(blocks), sess.ID)
	return splice.Insert(clean, plan, blocks)
}

// planLineCount returns how many line positions of content are open for
// insertion. A trailing newline stays glued to the end of the file, so the
// position after it is excluded.
func planLineCount(content string) int {
	lines := strings.Split(content, "\n")
	if content == "" || strings.HasSuffix(content, "\n") {
		return len(lines) - 1
	}
	return len(lines)
}

// driftDiff rebuilds what the host should contain for the current page and
// diffs the actual content against it. Best effort; nil when the expected
// content cannot be reconstructed.
func (s *Service) driftDiff(sess *session.Session, actual string) []diffmatchpatch.Diff {
	backup, err := s.store.ReadBackup(sess)
	if err != nil {
		return nil
	}
	text, err := s.store.ReadCompanion(sess)
	if err != nil {
		return nil
	}
	doc, err := paginate.Split(text, sess.Params())
	if err != nil || sess.CurrentPage >= doc.PageCount() {
		return nil
	}

	expected := composePage(string(backup), doc.Pages[sess.CurrentPage], sess)
	dmp := diffmatchpatch.New()
	return dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))
}

func checkHostFingerprint(sess *session.Session, hostData []byte) error {
	if session.Fingerprint(hostData) != sess.HostFingerprint {
		return fmt.Errorf("%w: %s was modified since the last command; resolve manually or run strip --restore-backup",
			ErrDrift, sess.HostPath)
	}
	return nil
}

// readDocument loads the document text, dropping any bytes that are not
// valid UTF-8.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "")
	if text == "" {
		return "", fmt.Errorf("%w: document %s is empty", ErrInvalidConfig, path)
	}
	return text, nil
}

// readHost loads the host file and its permission bits, rejecting anything
// that is not an ordinary text file.
func readHost(path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat host file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%w: host %s is not a regular file", ErrInvalidConfig, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read host file: %w", err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, 0, fmt.Errorf("%w: host %s looks like a binary file", ErrInvalidConfig, path)
	}
	return data, info.Mode().Perm(), nil
}
