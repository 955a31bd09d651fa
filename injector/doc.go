// Package injector is the engine behind every stowaway command.
//
// A session hides one text document inside the line comments of one host
// source file. The document is cut into pages, each page into a handful of
// snippets, and exactly one page is present in the host at a time as marker
// comment blocks scattered between its lines. Navigation swaps the visible
// page: remove the current page's blocks, splice in the target page's.
//
// The lifecycle is a small state machine:
//
//	no session --Inject--> page 0 --Next/Prev/Goto--> page N --Strip--> no session
//
// Inject writes three files besides the host: a backup of the pre-injection
// host bytes, a companion copy of the document, and a JSON sidecar tracking
// the current page. Every later command re-reads those instead of trusting
// the host, so the host itself stays disposable.
//
// Two properties the engine refuses to compromise on:
//
//   - Fidelity. Remove(Insert(content)) is byte-identical to content, so a
//     strip after any amount of navigation leaves the host exactly as it
//     started. The backup exists for disasters, not for normal operation.
//   - No guessing. Before mutating, the engine compares the host's sha256
//     against the fingerprint recorded after its own last write. Any
//     mismatch aborts with ErrDrift and the host is left alone; Strip with
//     RestoreBackup is the sanctioned way out.
//
// All operations take an advisory file lock scoped to the host, so
// concurrent commands against the same host serialize instead of corrupting
// each other.
package injector
