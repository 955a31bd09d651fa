// Package session persists the state that ties a document to a host file.
//
// Each injected host has exactly one session, stored as a JSON sidecar named
// by a digest of the host's absolute path. The sidecar records where the
// reader is (current page), how the document was paginated, and fingerprints
// of the host and the companion copy so commands can detect external edits
// before mutating anything.
//
// Sidecars live in the central sessions directory by default, or in a
// .stowaway directory beside the host when the session was created in local
// mode. Store.Load probes both locations, local first, and reports a missing
// session as (nil, nil) rather than an error so callers can distinguish
// "no session" from "broken session".
//
// All writes go through an atomic temp-file-and-rename so a crash mid-save
// leaves either the previous sidecar or the new one, never a torn file.
// Cross-process mutual exclusion is a separate concern handled by Acquire,
// which takes an advisory flock in the central locks directory.
package session
