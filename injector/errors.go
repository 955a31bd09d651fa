package injector

import (
	"errors"

	"github.com/zhubert/stowaway/splice"
)

// Sentinel errors for the engine's failure classes. Operations wrap these
// with file paths and remediation hints; callers match with errors.Is.
var (
	// ErrInvalidConfig reports unusable pagination parameters or comment
	// settings. Nothing is mutated.
	ErrInvalidConfig = errors.New("invalid injection configuration")

	// ErrAlreadyInjected reports an inject against a host that already has
	// an active session. Strip it first.
	ErrAlreadyInjected = errors.New("host already has an active session")

	// ErrNoSession reports a command against a host with no active session.
	ErrNoSession = errors.New("no active session for host")

	// ErrAtBoundary reports a next on the last page or a prev on the first.
	// Pages never wrap around. The session is untouched.
	ErrAtBoundary = errors.New("no page in that direction")

	// ErrPageOutOfRange reports a goto outside the document's pages.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrDrift reports host or companion content that changed outside the
	// engine since the last command. The engine refuses to mutate content
	// it did not produce.
	ErrDrift = errors.New("content changed outside the engine")
)

// ErrCorrupt reports marker structure the engine cannot safely remove, or
// marker text found where none should be. It is the same value the splice
// package returns for an unterminated block, so errors.Is matches under
// either name.
var ErrCorrupt = splice.ErrUnterminatedBlock
