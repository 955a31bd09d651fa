package injector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhubert/stowaway/config"
	"github.com/zhubert/stowaway/marker"
	"github.com/zhubert/stowaway/paginate"
)

// normalizeInject resolves paths, fills unset options from the config, and
// collects every problem with the requested parameters into one config
// error so the user sees the full list at once.
func (s *Service) normalizeInject(opts InjectOptions) (InjectOptions, paginate.Params, error) {
	var problems []string

	if opts.DocumentPath == "" {
		problems = append(problems, "document path is required")
	}
	if opts.HostPath == "" {
		problems = append(problems, "host path is required")
	}

	if opts.DocumentPath != "" {
		abs, err := filepath.Abs(opts.DocumentPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("cannot resolve document path: %v", err))
		} else {
			opts.DocumentPath = abs
		}
	}
	if opts.HostPath != "" {
		abs, err := filepath.Abs(opts.HostPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("cannot resolve host path: %v", err))
		} else {
			opts.HostPath = abs
		}
	}
	if opts.CompanionDir != "" {
		abs, err := filepath.Abs(opts.CompanionDir)
		if err != nil {
			problems = append(problems, fmt.Sprintf("cannot resolve companion dir: %v", err))
		} else {
			opts.CompanionDir = abs
		}
	}

	if opts.DocumentPath != "" && opts.HostPath != "" && samePath(opts.DocumentPath, opts.HostPath) {
		problems = append(problems, "document and host are the same file")
	}

	params := paginate.Params{
		PageSize:        opts.PageSize,
		SnippetsPerPage: opts.SnippetsPerPage,
		Unit:            paginate.Unit(opts.Unit),
	}
	if params.PageSize == 0 {
		params.PageSize = s.cfg.PageSize
	}
	if params.SnippetsPerPage == 0 {
		params.SnippetsPerPage = s.cfg.SnippetsPerPage
	}
	if params.Unit == "" {
		params.Unit = paginate.Unit(s.cfg.Unit)
	}
	if err := params.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if opts.CommentPrefix == "" {
		opts.CommentPrefix = s.cfg.PrefixFor(opts.HostPath)
	}
	if err := config.ValidatePrefix(opts.CommentPrefix); err != nil {
		problems = append(problems, err.Error())
	} else if marker.ContainsSentinel(opts.CommentPrefix) {
		problems = append(problems, "comment prefix must not contain marker text")
	}

	if len(problems) > 0 {
		return opts, params, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return opts, params, nil
}

// samePath returns true if a and b refer to the same filesystem entry. It
// handles case-insensitive filesystems and symlinks by comparing
// device+inode via os.SameFile. Falls back to exact string comparison when
// either path cannot be stat'd.
func samePath(a, b string) bool {
	if a == b {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
