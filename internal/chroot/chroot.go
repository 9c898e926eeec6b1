// Package chroot implements the path mangling / chroot projection of
// spec §4.10: pure string functions that map absolute source paths into
// a simulation root for dry-runs and back. No I/O is performed; the
// separator-collapsing and drive-letter behavior follows what
// original_source/libpromises/files_names.h and addr_lib.c do, since
// spec.md leaves the exact collapsing rule informal.
package chroot

import (
	"strings"

	"github.com/evalcore/agent/internal/evalerr"
)

// MaxProjectedPathLength is the implementation-defined cap on a
// projected path's length (spec §6 "File-path conventions"). Callers
// guarantee their input fits; ToChangesChroot panics via
// evalerr.Raise if it does not, since an oversized path after chroot
// projection is treated as a caller contract violation, not a
// recoverable condition.
const MaxProjectedPathLength = 4096

// Projector holds the one-shot configured chroot base (spec §4.10:
// "an optional one-shot set-changes-chroot(root)"). Kept as an explicit
// field rather than a package global per spec §9's "Global mutable
// state" design note.
type Projector struct {
	root string
	set  bool
}

// SetChangesChroot configures the base directory. It is one-shot: a
// second call overwrites the first, since nothing in spec.md requires
// rejecting reconfiguration, only that root must be absolute.
func (p *Projector) SetChangesChroot(root string) {
	if !strings.HasPrefix(root, "/") && !hasDriveLetter(root) {
		evalerr.Raise("set-changes-chroot", "chroot base %q is not an absolute path", root)
	}
	p.root = strings.TrimRight(root, "/")
	p.set = true
}

// IsConfigured reports whether a chroot base has been set.
func (p *Projector) IsConfigured() bool {
	return p.set
}

// ToChangesChroot projects an absolute input path into the configured
// base. Drive letters ("C:\...") are promoted to a directory segment
// under the chroot; leading separators on the remainder are collapsed
// to exactly one before joining.
func (p *Projector) ToChangesChroot(absolutePath string) string {
	if !p.set {
		return absolutePath
	}
	rel := absolutePath
	if letter, rest, ok := splitDriveLetter(rel); ok {
		rel = "/" + letter + rest
	}
	rel = collapseLeadingSeparators(rel)
	projected := p.root + "/" + rel
	if len(projected) > MaxProjectedPathLength {
		evalerr.Raise("to-changes-chroot", "projected path exceeds maximum length %d", MaxProjectedPathLength)
	}
	return projected
}

// ToNormalRoot is the inverse of ToChangesChroot: it strips the chroot
// prefix, recovering the original absolute path on systems without
// drive letters (spec §8 round-trip law).
func (p *Projector) ToNormalRoot(projectedPath string) string {
	if !p.set {
		return projectedPath
	}
	trimmed := strings.TrimPrefix(projectedPath, p.root)
	if trimmed == projectedPath {
		return projectedPath // not under the chroot base; return unchanged
	}
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

func collapseLeadingSeparators(s string) string {
	trimmed := strings.TrimLeft(s, "/")
	return trimmed
}

// hasDriveLetter reports whether s starts with a single letter, a
// colon, and a path separator (e.g. "C:\Windows" or "C:/Windows").
func hasDriveLetter(s string) bool {
	_, _, ok := splitDriveLetter(s)
	return ok
}

func splitDriveLetter(s string) (letter, rest string, ok bool) {
	if len(s) < 3 {
		return "", "", false
	}
	c := s[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	if !isLetter || s[1] != ':' {
		return "", "", false
	}
	if s[2] != '/' && s[2] != '\\' {
		return "", "", false
	}
	return string(c), strings.ReplaceAll(s[2:], "\\", "/"), true
}
