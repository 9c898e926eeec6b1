// Package identity is the supplemented process-identity probe (spec.md
// §5 new(): "reads process identity (uid, gid, pid, parent pid)";
// original_source/libpromises/eval_context.c populates hard classes for
// username/groupname/policy_server etc. at startup). Built on the
// standard library: no example repo in the pack wires a third-party
// process-identity library, and none of the domain-stack candidates
// (cobra, bbolt, gjson/sjson, go-yaml, uuid, go-multierror) apply to
// reading os-level process attributes.
package identity

import (
	"os"
	"strconv"
)

// Info is a snapshot of the calling process's identity.
type Info struct {
	UID  int
	GID  int
	PID  int
	PPID int
}

// Probe reads the current process's identity.
func Probe() Info {
	return Info{
		UID:  os.Getuid(),
		GID:  os.Getgid(),
		PID:  os.Getpid(),
		PPID: os.Getppid(),
	}
}

// ClassPublisher is the narrow surface identity needs from the class
// table to publish hard classes, satisfied by EvalContext's
// ClassPutHard method.
type ClassPublisher interface {
	ClassPutHard(name string, tags []string)
}

// PublishHardClasses publishes the process-identity hard classes an
// EvalContext should carry from startup, exercised by EvalContext.New.
func (info Info) PublishHardClasses(pub ClassPublisher) {
	pub.ClassPutHard("uid_"+strconv.Itoa(info.UID), nil)
	pub.ClassPutHard("gid_"+strconv.Itoa(info.GID), nil)
	pub.ClassPutHard("pid_"+strconv.Itoa(info.PID), nil)
	pub.ClassPutHard("ppid_"+strconv.Itoa(info.PPID), nil)
}
