package memory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/gconf"
)

// ErrorKind classifies fatal errors of the memory manager.
type ErrorKind int

// Kinds of fatal errors.
const (
	NullObjectAccess ErrorKind = iota + 1
	NullObjectStore
	InvalidAlias
	InvalidAllocate
	UnresolvedIdentifier
	UndefinedFunction
	ArgumentMismatch
	NoActiveFrame
	NoActiveScope
)

var errorMessages = map[ErrorKind]string{
	NullObjectAccess:     "Null object access",
	NullObjectStore:      "Null object store",
	InvalidAlias:         "alias requires object variables",
	InvalidAllocate:      "allocate on non-object",
	UnresolvedIdentifier: "Unresolved identifier",
	UndefinedFunction:    "Undefined function",
	ArgumentMismatch:     "Argument count mismatch",
	NoActiveFrame:        "No active frame",
	NoActiveScope:        "No active scope",
}

func (k ErrorKind) String() string {
	if msg, ok := errorMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("error(%d)", int(k))
}

// Error is a fatal error of the memory manager, carrying the identifiers involved.
type Error struct {
	Kind ErrorKind
	IDs  []string
}

func newError(k ErrorKind, ids ...string) *Error {
	err := &Error{Kind: k, IDs: ids}
	tracer().Errorf("%v", err)
	return err
}

func (e *Error) Error() string {
	if len(e.IDs) == 0 {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + strings.Join(e.IDs, ", ")
}

// Is makes errors.Is match errors of equal kind, regardless of identifiers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of a memory error, or 0 if err is not a memory error.
func KindOf(err error) ErrorKind {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return 0
}

// FatalPolicy controls how Fatal terminates. Fields set to true override the
// configuration flags nonzero-exit-on-error and panic-on-fatal.
type FatalPolicy struct {
	NonzeroExit  bool // exit with status 1 instead of 0
	PanicOnFatal bool // panic instead of exiting, for post-mortem debugging
}

var fatalPolicy FatalPolicy

// SetFatalPolicy sets the policy for Fatal, usually from command line flags.
// Returns the previous policy.
func SetFatalPolicy(p FatalPolicy) FatalPolicy {
	old := fatalPolicy
	fatalPolicy = p
	return old
}

// ExitStatus returns the process exit status to use after a fatal error.
//
// Core interpreters have always terminated with status 0 on fatal errors, just as on
// success. Configuration flag nonzero-exit-on-error switches to status 1.
func ExitStatus() int {
	if fatalPolicy.NonzeroExit || gconf.GetBool("nonzero-exit-on-error") {
		return 1
	}
	return 0
}

// Report writes err as a single diagnostic line to w.
func Report(w io.Writer, err error) {
	fmt.Fprintf(w, "ERROR: %s\n", err.Error())
}

// Fatal reports err on stdout and terminates the process.
func Fatal(err error) {
	Report(os.Stdout, err)
	if fatalPolicy.PanicOnFatal || gconf.GetBool("panic-on-fatal") {
		panic(`Core program hit a fatal error.

Configuration flag panic-on-fatal is set to true. It is aimed at helping to
do a post-mortem of a Core run. If you did not expect this to panic, please
unset panic-on-fatal to its default (false).

` + err.Error())
	}
	os.Exit(ExitStatus())
}
