package native

import "fmt"

// Resource is a live native value handed out by the library. The value
// itself is the identity the wrapper store keys on.
type Resource interface {
	// Kind returns the concrete kind of the value. Libraries refine the
	// generic object kind here when they can.
	Kind() Kind

	// Free destroys the underlying native state. Called exactly once, by
	// the wrapper store, when the last reference goes away. Free must not
	// call back into the store.
	Free()
}

// Owned is implemented by resources whose lifetime pins an owning
// repository: the object family and references.
type Owned interface {
	Resource

	// Owner returns the owning repository resource. Valid until Free.
	Owner() Resource
}

// Status codes reported in ErrorRecord.Code. Negative values indicate
// failure.
const (
	CodeOK           = 0
	CodeError        = -1
	CodeNotFound     = -3
	CodeExists       = -4
	CodeAmbiguous    = -5
	CodeUnbornBranch = -9
	CodeInvalidSpec  = -12
)

// Error classes reported in ErrorRecord.Class.
const (
	ClassNone       = "none"
	ClassOS         = "os"
	ClassInvalid    = "invalid"
	ClassReference  = "reference"
	ClassRepository = "repository"
	ClassConfig     = "config"
	ClassObject     = "object"
	ClassOdb        = "odb"
	ClassNet        = "net"
	ClassWorktree   = "worktree"
	ClassMerge      = "merge"
)

// ErrorRecord is the failure detail a native call leaves behind, mirroring
// a last-error register. A failing call that produces no record is silent:
// the dispatch layer yields nil instead of signaling.
type ErrorRecord struct {
	Code    int
	Class   string
	Message string
}

func (r *ErrorRecord) Error() string {
	return fmt.Sprintf("%s (%d): %s", r.Class, r.Code, r.Message)
}

// Record is shorthand for constructing an ErrorRecord.
func Record(code int, class, message string) *ErrorRecord {
	return &ErrorRecord{Code: code, Class: class, Message: message}
}

// Recordf is Record with Sprintf formatting of the message.
func Recordf(code int, class, format string, args ...any) *ErrorRecord {
	return &ErrorRecord{Code: code, Class: class, Message: fmt.Sprintf(format, args...)}
}

// Library is the full call surface the operation catalogue binds to.
// Lookup methods return fresh Resource values; accessors and predicates
// leave ownership untouched. Every error is either an *ErrorRecord or a
// plain error for the silent cases.
type Library interface {
	// Repository constructors.
	OpenRepository(path string) (Resource, error)
	OpenBare(path string) (Resource, error)
	InitRepository(path string, bare bool) (Resource, error)
	Clone(url, path string) (Resource, error)

	// Lookups producing owned resources.
	Head(repo Resource) (Resource, error)
	HeadForWorktree(repo Resource, name string) (Resource, error)
	ResolveReference(ref Resource) (Resource, error)
	RevparseSingle(repo Resource, spec string) (Resource, error)

	// Reference accessors.
	ReferenceName(ref Resource) (string, error)
	// ReferenceTarget returns the target hash for direct references and
	// ok=false for symbolic ones.
	ReferenceTarget(ref Resource) (hash string, ok bool, err error)

	// Object accessors.
	ObjectID(obj Resource) (string, error)
	ObjectShortID(obj Resource) (string, error)

	// Repository metadata.
	Commondir(repo Resource) (string, error)
	Namespace(repo Resource) (string, error)
	Ident(repo Resource) (name, email string, err error)
	Message(repo Resource) (string, error)
	MessageRemove(repo Resource) error
	Path(repo Resource) (string, error)
	State(repo Resource) (string, error)
	// Workdir returns ok=false for bare repositories.
	Workdir(repo Resource) (dir string, ok bool, err error)
	DetachHead(repo Resource) error

	// Repository predicates.
	IsBare(repo Resource) (bool, error)
	IsEmpty(repo Resource) (bool, error)
	IsHeadDetached(repo Resource) (bool, error)
	IsHeadUnborn(repo Resource) (bool, error)
	IsShallow(repo Resource) (bool, error)
	IsWorktree(repo Resource) (bool, error)
}
