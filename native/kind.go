package native

// Kind identifies what a wrapped native value is.
// The zero value is KindUnknown.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindObject       // generic object, refined at wrap time when possible
	KindCommit
	KindTree
	KindBlob
	KindTag
	KindReference
	KindRepository
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindObject:     "object",
	KindCommit:     "commit",
	KindTree:       "tree",
	KindBlob:       "blob",
	KindTag:        "tag",
	KindReference:  "reference",
	KindRepository: "repository",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsObjectFamily reports whether k is the generic object kind or one of its
// refinements.
func (k Kind) IsObjectFamily() bool {
	switch k {
	case KindObject, KindCommit, KindTree, KindBlob, KindTag:
		return true
	}
	return false
}

// IsOwned reports whether values of this kind hold an owning repository
// reference for their whole lifetime.
func (k Kind) IsOwned() bool {
	return k.IsObjectFamily() || k == KindReference
}
