package gogit

import (
	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"

	"github.com/wippyai/git-bridge/native"
)

// repository is the canonical resource for one opened repository. Owned
// resources point back at this exact instance.
type repository struct {
	repo   *git.Repository
	layout layout
}

func (r *repository) Kind() native.Kind { return native.KindRepository }
func (r *repository) String() string    { return "repository " + r.layout.gitdir }

func (r *repository) Free() {
	r.repo = nil
}

// gitObject wraps one looked-up odb object. A fresh instance is minted per
// lookup.
type gitObject struct {
	obj   object.Object
	kind  native.Kind
	owner *repository
}

func (o *gitObject) Kind() native.Kind      { return o.kind }
func (o *gitObject) Owner() native.Resource { return o.owner }

func (o *gitObject) String() string {
	id := o.obj.ID().String()
	if len(id) > 7 {
		id = id[:7]
	}
	return o.kind.String() + " " + id
}

func (o *gitObject) Free() {
	o.obj = nil
}

// gitReference wraps one reference snapshot.
type gitReference struct {
	ref   *plumbing.Reference
	owner *repository
}

func (r *gitReference) Kind() native.Kind      { return native.KindReference }
func (r *gitReference) Owner() native.Resource { return r.owner }
func (r *gitReference) String() string         { return "reference " + r.ref.Name().String() }

func (r *gitReference) Free() {
	r.ref = nil
}

// refineKind maps a concrete odb object to its wrapper kind.
func refineKind(obj object.Object) native.Kind {
	switch obj.(type) {
	case *object.Commit:
		return native.KindCommit
	case *object.Tree:
		return native.KindTree
	case *object.Blob:
		return native.KindBlob
	case *object.Tag:
		return native.KindTag
	}
	return native.KindObject
}
