// Package gogit implements the native library boundary on top of go-git.
//
// Each opened repository is one canonical resource instance; objects and
// references looked up through it hold that instance as their owner, so the
// wrapper store's identity-based dedup sees one repository no matter how
// many lookups return it. Lookups themselves always mint fresh resource
// instances, matching a native library where every lookup allocates.
//
// The adapter keeps its own view of the repository layout (gitdir, workdir,
// commondir) resolved at open time, because several operations answer
// questions go-git does not model directly: linked worktrees, in-progress
// operation state, and the merge message live as files under the gitdir.
//
// Failures are reported as *native.ErrorRecord with a code and class
// mirroring the native library's error vocabulary; callers upstream decide
// how records become host signals.
package gogit
