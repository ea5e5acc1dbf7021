// Package gitbridge maps native git resources to refcounted host values.
//
// A process holds one wrapper store. Every native resource that crosses into
// host code is wrapped exactly once: wrapping the same resource again returns
// a new handle to the same refcounted wrapper. Objects and references pin
// their owning repository alive, and releasing the last handle tears the
// dependency chain down in order.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gitbridge/           Root package with the Bridge façade
//	├── native/          Boundary vocabulary: kinds, resources, the library surface
//	├── store/           Process-wide refcounted wrapper store
//	├── script/          Host value model and the operation registry
//	├── bindings/        The public git-* operation catalogue
//	├── gogit/           go-git backed implementation of the native surface
//	├── guest/           wazero host module exposing the catalogue to WASM guests
//	└── errors/          Structured signal types
//
// # Quick Start
//
// Open a repository and walk to its HEAD:
//
//	bridge, err := gitbridge.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bridge.Close()
//
//	repo, err := bridge.Call("git-repository-open", script.String("/path/to/repo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	head, _ := bridge.Call("git-repository-head", repo)
//	name, _ := bridge.Call("git-reference-name", head)
//	fmt.Println(name) // "refs/heads/main"
//
// # Lifecycle
//
// Handles returned by Call pin their wrapper. Release a handle when done;
// the wrapper dies when its last handle goes, freeing the native resource
// and dropping the implicit reference it held on its owning repository. A
// garbage-collected handle releases itself, so forgotten handles leak
// nothing, but deterministic Release is the intended path. Releasing twice
// is a no-op.
//
// # Thread Safety
//
// The store locks internally, but the model is single-threaded and
// cooperative: operations run one at a time, and no operation blocks on
// another. Bridge itself is not safe for concurrent Call.
package gitbridge
