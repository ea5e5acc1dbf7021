// Package guest exposes the operation registry to WebAssembly guests
// through a wazero host module.
//
// Every operation shares one flat signature: (argv, argc, retptr) -> status.
// Arguments and results travel as 16-byte tagged cells in guest linear
// memory; strings are copied host to guest through the guest's exported
// allocator. The boundary contract is declared as WIT types in wit.go:
// building a module lowers the cell record to its canonical layout, derives
// the export signatures by flattening the declared operation shape, and
// rejects a declaration whose cases no longer fit the wire cell.
//
// Wrapped resources never cross the boundary. Guests hold u32 indexes into
// a Table that pins host handles; dropping an index releases the handle
// through the same release path the host uses. A failed call parks the
// signal in a last-error register the guest can query.
package guest
