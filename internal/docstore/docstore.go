// Package docstore provides clients for the document store holding staged and
// published import data.
//
// The store is a path-addressed JSON tree with three primitives:
//
//   - Set: full overwrite of a subtree (nil clears it)
//   - Push: append one record under a generated, lexically-increasing key
//   - Read: full subtree read
//
// Two implementations exist: [Firebase] speaking the Firebase REST protocol and
// [SQLite] embedding the tree in a local database for serving without a remote
// store and for tests. Push keys sort by creation time in both, so a single
// writer's append order survives a read-back.
package docstore

import "context"

// Store is the document-store client interface.
//
// Implementations must allow concurrent Push calls to the same path: every
// append is one independent write of one record, there are no read-modify-write
// cycles. All failures wrap shared.ErrStore.
type Store interface {
	// Set overwrites the subtree at path with value. A nil value clears the
	// subtree entirely.
	Set(ctx context.Context, path string, value any) error

	// Push appends value under path with a generated key and returns the key.
	Push(ctx context.Context, path string, value any) (string, error)

	// Read unmarshals the full subtree at path into out. A missing path
	// leaves out at its zero value and is not an error.
	Read(ctx context.Context, path string, out any) error
}
