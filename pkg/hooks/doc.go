// Package hooks gives component invocations stable storage without
// component instances.
//
// A Tracker follows the builder through the tree and produces a path
// identity for every node and component call; Hash collapses the path to
// the key under which a Store keeps that call's Entry. An Entry holds the
// call's hook slots (memo, memoized callback, ref, after-effect), its last
// props and output node, and the effect cleanups that run when the node
// unmounts.
//
// Identity is positional: unkeyed siblings are told apart by index, so a
// structural change may shift their identities. A key pins the identity
// regardless of position.
package hooks
