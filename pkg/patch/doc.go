// Package patch applies change operations to a live DOM.
//
// The Patcher is the only writer of the DOM nodes owned by a render root.
// It materializes concrete nodes into DOM nodes, keeps each node's DOM
// handle current, and hands unmount work to a scheduler so it runs after
// the synchronous patch completes.
//
// LIST and FRAGMENT nodes have no element of their own. They render as
// their members followed by an empty comment that marks the end of the
// run; that comment is the node's DOM handle and the insertion point for
// new members.
package patch
