// Package reconcile resolves lazy descriptors into concrete nodes.
//
// A Builder walks a vdom.Lazy tree, allocating concrete nodes in an arena
// while a hooks.Tracker follows the walk. Every component call passes
// through the optimized wrapper, which looks up the call's hook entry by
// identity and either reuses the previous output node unchanged or runs
// the component body with hooks bound to that entry.
//
// Construction failures (bad list keys, malformed fragments, invalid
// child values) and panics raised by component bodies are returned from
// Build as coded errors; the tracker and any half-rendered entries are
// reset first, so the next Build starts clean.
package reconcile
