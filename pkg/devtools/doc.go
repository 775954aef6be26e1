// Package devtools serves a live inspector for a render root.
//
// The Server observes passes like any other hart.Observer. After each
// pass it snapshots the target's markup and broadcasts the pass record
// to websocket clients as a msgpack payload (the oplog encoding without
// the length prefix).
//
// Routes:
//
//	GET /               inspector page, refreshes on every pass
//	GET /snapshot.html  markup of the target after the last pass
//	GET /passes         recent pass records as JSON
//	GET /metrics        Prometheus metrics
//	GET /ws             websocket stream of pass records
//	GET /healthz        liveness
//
// ObservePass must run on the goroutine that renders, since it reads the
// live DOM. HTTP handlers only read the copies it stores.
package devtools
