// Package oplog records render passes.
//
// A Recorder observes an App and turns every pass into a Record: its
// sequence number, timing, outcome and the change operations it applied.
// Records are encoded with msgpack and written to a Sink as frames of a
// 4-byte big-endian length followed by the payload, so a log can be
// streamed to a file, a websocket or an S3 object and read back with a
// Reader.
//
//	f, _ := os.Create("passes.oplog")
//	rec := oplog.NewRecorder(oplog.NewWriterSink(f), nil)
//	app := hart.New(doc, root, hart.WithRecorder(rec))
//	...
//	rec.Close()
package oplog
