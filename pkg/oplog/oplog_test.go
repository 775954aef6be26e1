package oplog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	"github.com/hart-dev/hart/pkg/telemetry"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func samplePass(seq uint64) *telemetry.Pass {
	return &telemetry.Pass{
		Seq:   seq,
		Start: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Build: 2 * time.Millisecond,
		Patch: time.Millisecond,
		Ops: []telemetry.Op{
			{Type: "ADD", Target: 4, Kind: "List", Nodes: 1},
			{Type: "REORDER", Target: 4, Kind: "List", Keys: []string{"y", "x"}},
			{Type: "UPDATE", Target: 7, Kind: "Element", Tag: "li", Attrs: []string{"SET class"}},
		},
		Renders: 1,
		Reused:  2,
		Nodes:   9,
		Entries: 2,
	}
}

func TestRecorder_WritesFrames(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(NewWriterSink(&buf), quiet)

	rec.ObservePass(samplePass(1))
	failed := samplePass(2)
	failed.Ops = nil
	failed.Err = errors.New("E001: duplicate key")
	rec.ObservePass(failed)

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []Record{
		{
			Seq:      1,
			At:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Duration: 3 * time.Millisecond,
			Result:   "patch",
			Ops: []OpRecord{
				{Type: "ADD", Target: 4, Kind: "List", Added: 1},
				{Type: "REORDER", Target: 4, Kind: "List", Keys: []string{"y", "x"}},
				{Type: "UPDATE", Target: 7, Kind: "Element", Tag: "li", Attrs: []string{"SET class"}},
			},
			Renders: 1,
			Reused:  2,
			Nodes:   9,
			Entries: 2,
		},
		{
			Seq:      2,
			At:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Duration: 3 * time.Millisecond,
			Result:   "error",
			Error:    "E001: duplicate key",
			Renders:  1,
			Reused:   2,
			Nodes:    9,
			Entries:  2,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"ADD": 1, "REORDER": 1, "UPDATE": 1}, got[0].Counts()); diff != "" {
		t.Errorf("Counts() mismatch (-want +got):\n%s", diff)
	}
	if rec.Count() != 2 {
		t.Errorf("Count() = %d, want 2", rec.Count())
	}
}

func TestFromPass_Copies(t *testing.T) {
	p := samplePass(1)
	r := FromPass(p)
	p.Ops[1].Keys[0] = "changed"

	if r.Ops[1].Keys[0] != "y" {
		t.Error("record shares key slices with the pass")
	}
}

func TestReader_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, FromPass(samplePass(1))); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	whole := buf.Bytes()

	tests := []struct {
		name    string
		data    []byte
		wantEOF bool
		wantErr string
	}{
		{name: "empty", data: nil, wantEOF: true},
		{name: "short header", data: whole[:2], wantErr: "truncated frame header"},
		{name: "short payload", data: whole[:len(whole)-3], wantErr: "truncated frame"},
		{name: "oversized", data: []byte{0xff, 0xff, 0xff, 0xff}, wantErr: "frame too large"},
		{name: "garbage", data: []byte{0, 0, 0, 1, 0xc1}, wantErr: "decode record"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data)).Next()
			if tt.wantEOF {
				if err != io.EOF {
					t.Errorf("Next() error = %v, want io.EOF", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Next() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

type failingSink struct{ closed bool }

func (s *failingSink) Write(Record) error { return errors.New("disk full") }
func (s *failingSink) Close() error       { s.closed = true; return nil }

func TestRecorder_SinkError(t *testing.T) {
	sink := &failingSink{}
	rec := NewRecorder(sink, quiet)

	var seen []uint64
	rec.Subscribe(func(r Record) { seen = append(seen, r.Seq) })

	rec.ObservePass(samplePass(1))
	rec.ObservePass(samplePass(2))

	if err := rec.Err(); err == nil || err.Error() != "disk full" {
		t.Errorf("Err() = %v, want disk full", err)
	}
	if diff := cmp.Diff([]uint64{1, 2}, seen); diff != "" {
		t.Errorf("subscribers should still be fed (-want +got):\n%s", diff)
	}
	if err := rec.Close(); err == nil {
		t.Error("Close() should report the sink error")
	}
	if !sink.closed {
		t.Error("Close() should close the sink")
	}
}

func TestRecorder_Unsubscribe(t *testing.T) {
	rec := NewRecorder(nil, quiet)
	calls := 0
	cancel := rec.Subscribe(func(Record) { calls++ })

	rec.ObservePass(samplePass(1))
	cancel()
	rec.ObservePass(samplePass(2))

	if calls != 1 {
		t.Errorf("subscriber ran %d times, want 1", calls)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

type fakeS3 struct {
	puts []*s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink_UploadsOnClose(t *testing.T) {
	client := &fakeS3{}
	sink := NewS3Sink(context.Background(), client, "runs", "demo/1.oplog")
	rec := NewRecorder(sink, quiet)

	rec.ObservePass(samplePass(1))
	rec.ObservePass(samplePass(2))
	if len(client.puts) != 0 {
		t.Fatal("upload should wait for Close")
	}
	if sink.Len() == 0 {
		t.Fatal("records should be buffered")
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if len(client.puts) != 1 {
		t.Fatalf("PutObject called %d times, want 1", len(client.puts))
	}
	in := client.puts[0]
	if *in.Bucket != "runs" || *in.Key != "demo/1.oplog" {
		t.Errorf("uploaded to %s/%s", *in.Bucket, *in.Key)
	}
	if *in.ContentLength != int64(len(client.body)) {
		t.Errorf("ContentLength = %d, body is %d bytes", *in.ContentLength, len(client.body))
	}

	got, err := Decode(bytes.NewReader(client.body))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 2 || got[0].Seq != 1 || got[1].Seq != 2 {
		t.Errorf("uploaded records = %+v", got)
	}

	if err := sink.Write(FromPass(samplePass(3))); err == nil {
		t.Error("Write() after Close should fail")
	}
}

func TestS3Sink_UploadError(t *testing.T) {
	client := &fakeS3{err: errors.New("access denied")}
	sink := NewS3Sink(context.Background(), client, "runs", "x.oplog")

	err := sink.Close()
	if err == nil || !strings.Contains(err.Error(), "s3://runs/x.oplog") {
		t.Errorf("Close() error = %v", err)
	}
}
