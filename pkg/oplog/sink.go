package oplog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink receives encoded records.
type Sink interface {
	Write(r Record) error
	Close() error
}

// WriterSink writes frames to an io.Writer through a buffer. Close
// flushes the buffer and closes the writer when it is an io.Closer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
	bw *bufio.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, bw: bufio.NewWriter(w)}
}

// Write implements Sink.
func (s *WriterSink) Write(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteFrame(s.bw, r)
}

// Flush writes buffered frames through.
func (s *WriterSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bw.Flush()
}

// Close implements Sink.
func (s *WriterSink) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// PutObjectAPI is the part of the S3 client the S3 sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink buffers frames in memory and uploads them as one object when
// closed.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	sink := oplog.NewS3Sink(ctx, s3.NewFromConfig(cfg), "my-bucket", "runs/today.oplog")
type S3Sink struct {
	ctx    context.Context
	client PutObjectAPI
	bucket string
	key    string

	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

// NewS3Sink creates a sink that uploads to bucket/key on Close.
func NewS3Sink(ctx context.Context, client PutObjectAPI, bucket, key string) *S3Sink {
	return &S3Sink{ctx: ctx, client: client, bucket: bucket, key: key}
}

// NewS3SinkFromEnv loads the default AWS configuration (environment,
// shared config, instance role) and creates an S3 sink with it.
func NewS3SinkFromEnv(ctx context.Context, bucket, key string) (*S3Sink, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("oplog: load aws config: %w", err)
	}
	return NewS3Sink(ctx, s3.NewFromConfig(cfg), bucket, key), nil
}

// Write implements Sink.
func (s *S3Sink) Write(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("oplog: write to closed S3 sink")
	}
	return WriteFrame(&s.buf, r)
}

// Len returns the number of buffered bytes.
func (s *S3Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

// Close uploads the buffered log. Closing twice uploads once.
func (s *S3Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	_, err := s.client.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(s.buf.Bytes()),
		ContentLength: aws.Int64(int64(s.buf.Len())),
		ContentType:   aws.String("application/vnd.hart.oplog"),
	})
	if err != nil {
		return fmt.Errorf("oplog: upload s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
