package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hart-dev/hart"
	"github.com/hart-dev/hart/internal/config"
	"github.com/hart-dev/hart/internal/demo"
	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/dom/memdom"
	"github.com/hart-dev/hart/pkg/oplog"
)

func recordCmd(flags *globalFlags) *cobra.Command {
	var (
		output   string
		bucket   string
		prefix   string
		readBack bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record every render pass of the demo script",
		Long: `Run the scripted todo session and write one msgpack record per
render pass, either to a file or to an S3 object.

S3 credentials come from the usual AWS environment and shared config.

Examples:
  hart record
  hart record --output=run.oplog --check
  hart record --s3-bucket=my-bucket --s3-prefix=runs/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Record.Output = output
			}
			if bucket != "" {
				cfg.Record.S3.Bucket = bucket
			}
			if prefix != "" {
				cfg.Record.S3.Prefix = prefix
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			logger := newLogger(cfg, cmd.ErrOrStderr())

			sink, where, err := openSink(ctx, cfg)
			if err != nil {
				return errors.New("E140").Wrap(err)
			}
			rec := oplog.NewRecorder(sink, logger)

			d := newDemo(cfg, logger, memdom.NewElement("body"), hart.WithRecorder(rec))
			runErr := d.Run(ctx, demo.Script(), nil)
			closeErr := d.App().Close()
			if err := rec.Close(); err != nil {
				return errors.New("E140").Wrap(err)
			}
			if runErr != nil {
				return runErr
			}
			if closeErr != nil {
				return closeErr
			}

			success(out, "recorded %d passes to %s", rec.Count(), where)

			if readBack && !cfg.UploadsToS3() {
				return checkRecording(cmd, cfg.Record.Output, rec.Count())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default from config)")
	cmd.Flags().StringVar(&bucket, "s3-bucket", "", "Upload to this S3 bucket instead of a file")
	cmd.Flags().StringVar(&prefix, "s3-prefix", "", "Object key prefix in the bucket")
	cmd.Flags().BoolVar(&readBack, "check", false, "Read the file back and print each pass")

	return cmd
}

func openSink(ctx context.Context, cfg *config.Config) (oplog.Sink, string, error) {
	if cfg.UploadsToS3() {
		key := cfg.S3Key(fmt.Sprintf("%s-%s.oplog", cfg.Name, time.Now().UTC().Format("20060102T150405Z")))
		sink, err := oplog.NewS3SinkFromEnv(ctx, cfg.Record.S3.Bucket, key)
		if err != nil {
			return nil, "", err
		}
		return sink, "s3://" + cfg.Record.S3.Bucket + "/" + key, nil
	}

	f, err := os.Create(cfg.Record.Output)
	if err != nil {
		return nil, "", err
	}
	return oplog.NewWriterSink(f), cfg.Record.Output, nil
}

func checkRecording(cmd *cobra.Command, path string, want int) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.New("E140").Wrap(err)
	}
	defer f.Close()

	records, err := oplog.Decode(f)
	if err != nil {
		return errors.New("E140").Wrap(err)
	}
	if len(records) != want {
		return errors.New("E140").WithDetailf("read %d records back, wrote %d", len(records), want)
	}
	out := cmd.OutOrStdout()
	for _, r := range records {
		info(out, "#%-3d %-6s %2d ops  %v", r.Seq, r.Result, len(r.Ops), r.Duration)
	}
	return nil
}
