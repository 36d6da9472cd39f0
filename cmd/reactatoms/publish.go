package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/reactatoms/pkg/export"
)

func newPublishCmd(a *app) *cobra.Command {
	var skipExport bool
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the site and upload it to S3",
		Long: `Export the site and upload the output directory to an S3 bucket.

Credentials come from the standard AWS chain (environment, shared config,
instance role). --endpoint targets S3-compatible stores.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := a.cfg.Export.Out
			if !skipExport {
				if _, err := a.export(ctx, out); err != nil {
					return err
				}
			}

			pc := a.cfg.Publish
			pub, err := export.NewPublisher(ctx, export.PublishConfig{
				Bucket:   pc.Bucket,
				Prefix:   pc.Prefix,
				Region:   pc.Region,
				Endpoint: pc.Endpoint,
			}, a.logger)
			if err != nil {
				return err
			}
			stats, err := pub.Publish(ctx, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d objects (%d bytes) to s3://%s/%s\n",
				stats.Objects, stats.Bytes, pc.Bucket, pc.Prefix)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("out", "o", "dist", "export directory to upload")
	f.Int("workers", 0, "concurrent renders (0 selects from CPU count)")
	f.String("bucket", "", "destination bucket")
	f.String("prefix", "", "key prefix inside the bucket")
	f.String("region", "", "AWS region (default from the AWS config chain)")
	f.String("endpoint", "", "custom S3 endpoint")
	f.BoolVar(&skipExport, "skip-export", false, "upload the existing output directory as is")
	return cmd
}
