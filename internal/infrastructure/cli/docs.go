// Package cli - docs.go lists documents and uploads new ones.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

func cmdDocs() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "List your uploaded documents",
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			a.restore(ctx)
			docs, err := a.store.RefreshDocuments(ctx)
			if err != nil {
				return err
			}
			printDocuments(docs)
			return nil
		},
	}
}

func cmdUpload() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a PDF and make it the active chat document",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			path := c.Args().First()
			if path == "" {
				return cli.Exit("usage: neurosync upload <path>", 2)
			}

			a.restore(ctx)
			data, filename, err := a.files.Read(path)
			if err != nil {
				return err
			}
			_, err = a.pipeline.Upload(ctx, data, filename)
			return err
		},
	}
}
