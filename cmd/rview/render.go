package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/rview/internal/config"
	"github.com/vango-dev/rview/internal/demo"
	"github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/internal/publish"
	"github.com/vango-dev/rview/pkg/ssr"
)

// commandKeys maps configuration keys to each command's local flags.
var commandKeys = map[string]map[string]string{
	"render": {
		"render.pretty":    "pretty",
		"render.page":      "page",
		"render.title":     "title",
		"publish.region":   "region",
		"publish.endpoint": "endpoint",
	},
	"serve": {
		"serve.addr": "addr",
	},
}

func (a *app) renderCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render [example]",
		Short: "Render an example to HTML",
		Long: `Render builds an example on the server backend and prints its markup.

With --page the markup is wrapped in a full HTML document. Pretty output
is meant for reading; it adds whitespace text and does not hydrate.

An --out of the form s3://bucket/key uploads the markup instead of writing
a file. Credentials are read from AWS_ACCESS_KEY_ID and
AWS_SECRET_ACCESS_KEY.

Examples:
  rview render counter
  rview render todo --page --title Todo --out todo.html
  rview render chart --page --out s3://my-site/chart.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := demo.Lookup(a.exampleName(args))
			if err != nil {
				return err
			}

			if loc, ok := publish.ParseLocation(out); ok {
				return a.publish(cmd, ex, loc)
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.New("E060").
						WithDetail(fmt.Sprintf("Cannot create %s.", out)).
						Wrap(err)
				}
				defer f.Close()
				w = f
			}

			if err := a.render(cmd.Context(), w, ex); err != nil {
				return err
			}
			if out != "" {
				success(cmd.ErrOrStderr(), "Rendered %s to %s", ex.Name, out)
			}
			return nil
		},
	}

	cmd.Flags().Bool("pretty", false, "indent the output")
	cmd.Flags().Bool("page", false, "wrap the markup in an HTML document")
	cmd.Flags().String("title", "", "page title used with --page")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file or s3:// location instead of stdout")
	cmd.Flags().String("region", "", "S3 region for s3:// outputs")
	cmd.Flags().String("endpoint", "", "S3-compatible endpoint for s3:// outputs")

	return cmd
}

// publishClient builds the S3 client used by publish. Tests replace it.
var publishClient = func(cfg config.PublishConfig) publish.PutObjectAPI {
	return publish.NewClient(publish.ClientOptions{Region: cfg.Region, Endpoint: cfg.Endpoint})
}

func (a *app) publish(cmd *cobra.Command, ex demo.Example, loc publish.Location) error {
	var buf bytes.Buffer
	if err := a.render(cmd.Context(), &buf, ex); err != nil {
		return err
	}
	p := publish.New(publishClient(a.cfg.Publish))
	if err := p.Publish(cmd.Context(), loc, ex.Name, buf.Bytes()); err != nil {
		return err
	}
	success(cmd.ErrOrStderr(), "Published %s to %s", ex.Name, loc)
	return nil
}

func (a *app) exampleName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Render.Example
}

func (a *app) render(ctx context.Context, w io.Writer, ex demo.Example) error {
	opts := a.ssrOptions(a.cfg.Render.Pretty)
	a.logger.Debug("rendering", "example", ex.Name, "page", a.cfg.Render.Page, "pretty", a.cfg.Render.Pretty)

	if a.cfg.Render.Page {
		return ssr.RenderPage(ctx, w, a.cfg.Render.Title, ex.New(), opts...)
	}
	html, err := ssr.RenderString(ctx, ex.New(), opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, html)
	return err
}

func examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List the bundled examples",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, ex := range demo.All() {
				fmt.Fprintf(w, "  %-8s %s\n", ex.Name, ex.Summary)
			}
		},
	}
}
