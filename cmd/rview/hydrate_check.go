package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/rview/internal/demo"
	"github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/pkg/dom"
	"github.com/vango-dev/rview/pkg/ssr"
	"github.com/vango-dev/rview/pkg/view"
)

func (a *app) hydrateCheckCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "hydrate-check [example]",
		Short: "Check that markup hydrates against an example",
		Long: `Hydrate-check parses HTML into a document and hydrates the example's
view against it without changing any node.

By default the markup is the example's own server render. Use --file to
check markup produced elsewhere, for example by 'rview render --page'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := demo.Lookup(a.exampleName(args))
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			markup, err := a.markup(ctx, ex, file)
			if err != nil {
				return err
			}
			n, err := a.hydrateCheck(ctx, markup, ex)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "%s hydrated", ex.Name)
			info(cmd.OutOrStdout(), "%d nodes adopted", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "HTML file to hydrate instead of a fresh render")

	return cmd
}

// markup returns the HTML to hydrate: the file's content when file is set,
// or a compact page render of ex.
func (a *app) markup(ctx context.Context, ex demo.Example, file string) (io.Reader, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.New("E060").
				WithDetail(fmt.Sprintf("Cannot read %s.", file)).
				Wrap(err)
		}
		return bytes.NewReader(data), nil
	}
	var buf bytes.Buffer
	if err := ssr.RenderPage(ctx, &buf, a.cfg.Render.Title, ex.New(), a.ssrOptions(false)...); err != nil {
		return nil, err
	}
	return &buf, nil
}

// hydrateCheck hydrates ex against markup and returns the number of nodes
// adopted.
func (a *app) hydrateCheck(ctx context.Context, markup io.Reader, ex demo.Example) (int, error) {
	doc, err := dom.Parse(markup)
	if err != nil {
		return 0, errors.New("E060").
			WithDetail("The markup could not be parsed.").
			Wrap(err)
	}
	v, err := view.Hydrate[*dom.Node](ctx, doc, ex.New(), a.viewOptions()...)
	if err != nil {
		return 0, err
	}
	n := countViews(v)
	if err := v.Dispose(); err != nil {
		a.logger.Warn("dispose after hydration", "example", ex.Name, "error", err)
	}
	return n, nil
}

func countViews(v *view.View[*dom.Node]) int {
	n := 1
	for _, c := range v.Children() {
		n += countViews(c)
	}
	return n
}
