package view

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	rerrors "github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/pkg/telemetry"
)

// Hydrate adopts an already-rendered tree instead of creating one. The root
// builder must declare an id attribute; descendants are found by id when
// they declare one and by position under their parent otherwise.
//
// Every node of the eager tree is located before anything is mutated, so a
// hydration error leaves the backend untouched.
func Hydrate[N any](ctx context.Context, loc Locator[N], b *Builder, opts ...Option) (*View[N], error) {
	var zero N
	return hydrate(ctx, loc, b, zero, false, 0, opts)
}

// HydrateAt is Hydrate for a root that is the index-th child of parent.
func HydrateAt[N any](ctx context.Context, loc Locator[N], parent N, index int, b *Builder, opts ...Option) (*View[N], error) {
	return hydrate(ctx, loc, b, parent, true, index, opts)
}

// HydrateOrBuild hydrates b and, when the existing tree does not match,
// builds it from scratch instead. The fallback view is detached; the caller
// inserts it.
func HydrateOrBuild[N any](ctx context.Context, loc Locator[N], b *Builder, opts ...Option) (*View[N], error) {
	cfg := newConfig(opts)
	ctx, span := cfg.tracer.Start(ctx, "rview.HydrateOrBuild", attribute.String("rview.backend", loc.Backend()))
	start := time.Now()

	p, err := decompose(b)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	mode := "hydrate"
	var zero N
	v, err := hydratePlan(ctx, loc, cfg, p, zero, false, 0)
	if IsHydrationError(err) {
		cfg.logger.Info("hydration failed, building instead",
			slog.String("backend", loc.Backend()),
			slog.String("code", rerrors.Code(err)),
			slog.Any("error", err),
		)
		mode = "build"
		v, err = materialize[N](ctx, loc, cfg, p, nil, []string{p.label(-1)})
	}
	if err != nil {
		p.release()
	}

	cfg.metrics.ObserveBuild(loc.Backend(), mode, time.Since(start))
	telemetry.End(span, err)
	return v, err
}

func hydrate[N any](ctx context.Context, loc Locator[N], b *Builder, parent N, hasParent bool, index int, opts []Option) (*View[N], error) {
	cfg := newConfig(opts)
	ctx, span := cfg.tracer.Start(ctx, "rview.Hydrate", attribute.String("rview.backend", loc.Backend()))
	start := time.Now()

	var v *View[N]
	p, err := decompose(b)
	if err == nil {
		v, err = hydratePlan(ctx, loc, cfg, p, parent, hasParent, index)
		if err != nil {
			p.release()
		}
	}

	cfg.metrics.ObserveBuild(loc.Backend(), "hydrate", time.Since(start))
	telemetry.End(span, err)
	return v, err
}

func hydratePlan[N any](ctx context.Context, loc Locator[N], cfg *config, p *plan, parent N, hasParent bool, index int) (*View[N], error) {
	found := make(map[*plan]N)
	root := p.label(-1)
	if hasParent {
		root = p.label(index)
	}
	if err := locate(loc, p, parent, hasParent, index, found, []string{root}); err != nil {
		cfg.metrics.HydrationFailed(rerrors.Code(err))
		return nil, err
	}
	return materialize[N](ctx, loc, cfg, p, found, []string{root})
}

// locate finds the node for p and for every eager descendant, recording
// them in found. It never mutates.
func locate[N any](loc Locator[N], p *plan, parent N, hasParent bool, index int, found map[*plan]N, path []string) error {
	var node N
	id, hasID := p.id()
	switch {
	case hasID && p.kind == KindElement:
		n, ok := loc.ElementByID(id)
		if !ok {
			return rerrors.New("E041").WithPath(path...).
				WithDetail(fmt.Sprintf("No element has id=%q.", id))
		}
		node = n
	case hasParent:
		n, ok := loc.ChildAt(parent, index)
		if !ok {
			return rerrors.New("E042").WithPath(path...).
				WithDetail(fmt.Sprintf("%s has no child at index %d.", loc.Describe(parent), index))
		}
		node = n
	default:
		return rerrors.New("E040").WithPath(path...)
	}

	if err := checkKind(loc, p, node); err != nil {
		return err.WithPath(path...)
	}
	found[p] = node

	for i, cp := range p.children {
		if err := locate(loc, cp, node, true, i, found, extendPath(path, cp.label(i))); err != nil {
			return err
		}
	}
	return nil
}

func checkKind[N any](loc Locator[N], p *plan, node N) *rerrors.Error {
	isText := loc.IsText(node)
	switch {
	case p.kind == KindText && !isText:
		return rerrors.New("E043").
			WithDetail(fmt.Sprintf("Expected a text node, found %s.", loc.Describe(node)))
	case p.kind == KindElement && isText:
		return rerrors.New("E043").
			WithDetail(fmt.Sprintf("Expected <%s>, found %s.", p.tag, loc.Describe(node)))
	case p.kind == KindElement && !strings.EqualFold(loc.TagName(node), p.tag):
		return rerrors.New("E043").
			WithDetail(fmt.Sprintf("Expected <%s>, found %s.", p.tag, loc.Describe(node)))
	}
	return nil
}
