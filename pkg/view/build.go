package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	rerrors "github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/pkg/patch"
	"github.com/vango-dev/rview/pkg/stream"
	"github.com/vango-dev/rview/pkg/telemetry"
)

// Build materializes b against res. Every value b's streams have ready is
// applied before Build returns; the remaining streams are pumped by one
// goroutine each until the view is disposed or ctx is cancelled.
//
// A backend failure disposes everything created so far and is returned as
// an ErrBackend error.
func Build[N any](ctx context.Context, res Resources[N], b *Builder, opts ...Option) (*View[N], error) {
	cfg := newConfig(opts)
	ctx, span := cfg.tracer.Start(ctx, "rview.Build", attribute.String("rview.backend", res.Backend()))
	start := time.Now()

	var v *View[N]
	p, err := decompose(b)
	if err == nil {
		v, err = materialize(ctx, res, cfg, p, nil, []string{p.label(-1)})
		if err != nil {
			p.release()
		}
	}

	cfg.metrics.ObserveBuild(res.Backend(), "build", time.Since(start))
	telemetry.End(span, err)
	if err != nil {
		cfg.logger.Debug("build failed", slog.String("backend", res.Backend()), slog.Any("error", err))
	}
	return v, err
}

func backendError(err error, path []string) error {
	var coded *rerrors.Error
	if errors.As(err, &coded) {
		return err
	}
	return rerrors.New("E021").WithPath(path...).Wrap(err)
}

func extendPath(path []string, label string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, label)
}

// materialize creates (or, when found holds it, adopts) the node for p,
// applies its ready values, builds its eager children and starts its tasks.
func materialize[N any](ctx context.Context, res Resources[N], cfg *config, p *plan, found map[*plan]N, path []string) (*View[N], error) {
	node, hydrated := found[p]
	if !hydrated {
		var err error
		if p.kind == KindText {
			node, err = res.CreateText(p.text)
		} else {
			node, err = res.CreateElement(p.tag, p.ns)
		}
		if err != nil {
			return nil, backendError(err, path)
		}
	}

	v := newView(ctx, res, cfg, p, node)
	v.hydrated = hydrated

	fail := func(err error) (*View[N], error) {
		v.Dispose()
		return nil, backendError(err, path)
	}

	if err := v.applyInitial(p); err != nil {
		return fail(err)
	}

	var zero N
	for i, cp := range p.children {
		child, err := materialize(v.ctx, res, cfg, cp, found, extendPath(path, cp.label(i)))
		if err != nil {
			v.Dispose()
			return nil, err
		}
		v.mu.Lock()
		v.children = append(v.children, child)
		v.mu.Unlock()
		if !child.hydrated {
			if err := res.InsertChild(node, child.node, zero); err != nil {
				return fail(err)
			}
		}
	}

	for _, d := range p.events {
		if err := v.listen(d); err != nil {
			return fail(err)
		}
	}
	for _, fn := range p.postBuild {
		if err := fn(node); err != nil {
			return fail(err)
		}
	}

	for _, st := range p.textLive {
		pump(v, "text", st, func(s string) error { return res.SetText(node, s) })
	}
	for _, st := range p.attrLive {
		pump(v, "attribute", st, v.applyAttr)
	}
	for _, st := range p.boolLive {
		pump(v, "bool_attribute", st, v.applyBool)
	}
	for _, st := range p.styleLive {
		pump(v, "style", st, v.applyStyle)
	}
	for _, st := range p.childLive {
		pump(v, "children", st, v.applyChildPatch)
	}
	for _, fn := range p.tasks {
		v.spawn("task", fn)
	}

	v.mu.Lock()
	v.state = StateLive
	v.mu.Unlock()

	mode := "build"
	if hydrated {
		mode = "hydrate"
	}
	cfg.metrics.ViewBuilt(res.Backend(), mode)

	for _, sink := range p.captures {
		if err := sink.TrySend(v); err != nil {
			v.log.Debug("view capture not delivered", slog.Any("error", err))
		}
	}
	return v, nil
}

// pump applies every value of st, in order, from one goroutine. The
// stream is closed when the goroutine returns.
func pump[T, N any](v *View[N], kind string, st stream.Stream[T], apply func(T) error) {
	v.spawn(kind, func(ctx context.Context) error {
		defer stream.Close(st)
		for {
			val, ok := st.Next(ctx)
			if !ok || ctx.Err() != nil {
				return nil
			}
			if err := apply(val); err != nil {
				v.log.Warn("patch failed", slog.String("kind", kind), slog.Any("error", err))
				continue
			}
			v.metrics.PatchApplied(kind)
		}
	})
}

func (v *View[N]) applyInitial(p *plan) error {
	if v.hydrated && p.kind == KindText && p.hasText {
		if err := v.res.SetText(v.node, p.text); err != nil {
			return err
		}
	}
	for _, ap := range p.attrs {
		if err := v.applyAttr(ap); err != nil {
			return err
		}
	}
	for _, bp := range p.bools {
		if err := v.applyBool(bp); err != nil {
			return err
		}
	}
	for _, sp := range p.styles {
		if err := v.applyStyle(sp); err != nil {
			return err
		}
	}
	return nil
}

func (v *View[N]) applyAttr(p AttrPatch) error {
	if p.Kind == patch.RemoveKind {
		return v.res.RemoveAttribute(v.node, p.Key)
	}
	return v.res.SetAttribute(v.node, p.Key, p.Value)
}

func (v *View[N]) applyBool(p BoolPatch) error {
	return v.res.SetBoolAttribute(v.node, p.Key, p.Kind == patch.InsertKind && p.Value)
}

func (v *View[N]) applyStyle(p StylePatch) error {
	if p.Kind == patch.RemoveKind {
		return v.res.RemoveStyle(v.node, p.Key)
	}
	return v.res.SetStyle(v.node, p.Key, p.Value)
}

// applyChildPatch builds the children lp introduces, then applies lp to the
// child list and mirrors the edit on the backend. Removed children are
// disposed.
func (v *View[N]) applyChildPatch(lp ChildPatch) error {
	plans, err := patch.TryMapList(lp, decompose)
	if err != nil {
		return err
	}

	built := make(map[*plan]*View[N])
	disposeBuilt := func() {
		for _, c := range built {
			c.Dispose()
		}
	}
	for _, cp := range plans.NewItems() {
		child, err := materialize(v.ctx, v.res, v.cfg, cp, nil, []string{cp.label(-1)})
		if err != nil {
			cp.release()
			disposeBuilt()
			return err
		}
		built[cp] = child
	}
	views := patch.MapList(plans, func(cp *plan) *View[N] { return built[cp] })

	v.mu.Lock()
	if v.state == StateDisposed {
		v.mu.Unlock()
		disposeBuilt()
		return nil
	}
	removed, err := v.mirrorLocked(views)
	v.mu.Unlock()

	for _, r := range removed {
		r.Dispose()
	}
	return err
}

// mirrorLocked applies lp to v.children and the backend child list. It
// returns the views that left the list.
func (v *View[N]) mirrorLocked(lp patch.ListPatch[*View[N]]) ([]*View[N], error) {
	var zero N
	switch lp.Kind {
	case patch.PushKind:
		if err := v.res.InsertChild(v.node, lp.Value.node, zero); err != nil {
			return []*View[N]{lp.Value}, err
		}
		v.children = append(v.children, lp.Value)
		return nil, nil

	case patch.PopKind:
		removed := patch.ApplyList(&v.children, lp)
		return removed, v.detachLocked(removed)

	default:
		_, end := patch.Resolve(lp.Range, len(v.children))
		ref := zero
		if end < len(v.children) {
			ref = v.children[end].node
		}
		removed := patch.ApplyList(&v.children, lp)
		firstErr := v.detachLocked(removed)
		for _, c := range lp.Items {
			if err := v.res.InsertChild(v.node, c.node, ref); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return removed, firstErr
	}
}

func (v *View[N]) detachLocked(removed []*View[N]) error {
	var firstErr error
	for _, r := range removed {
		if err := v.res.RemoveChild(v.node, r.node); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
