package view

import (
	"context"
	"fmt"
	"strings"

	rerrors "github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/patch"
	"github.com/vango-dev/rview/pkg/stream"
)

// plan is a decomposed builder: every value its streams had ready, split
// from the streams that are still live.
type plan struct {
	kind Kind
	tag  string
	ns   string

	text     string
	hasText  bool
	textLive []stream.Stream[string]

	attrs     []AttrPatch
	attrLive  []stream.Stream[AttrPatch]
	bools     []BoolPatch
	boolLive  []stream.Stream[BoolPatch]
	styles    []StylePatch
	styleLive []stream.Stream[StylePatch]

	// children is the child list after every ready child patch.
	children  []*plan
	childLive []stream.Stream[ChildPatch]

	events    []eventDecl
	tasks     []func(ctx context.Context) error
	postBuild []func(node any) error
	captures  []channel.Sink[any]
}

// decompose consumes b and, recursively, every child builder it already
// holds.
func decompose(b *Builder) (*plan, error) {
	if b == nil {
		return nil, rerrors.New("E021").WithDetail("A nil builder was supplied as a view or child.")
	}
	if !b.consumed.CompareAndSwap(false, true) {
		return nil, rerrors.New("E020").WithPath(describeBuilder(b))
	}

	p := &plan{
		kind:      b.kind,
		tag:       b.tag,
		ns:        b.ns,
		events:    b.events,
		tasks:     b.tasks,
		postBuild: b.postBuild,
		captures:  b.captures,
	}

	for _, st := range b.texts {
		items, done := stream.Exhaust(st)
		if len(items) > 0 {
			// The text node is created with the latest ready value
			p.text = items[len(items)-1]
			p.hasText = true
		}
		if done {
			stream.Close(st)
		} else {
			p.textLive = append(p.textLive, st)
		}
	}
	p.attrs, p.attrLive = exhaustAll(b.attrs)
	p.bools, p.boolLive = exhaustAll(b.bools)
	p.styles, p.styleLive = exhaustAll(b.styles)

	for i, st := range b.children {
		items, done := stream.Exhaust(st)
		for _, lp := range items {
			mapped, err := patch.TryMapList(lp, decompose)
			if err != nil {
				p.release()
				for _, rest := range b.children[i:] {
					stream.Close(rest)
				}
				return nil, err
			}
			// Plans dropped before they were built still own streams.
			for _, dropped := range patch.ApplyList(&p.children, mapped) {
				dropped.release()
			}
		}
		if done {
			stream.Close(st)
		} else {
			p.childLive = append(p.childLive, st)
		}
	}
	return p, nil
}

// release closes every live stream of p and its children. It is used for
// plans that will never be pumped; closing a stream twice is harmless.
func (p *plan) release() {
	for _, st := range p.textLive {
		stream.Close(st)
	}
	closeAll(p.attrLive)
	closeAll(p.boolLive)
	closeAll(p.styleLive)
	closeAll(p.childLive)
	for _, cp := range p.children {
		cp.release()
	}
}

func closeAll[T any](sts []stream.Stream[T]) {
	for _, st := range sts {
		stream.Close(st)
	}
}

func exhaustAll[T any](decls []stream.Stream[T]) (ready []T, live []stream.Stream[T]) {
	for _, st := range decls {
		items, done := stream.Exhaust(st)
		ready = append(ready, items...)
		if done {
			stream.Close(st)
		} else {
			live = append(live, st)
		}
	}
	return ready, live
}

// id returns the id attribute the plan ends up with after its ready
// attribute patches.
func (p *plan) id() (string, bool) {
	var id string
	var ok bool
	for _, ap := range p.attrs {
		if ap.Key != "id" {
			continue
		}
		switch ap.Kind {
		case patch.InsertKind:
			id, ok = ap.Value, true
		case patch.RemoveKind:
			id, ok = "", false
		}
	}
	return id, ok
}

// label describes the plan as the index-th child of its parent.
func (p *plan) label(index int) string {
	if p.kind == KindText {
		return fmt.Sprintf("text[%d] %q", index, truncate(p.text, 20))
	}
	if id, ok := p.id(); ok {
		return p.tag + "#" + id
	}
	if index < 0 {
		return p.tag
	}
	return fmt.Sprintf("%s[%d]", p.tag, index)
}

func describeBuilder(b *Builder) string {
	if b.kind == KindText {
		return "text"
	}
	return b.tag
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
