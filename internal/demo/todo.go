package demo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/rview/pkg/channel"
	"github.com/vango-dev/rview/pkg/patch"
	"github.com/vango-dev/rview/pkg/relay"
	"github.com/vango-dev/rview/pkg/stream"
	"github.com/vango-dev/rview/pkg/view"
)

type todoAction uint8

const (
	todoAdd todoAction = iota
	todoDone
	todoClear
)

type todoMsg struct {
	action todoAction
	id     int
	text   string
}

// Todo is one entry of a TodoList.
type Todo struct {
	ID   int
	Text string
}

// TodoList keeps an ordered list of todos in sync with a <ul>.
//
// Event payloads: a click on #add carries the new item's text as Raw
// (a string); clicks on an item's done button and on #clear carry nothing.
// The add button names the input its text comes from in data-raw-from.
type TodoList struct {
	items     *relay.Shared[[]Todo]
	remaining *relay.Proxy[int]
	msgs      *channel.Sender[todoMsg]
	inbox     *channel.Receiver[todoMsg]
	nextID    int
}

// NewTodoList returns a list holding the given items.
func NewTodoList(items ...string) *TodoList {
	tx, rx := channel.New[todoMsg](16)
	l := &TodoList{
		remaining: relay.NewProxy(len(items)),
		msgs:      tx,
		inbox:     rx,
	}
	todos := make([]Todo, 0, len(items))
	for _, text := range items {
		todos = append(todos, l.newTodo(text))
	}
	l.items = relay.NewShared(todos)
	return l
}

func (l *TodoList) newTodo(text string) Todo {
	l.nextID++
	if strings.TrimSpace(text) == "" {
		text = "Item " + strconv.Itoa(l.nextID)
	}
	return Todo{ID: l.nextID, Text: text}
}

// Items returns a copy of the current todos.
func (l *TodoList) Items() []Todo {
	var out []Todo
	l.items.Read(func(v []Todo) { out = append(out, v...) })
	return out
}

func (l *TodoList) sink(f func(view.Event) todoMsg) channel.Sink[view.Event] {
	return channel.ContraMap[view.Event, todoMsg](l.msgs, f)
}

func (l *TodoList) item(t Todo) *view.Builder {
	id := t.ID
	return view.Li(
		view.Span(view.TextValue(t.Text)),
		view.Button(view.TextValue("done")).
			WithAttr("id", fmt.Sprintf("todo-%d-done", id)).
			On("click", l.sink(func(view.Event) todoMsg { return todoMsg{action: todoDone, id: id} })),
	).WithAttr("id", fmt.Sprintf("todo-%d", id))
}

// Component returns the list's view and the logic that edits it. It may
// be called once.
func (l *TodoList) Component() *relay.Component {
	tx, rx := channel.NewUnbounded[view.ChildPatch]()

	var initial []*view.Builder
	for _, t := range l.Items() {
		initial = append(initial, l.item(t))
	}
	children := stream.Later[view.ChildPatch](rx)
	if len(initial) > 0 {
		children = stream.NowAndLater(patch.Set(initial...), children)
	}

	b := view.Section(
		view.H2(view.TextValue("Todo")),
		view.Ul().WithAttr("id", "todos").WithChildStream(children),
		view.P(view.Text(relay.Watch(l.remaining, remaining))).WithAttr("id", "remaining"),
		view.Input("text").WithAttr("id", "new-todo"),
		view.Button(view.TextValue("add")).
			WithAttr("id", "add").
			WithAttr("data-raw-from", "new-todo").
			On("click", l.sink(func(ev view.Event) todoMsg {
				text, _ := ev.Raw.(string)
				return todoMsg{action: todoAdd, text: text}
			})),
		view.Button(view.TextValue("clear")).
			WithAttr("id", "clear").
			On("click", l.sink(func(view.Event) todoMsg { return todoMsg{action: todoClear} })),
	).WithAttr("id", "todo")

	return relay.NewComponent("todo", b).WithLogic(func(ctx context.Context) error {
		defer tx.Close()
		defer l.inbox.Close()
		for {
			msg, ok := l.inbox.Next(ctx)
			if !ok {
				return nil
			}
			p, ok := l.apply(msg)
			if !ok {
				continue
			}
			if err := tx.Send(ctx, p); err != nil {
				return err
			}
		}
	})
}

// apply updates the model and returns the matching child patch.
func (l *TodoList) apply(msg todoMsg) (view.ChildPatch, bool) {
	var (
		p  view.ChildPatch
		ok bool
		n  int
	)
	l.items.Write(func(items *[]Todo) {
		switch msg.action {
		case todoAdd:
			t := l.newTodo(msg.text)
			patch.PushItem(items, t)
			p, ok = patch.Push(l.item(t)), true
		case todoDone:
			for i, t := range *items {
				if t.ID == msg.id {
					patch.RemoveAt(items, i)
					p, ok = patch.Remove[*view.Builder](i), true
					break
				}
			}
		case todoClear:
			if len(*items) > 0 {
				*items = nil
				p, ok = patch.Drain[*view.Builder](), true
			}
		}
		n = len(*items)
	})
	l.remaining.Set(n)
	return p, ok
}

func remaining(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return strconv.Itoa(n) + " items left"
}
