// Package relay connects application logic to views.
//
// Inputs carry values into a view, outputs carry events out of it, and a
// Component runs the logic between them for as long as its view is live:
//
//	clicks := relay.NewOutput[view.Event]()
//	label := relay.NewProxy("0")
//
//	c := relay.NewComponent("counter",
//		view.Button(view.Text(label.Stream())).On("click", clicks.Sink()),
//	).WithLogic(func(ctx context.Context) error {
//		events := clicks.Stream()
//		for n := 1; ; n++ {
//			if _, ok := events.Next(ctx); !ok {
//				return nil
//			}
//			label.Set(strconv.Itoa(n))
//		}
//	})
//
// Proxy publishes a model to any number of view parts; Shared guards state
// that several goroutines edit.
package relay
