// Package reactive provides a push-based value container.
//
// A Subject holds the latest value of a stream. Subscribers receive the
// current value as soon as they subscribe and every value published after
// that, in publication order:
//
//	s := reactive.NewSubject([]string{})
//	sub := s.Subscribe(func(v []string) { fmt.Println(v) }) // prints []
//	s.Next([]string{"/"})                                    // prints [/]
//	sub.Unsubscribe()
//
// Watch adapts a Subject to a channel for consumers that live on their own
// goroutine, such as a websocket writer.
package reactive
