// Package demo holds the example views rendered by the rview CLI.
//
// Every example returns a fresh builder on each call because builders are
// consumed by the first Build or Hydrate. Root elements carry an id so the
// server-rendered markup can be hydrated again.
package demo
