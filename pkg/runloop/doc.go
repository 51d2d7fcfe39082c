// Package runloop provides the scheduling contexts sequences run on.
//
// Sequence state is never locked. Instead, every callback that touches it
// (timer fires, animation completions, start and cancel calls) is funnelled
// onto a single goroutine. This package offers two such contexts, both of
// which implement api.Timer:
//
//   - RunLoop drains a task queue on the goroutine that calls Run and backs
//     timers with time.AfterFunc. Other goroutines reach it through Post
//     (fire and forget) or Do (run and wait).
//   - ManualLoop runs nothing on its own. Its owner advances a virtual clock
//     with Step, Advance or Drain, which makes timing in tests exact.
//
// # Usage
//
//	loop := runloop.New(runloop.DefaultConfig())
//	go loop.Run(ctx)
//
//	_ = loop.Do(ctx, func() {
//	    director.NewSequence("intro").
//	        Animate(300*time.Millisecond, fadeIn).
//	        Start()
//	})
package runloop
