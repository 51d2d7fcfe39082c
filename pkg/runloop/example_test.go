package runloop_test

import (
	"fmt"
	"time"

	"github.com/petrijr/sequencer/pkg/runloop"
)

// ExampleManualLoop shows how virtual time drives scheduled callbacks.
func ExampleManualLoop() {
	loop := runloop.NewManual()

	loop.ScheduleOnce(500*time.Millisecond, func() {
		fmt.Println("half a second in:", loop.Now())
	})
	loop.Post(func() {
		fmt.Println("right away:", loop.Now())
	})

	loop.Advance(time.Second)

	// Output:
	// right away: 0s
	// half a second in: 500ms
}
