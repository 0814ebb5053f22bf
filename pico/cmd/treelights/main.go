// Command treelights is the standalone firmware: it animates both strips
// without a host attached.
package main

import (
	"context"
	"machine"
	"time"

	"libdb.so/treeglow/internal/anim"
	"libdb.so/treeglow/pico/strip"
)

const (
	treePin = machine.GPIO16
	skyPin  = machine.GPIO17
)

func main() {
	tree := strip.New(treePin, anim.NumLEDs)
	sky := strip.New(skyPin, anim.NumLEDs)

	clock := anim.SystemClock()
	ctx := context.Background()

	go loop(func() error { return anim.RunSky(ctx, sky, clock) })
	loop(func() error { return anim.RunTree(ctx, tree, clock, anim.Hooks{}) })
}

// loop restarts run whenever it fails. There is no one to report the error
// to, so the strip just goes dark for a moment.
func loop(run func() error) {
	for {
		if err := run(); err != nil {
			println("animation failed:", err.Error())
		}
		time.Sleep(time.Second)
	}
}
