package resolve

import (
	"log"
	"runtime"
)

// Signal is returned by an EachBatch callback to control iteration.
type Signal int

const (
	Next         Signal = iota // keep iterating
	Stop                       // stop now, skip onComplete
	StopComplete               // stop now, still run onComplete
)

// yieldEvery is how often EachBatch yields to the scheduler.
const yieldEvery = 100

// EachBatch drives process(i) for i in [0,n) in strictly ascending
// order, then runs onComplete exactly once. Every 100th index it
// yields the processor, so resolving a transaction with thousands of
// outputs never monopolizes the scheduler. If process panics the run
// ends at that index with a diagnostic; onComplete still runs once.
func EachBatch(n int, process func(i int) Signal, onComplete func()) {
	complete := true
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Batch] process failed: %v", r)
		}
		if complete && onComplete != nil {
			onComplete()
		}
	}()
	for i := 0; i < n; i++ {
		if i%yieldEvery == 0 {
			runtime.Gosched()
		}
		switch process(i) {
		case Stop:
			complete = false
			return
		case StopComplete:
			return
		}
	}
}
