package resolve

import "testing"

func TestEachBatchVisitsEveryIndexInOrder(t *testing.T) {
	const n = 250
	var visited []int
	completed := 0
	EachBatch(n, func(i int) Signal {
		visited = append(visited, i)
		return Next
	}, func() {
		completed++
	})
	if len(visited) != n {
		t.Fatalf("process ran %v times, expected %v", len(visited), n)
	}
	for i, got := range visited {
		if got != i {
			t.Fatalf("index %v visited out of order (got %v)", i, got)
		}
	}
	if completed != 1 {
		t.Fatalf("onComplete ran %v times, expected 1", completed)
	}
}

func TestEachBatchStop(t *testing.T) {
	var visited []int
	completed := 0
	EachBatch(10, func(i int) Signal {
		visited = append(visited, i)
		if i == 3 {
			return Stop
		}
		return Next
	}, func() {
		completed++
	})
	if len(visited) != 4 {
		t.Fatalf("process ran %v times, expected 4", len(visited))
	}
	if completed != 0 {
		t.Fatalf("onComplete ran after Stop")
	}
}

func TestEachBatchStopComplete(t *testing.T) {
	var visited []int
	completed := 0
	EachBatch(10, func(i int) Signal {
		visited = append(visited, i)
		return StopComplete
	}, func() {
		completed++
	})
	if len(visited) != 1 {
		t.Fatalf("process ran %v times, expected 1", len(visited))
	}
	if completed != 1 {
		t.Fatalf("onComplete ran %v times, expected 1", completed)
	}
}

func TestEachBatchEmpty(t *testing.T) {
	completed := 0
	EachBatch(0, func(i int) Signal {
		t.Fatalf("process ran for empty range (index %v)", i)
		return Next
	}, func() {
		completed++
	})
	if completed != 1 {
		t.Fatalf("onComplete ran %v times, expected 1", completed)
	}
	EachBatch(-1, nil, func() { completed++ })
	if completed != 2 {
		t.Fatalf("onComplete did not run for negative count")
	}
}

func TestEachBatchProcessPanic(t *testing.T) {
	var visited []int
	completed := 0
	EachBatch(10, func(i int) Signal {
		visited = append(visited, i)
		if i == 2 {
			panic("broken callback")
		}
		return Next
	}, func() {
		completed++
	})
	if len(visited) != 3 {
		t.Fatalf("process ran %v times, expected 3", len(visited))
	}
	if completed != 1 {
		t.Fatalf("onComplete ran %v times after panic, expected 1", completed)
	}
}
