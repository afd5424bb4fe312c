package kexec

import "testing"

func TestTaskQueueFIFOOrder(t *testing.T) {
	var q taskQueue
	a := NewTask(func(w *Waker) Poll { return Ready })
	b := NewTask(func(w *Waker) Poll { return Ready })

	q.pushBack(a)
	q.pushBack(b)

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	first, ok := q.popFront()
	if !ok || first.ID() != a.ID() {
		t.Fatal("expected a to come out first")
	}
	second, ok := q.popFront()
	if !ok || second.ID() != b.ID() {
		t.Fatal("expected b to come out second")
	}
	if _, ok := q.popFront(); ok {
		t.Fatal("expected empty queue")
	}
}
