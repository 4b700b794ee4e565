package sim

import "github.com/panyam/qsim/core"

// event pairs a virtual timestamp with the continuation to resume there.
// seq breaks timestamp ties in schedule order so that replays of the same
// seed dispatch in exactly the same order.
type event struct {
	at  core.Duration
	seq uint64
	fn  func()
}

// eventQueue is a min-heap of pending events ordered by (at, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}
