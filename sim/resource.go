package sim

// Resource arbitrates exclusive access to a single service channel.
// Requests are granted in FIFO order, with no preemption and no
// priorities. Grants are delivered as zero-delay events, so a waiter only
// ever resumes from inside the scheduler's dispatch loop; nothing
// busy-waits.
type Resource struct {
	sched   *Scheduler
	busy    bool
	waiting []func()
}

func NewResource(sched *Scheduler) *Resource {
	return &Resource{sched: sched}
}

// Request asks for the resource. The grant continuation runs, via the
// scheduler at the current timestamp, once this caller holds the
// resource: immediately when it is free, otherwise after every request
// ahead of it in the line has been granted and released.
func (r *Resource) Request(grant func()) {
	if !r.busy {
		r.busy = true
		r.sched.Schedule(0, grant)
		return
	}
	r.waiting = append(r.waiting, grant)
}

// Release frees the resource or, when the line is non-empty, hands it
// straight to the head request. Only the current holder may call Release.
func (r *Resource) Release() {
	if len(r.waiting) > 0 {
		next := r.waiting[0]
		r.waiting = r.waiting[1:]
		r.sched.Schedule(0, next)
		return
	}
	r.busy = false
}

// InUse reports whether the resource is currently held.
func (r *Resource) InUse() bool {
	return r.busy
}

// QueueLen returns the number of requests waiting for a grant.
func (r *Resource) QueueLen() int {
	return len(r.waiting)
}
