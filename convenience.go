package equeue

// Call schedules fn to run as soon as Dispatch next processes a batch,
// with arg passed through unchanged. It is a thin facade over
// Alloc+Post for callers who don't need to write into the event's payload
// bytes.
func (q *Queue) Call(fn func(any), arg any) (EventID, error) {
	e, err := q.Alloc(0)
	if err != nil {
		return 0, err
	}
	return q.Post(e, fn, arg)
}

// CallIn schedules fn to run once, d ticks from now.
func (q *Queue) CallIn(d uint32, fn func(any), arg any) (EventID, error) {
	e, err := q.Alloc(0)
	if err != nil {
		return 0, err
	}
	e.Delay(d)
	return q.Post(e, fn, arg)
}

// CallEvery schedules fn to run every p ticks, starting p ticks from now.
func (q *Queue) CallEvery(p uint32, fn func(any), arg any) (EventID, error) {
	e, err := q.Alloc(0)
	if err != nil {
		return 0, err
	}
	e.Period(p)
	return q.Post(e, fn, arg)
}
