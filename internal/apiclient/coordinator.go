package apiclient

import "sync"

type refreshResult struct {
	token string
	err   error
}

// coordinator makes sure only one refresh runs per credential scope. Requests
// that hit a 401 while a refresh is underway are parked until it settles.
type coordinator struct {
	lock       sync.Mutex
	refreshing bool
	queue      []chan refreshResult
}

// acquire either makes the caller the leader of a new refresh or parks it. A
// parked caller receives exactly one result on the returned channel.
func (c *coordinator) acquire() (<-chan refreshResult, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.refreshing {
		wait := make(chan refreshResult, 1)
		c.queue = append(c.queue, wait)
		return wait, false
	}
	c.refreshing = true
	return nil, true
}

// settle hands the outcome to every parked caller in FIFO order and reopens the
// coordinator for the next refresh cycle.
func (c *coordinator) settle(token string, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, wait := range c.queue {
		// buffered, so abandoned waiters never block the leader
		wait <- refreshResult{token: token, err: err}
	}
	c.queue = nil
	c.refreshing = false
}

func (c *coordinator) inProgress() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.refreshing
}

func (c *coordinator) parked() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.queue)
}
