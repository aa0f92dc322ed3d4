package pool

import "sync"

// Lanes is a fixed set of workers where each job is pinned to one lane by key.
// Jobs sharing a key run one at a time in submission order.
type Lanes struct {
	lanes []chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// New starts n lanes, each with a buffer of depth pending jobs.
func New(n, depth int) *Lanes {
	if n < 1 {
		n = 1
	}
	if depth < 0 {
		depth = 0
	}
	l := &Lanes{lanes: make([]chan func(), n)}
	l.wg.Add(n)
	for i := range l.lanes {
		ch := make(chan func(), depth)
		l.lanes[i] = ch
		go func() {
			defer l.wg.Done()
			for f := range ch {
				if f != nil {
					f()
				}
			}
		}()
	}
	return l
}

func (l *Lanes) Size() int { return len(l.lanes) }

// Submit blocks while the target lane's buffer is full.
func (l *Lanes) Submit(key int, f func()) {
	if key < 0 {
		key = -key
	}
	l.lanes[key%len(l.lanes)] <- f
}

// Close stops accepting jobs; queued jobs still run.
func (l *Lanes) Close() {
	l.once.Do(func() {
		for _, ch := range l.lanes {
			close(ch)
		}
	})
}

func (l *Lanes) Wait() {
	l.wg.Wait()
}
