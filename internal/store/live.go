package store

import "sync"

// subscribe registers a change listener for the given collections and
// returns its id and notification channel. Sends never block; a slow
// listener simply coalesces notifications.
func (s *Store) subscribe(cols ...Collection) (int, chan Collection) {
	interested := make(map[Collection]bool, len(cols))
	for _, c := range cols {
		interested[c] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	ch := make(chan Collection, 8)
	s.subs[id] = subscriber{ch: ch, cols: interested}
	return id, ch
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// notify wakes every subscriber interested in any of the changed collections.
func (s *Store) notify(cols ...Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		for _, c := range cols {
			if !sub.cols[c] {
				continue
			}
			select {
			case sub.ch <- c:
			default:
			}
			break
		}
	}
}

// LiveQuery re-evaluates a read function whenever any collection it depends
// on changes, caching the most recent successful result for synchronous
// reads. Until the first evaluation completes, Result reports not-loaded
// rather than returning stale data.
type LiveQuery[T any] struct {
	store *Store
	read  func() (T, error)
	subID int
	ch    chan Collection
	stop  chan struct{}
	done  chan struct{}

	mu     sync.RWMutex
	result T
	loaded bool
}

// NewLiveQuery starts a live query over the given collections. The read
// function runs once immediately and again after every dependent write.
func NewLiveQuery[T any](s *Store, read func() (T, error), cols ...Collection) *LiveQuery[T] {
	q := &LiveQuery[T]{
		store: s,
		read:  read,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	q.subID, q.ch = s.subscribe(cols...)
	go q.loop()
	return q
}

func (q *LiveQuery[T]) loop() {
	defer close(q.done)
	_ = q.Refresh()

	for {
		select {
		case <-q.stop:
			return
		case <-q.ch:
			// Coalesce any queued notifications into one re-evaluation.
			for {
				select {
				case <-q.ch:
					continue
				default:
				}
				break
			}
			_ = q.Refresh()
		}
	}
}

// Refresh re-runs the read function now. A failed read keeps the previous
// good result.
func (q *LiveQuery[T]) Refresh() error {
	v, err := q.read()
	if err != nil {
		return err
	}
	q.mu.Lock()
	q.result = v
	q.loaded = true
	q.mu.Unlock()
	return nil
}

// Result returns the most recent successful query result. The second return
// is false until the first evaluation has completed.
func (q *LiveQuery[T]) Result() (T, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.result, q.loaded
}

// Close stops re-evaluation and releases the subscription.
func (q *LiveQuery[T]) Close() {
	q.store.unsubscribe(q.subID)
	close(q.stop)
	<-q.done
}
