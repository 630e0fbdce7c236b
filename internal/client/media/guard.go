package media

import "sync"

// OperationGuard tracks entity ids with a mutating request in flight,
// guaranteeing at most one concurrent mutation per id (a double-click fires
// one request, not two). An id is acquired synchronously before the request
// is dispatched and must be released on every exit path, success or failure.
type OperationGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewOperationGuard() *OperationGuard {
	return &OperationGuard{inFlight: make(map[string]struct{})}
}

// TryAcquire marks id as in flight. It returns false if a mutation on the
// same id is already outstanding.
func (g *OperationGuard) TryAcquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inFlight[id]; ok {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

// Release clears the in-flight marker for id.
func (g *OperationGuard) Release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, id)
}

// Pending reports whether id has an outstanding mutation. Exposed so UI can
// disable controls on busy items.
func (g *OperationGuard) Pending(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inFlight[id]
	return ok
}
