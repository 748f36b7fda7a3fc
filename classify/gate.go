package classify

// Gate is an admission gate bounding the number of scoring executions in
// flight at any time.  The pipeline uses a capacity of one, encoding "at
// most one inference in flight" to bound CPU contention from concurrent
// scoring calls.
type Gate struct {
	// tokens holds one token per admission slot
	tokens chan struct{}
}

// NewGate creates a gate admitting up to capacity concurrent executions
func NewGate(capacity int) *Gate {

	g := &Gate{
		tokens: make(chan struct{}, capacity),
	}

	for i := 0; i < capacity; i++ {
		g.tokens <- struct{}{}
	}

	return g
}

// TryAcquire takes an admission token without blocking.  It returns false
// when all tokens are in flight, the caller skips its cycle.
func (g *Gate) TryAcquire() bool {
	select {
	case <-g.tokens:
		return true
	default:
		return false
	}
}

// Acquire blocks until an admission token is available
func (g *Gate) Acquire() {
	<-g.tokens
}

// Release returns an admission token to the gate
func (g *Gate) Release() {
	select {
	case g.tokens <- struct{}{}:
	default:
		// more releases than acquires
	}
}
