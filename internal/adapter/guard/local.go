package guard

import (
	"context"
	"sync"

	"clockify-button/internal/domain"
)

// Local disables the button for the duration of a run within one process.
type Local struct {
	mu sync.Mutex
}

func NewLocal() *Local { return &Local{} }

func (l *Local) Acquire(_ context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, domain.ErrBusy
	}
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, nil
}
