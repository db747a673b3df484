package wallet

import (
	"fmt"
	"sort"
	"sync"

	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
	"go.uber.org/zap"
)

// Registry initializes wallet backends up front and keeps the ones that
// failed marked unavailable instead of crashing. Connect actions refuse a
// backend until its build succeeded.
type Registry struct {
	mu         sync.Mutex
	strategies map[string]ports.WalletStrategy
	failures   map[string]error
	log        *zap.Logger
}

var _ ports.StrategyRegistry = (*Registry)(nil)

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}

	return &Registry{
		strategies: map[string]ports.WalletStrategy{},
		failures:   map[string]error{},
		log:        log,
	}
}

// Register builds a backend and records the outcome under name.
func (r *Registry) Register(name string, build func() (ports.WalletStrategy, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	strategy, err := build()
	if err != nil {
		r.failures[name] = err
		delete(r.strategies, name)
		r.log.Warn("wallet strategy unavailable", zap.String("strategy", name), zap.Error(err))
		return
	}

	r.strategies[name] = strategy
	delete(r.failures, name)
}

func (r *Registry) Strategy(name string) (ports.WalletStrategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	if err, ok := r.failures[name]; ok {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStrategyUnavailable, name, err)
	}

	return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrStrategyUnavailable, name)
}

// Ready reports whether every registered backend initialized.
func (r *Registry) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.failures) == 0 && len(r.strategies) > 0
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
