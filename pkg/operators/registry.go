package operators

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/travigo/etastation/pkg/ctdf"
	"github.com/travigo/etastation/pkg/eta"
	"github.com/travigo/etastation/pkg/metadata"
	"golang.org/x/exp/slices"
)

var ErrUnknownOperator = errors.New("operator is not registered")

// Operator pairs the metadata store and live normalizer of one transit
// company or mode under its identifier
type Operator struct {
	ctdf.Operator

	Store      metadata.Store `json:"-"`
	Normalizer eta.Normalizer `json:"-"`
}

type Registry struct {
	mu        sync.RWMutex
	operators map[ctdf.OperatorID]*Operator
	logger    zerolog.Logger
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		operators: map[ctdf.OperatorID]*Operator{},
		logger:    logger,
	}
}

func (r *Registry) Register(operator *Operator) error {
	if operator == nil || operator.Identifier == "" {
		return errors.New("operator has no identifier")
	}
	if operator.Store == nil || operator.Normalizer == nil {
		return fmt.Errorf("operator %s needs both a store and a normalizer", operator.Identifier)
	}
	if operator.Store.Operator() != operator.Identifier || operator.Normalizer.Operator() != operator.Identifier {
		return fmt.Errorf("operator %s has parts registered for another operator", operator.Identifier)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.operators[operator.Identifier]; exists {
		return fmt.Errorf("operator %s is already registered", operator.Identifier)
	}
	r.operators[operator.Identifier] = operator

	r.logger.Debug().Str("operator", string(operator.Identifier)).Msg("Registering new Operator")

	return nil
}

func (r *Registry) Lookup(identifier ctdf.OperatorID) (*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	operator, exists := r.operators[identifier]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, identifier)
	}
	return operator, nil
}

// List returns the registered operators ordered by identifier
func (r *Registry) List() []*Operator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	operators := make([]*Operator, 0, len(r.operators))
	for _, operator := range r.operators {
		operators = append(operators, operator)
	}

	slices.SortFunc(operators, func(a, b *Operator) int {
		switch {
		case a.Identifier < b.Identifier:
			return -1
		case a.Identifier > b.Identifier:
			return 1
		}
		return 0
	})

	return operators
}
