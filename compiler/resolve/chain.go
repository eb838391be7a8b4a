package resolve

import (
	"go.uber.org/zap"

	"github.com/syssam/modelgen"
)

// Strategy resolves a raw type name, or declines by returning false. A strategy
// may delegate sub-lookups (e.g. generic parameters) back to the chain.
type Strategy interface {
	TryResolve(c *Chain, name string) (Type, bool)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(c *Chain, name string) (Type, bool)

// TryResolve calls f(c, name).
func (f StrategyFunc) TryResolve(c *Chain, name string) (Type, bool) { return f(c, name) }

// Chain dispatches a type name to an ordered list of strategies. The first
// strategy that resolves the name wins.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithLogger sets the logger used to trace resolution attempts.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChain returns a chain trying the strategies in the given order.
func NewChain(strategies []Strategy, opts ...Option) *Chain {
	c := &Chain{
		strategies: append([]Strategy(nil), strategies...),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the type for name, or an *modelgen.UnresolvedTypeError if no
// strategy recognizes it.
func (c *Chain) Resolve(name string) (Type, error) {
	if t, ok := c.TryResolve(name); ok {
		return t, nil
	}
	return nil, modelgen.NewUnresolvedTypeError(name)
}

// TryResolve returns the type for name and true, or nil and false.
func (c *Chain) TryResolve(name string) (Type, bool) {
	if name == "" {
		return nil, false
	}
	for i, s := range c.strategies {
		t, ok := s.TryResolve(c, name)
		c.logger.Debug("resolve type",
			zap.String("name", name),
			zap.Int("strategy", i),
			zap.Bool("resolved", ok),
		)
		if ok {
			return t, true
		}
	}
	return nil, false
}

// Logger returns the logger of the chain.
func (c *Chain) Logger() *zap.Logger { return c.logger }
