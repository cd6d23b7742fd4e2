package codegen

import (
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// Chain is an ordered run of nodes emitted one after another, where each
// step after the first works on the value the previous step left on the
// operand stack. Chains are immutable: every composition method returns a
// new chain and leaves the receiver untouched.
type Chain struct {
	nodes []Node
	err   error
}

// NewChain starts a chain with the given nodes.
func NewChain(nodes ...Node) *Chain {
	c := &Chain{nodes: append([]Node(nil), nodes...)}
	if len(nodes) == 0 {
		c.err = usagef("chain needs at least one node")
	} else {
		c.err = requireNodes("chain node", nodes...)
	}
	return c
}

// Then appends n.
func (c *Chain) Then(n Node) *Chain {
	next := &Chain{nodes: make([]Node, len(c.nodes), len(c.nodes)+1), err: c.err}
	copy(next.nodes, c.nodes)
	next.nodes = append(next.nodes, n)
	if next.err == nil && n == nil {
		next.err = usagef("chain node %d is required", len(next.nodes))
	}
	return next
}

// Invoke calls an instance method on the current value.
func (c *Chain) Invoke(name string, args ...Node) *Chain {
	return c.Then(Invoke(nil, name, args...))
}

// InvokeRef calls the instance method ref denotes on the current value.
func (c *Chain) InvokeRef(ref typesystem.MethodRef, args ...Node) *Chain {
	return c.Then(InvokeRef(nil, ref, args...))
}

// Get reads a field of the current value.
func (c *Chain) Get(name string) *Chain {
	return c.Then(GetField(nil, name))
}

// Set stores value into a field of the current value.
func (c *Chain) Set(name string, value Node) *Chain {
	return c.Then(SetField(nil, name, value))
}

func (c *Chain) Cast(to typesystem.Type) *Chain    { return c.Then(Cast(nil, to)) }
func (c *Chain) Convert(to typesystem.Type) *Chain { return c.Then(Convert(nil, to)) }
func (c *Chain) Pop() *Chain                       { return c.Then(Pop(nil)) }

// First returns the head of the chain.
func (c *Chain) First() Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[0]
}

// Nodes returns a copy of the chain's nodes in emission order.
func (c *Chain) Nodes() []Node { return append([]Node(nil), c.nodes...) }

func (c *Chain) Len() int { return len(c.nodes) }

func (c *Chain) check() error { return checkAll(c.err, c.nodes...) }

func (c *Chain) Emit(ctx *build.Context) error {
	if c.err != nil {
		return c.err
	}
	for _, n := range c.nodes {
		if err := n.Emit(ctx); err != nil {
			return err
		}
	}
	return nil
}
