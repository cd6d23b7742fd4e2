// Package build holds the mutable state of one class generation: the type
// under construction, and for the method currently being generated its
// operand stack, local slot table and instruction stream.
package build

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// Context is the build context of one class. It implements typesystem.Env:
// the self type resolves to the class under construction, but only while a
// Generate call is in progress.
//
// A Context is used by a single goroutine and discarded after the class is
// generated.
type Context struct {
	self    *typesystem.ClassDef
	catalog typesystem.Catalog
	opts    *config.Options
	id      uuid.UUID
	logger  *log.Logger

	active  bool
	method  *methodScope
	methods []*vm.Method
}

// New creates the context for generating self against catalog. A nil opts
// uses config.DefaultOptions.
func New(self *typesystem.ClassDef, catalog typesystem.Catalog, opts *config.Options) (*Context, error) {
	if self == nil {
		return nil, typesystem.NewUsageError("a build needs the description of the type under construction")
	}
	if catalog == nil {
		return nil, typesystem.NewUsageError("a build needs a catalog")
	}
	if err := self.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = config.DefaultOptions()
	}
	c := &Context{
		self:    self,
		catalog: catalog,
		opts:    opts,
		id:      uuid.New(),
	}
	var out io.Writer = io.Discard
	if opts.Trace {
		out = os.Stderr
	}
	c.logger = log.New(out, fmt.Sprintf("[build %s] ", c.id.String()[:8]), 0)
	return c, nil
}

// ID returns the unique id of this build.
func (c *Context) ID() uuid.UUID { return c.id }

// Options returns the options the build runs with.
func (c *Context) Options() *config.Options { return c.opts }

// SetLogOutput redirects trace output.
func (c *Context) SetLogOutput(w io.Writer) {
	c.logger.SetOutput(w)
}

// Tracef logs a trace line when tracing is enabled.
func (c *Context) Tracef(format string, args ...any) {
	if c.opts.Trace {
		c.logger.Printf(format, args...)
	}
}

// Class looks a type up in the catalog.
func (c *Context) Class(name string) (*typesystem.ClassDef, bool) {
	return c.catalog.Class(name)
}

// Self returns the type under construction, or nil outside Generate.
func (c *Context) Self() *typesystem.ClassDef {
	if !c.active {
		return nil
	}
	return c.self
}

// Active reports whether a Generate call is in progress.
func (c *Context) Active() bool { return c.active }

// Generate runs fn as the active build window. Every method-scope operation
// fails outside the window, and the window is closed on every exit path,
// including panics. Generate is not reentrant.
func (c *Context) Generate(fn func() error) (err error) {
	if c.active {
		return typesystem.NewUsageError("a build is already active on this context")
	}
	c.active = true
	c.Tracef("begin %s", c.self.Name)
	defer func() {
		if err == nil && c.method != nil {
			err = typesystem.NewUsageError(fmt.Sprintf("method %s was not finished", c.method.sig.Name))
		}
		c.active = false
		c.method = nil
		c.Tracef("end %s", c.self.Name)
	}()
	return fn()
}

func (c *Context) requireActive() error {
	if !c.active {
		return typesystem.NewUsageError("no active build")
	}
	return nil
}

func (c *Context) requireMethod() (*methodScope, error) {
	if err := c.requireActive(); err != nil {
		return nil, err
	}
	if c.method == nil {
		return nil, typesystem.NewUsageError("no method is being generated")
	}
	return c.method, nil
}

// Artifact assembles the class artifact from the type under construction and
// every method finished so far.
func (c *Context) Artifact() (*vm.Class, error) {
	if err := c.requireActive(); err != nil {
		return nil, err
	}
	super, _, err := typesystem.Supertype(c, typesystem.Self)
	if err != nil {
		return nil, err
	}
	cls := &vm.Class{
		BuildID:   c.id.String(),
		Name:      typesystem.InternalName(c, typesystem.Self),
		Modifiers: uint16(c.self.Modifiers),
		Methods:   append([]*vm.Method(nil), c.methods...),
	}
	switch {
	case !super.IsZero():
		cls.Super = typesystem.InternalName(c, super)
	case c.self.Name != config.ObjectClassName:
		// Interfaces extend Object in the class file.
		cls.Super = typesystem.InternalName(c, typesystem.Object)
	}
	for _, iface := range c.self.Interfaces {
		cls.Interfaces = append(cls.Interfaces, typesystem.InternalName(c, iface))
	}
	for _, f := range c.self.Fields {
		cls.Fields = append(cls.Fields, vm.Field{
			Name:      f.Name,
			Desc:      typesystem.Descriptor(c, f.Type),
			Modifiers: uint16(f.Modifiers),
		})
	}
	return cls, nil
}
