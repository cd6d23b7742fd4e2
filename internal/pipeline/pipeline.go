package pipeline

import (
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/codegen"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/vm"
)

// Processor is one stage of generation.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Body is the code of one constructor or method of the class being generated.
type Body struct {
	Method *typesystem.Method
	Params []string // parameter names, in order; may be shorter than Method.Params
	Code   []codegen.Node
}

// PipelineContext carries a class through the stages. Err holds the first
// failure; stages after it do nothing.
type PipelineContext struct {
	Class   *typesystem.ClassDef
	Bodies  []Body
	Catalog typesystem.Catalog
	Options *config.Options

	Build    *build.Context
	Artifact *vm.Class
	Wire     []byte

	Err error
}

func NewPipelineContext(class *typesystem.ClassDef, catalog typesystem.Catalog, opts *config.Options) *PipelineContext {
	return &PipelineContext{Class: class, Catalog: catalog, Options: opts}
}

// AddBody appends the code of method m.
func (c *PipelineContext) AddBody(m *typesystem.Method, params []string, code ...codegen.Node) *PipelineContext {
	c.Bodies = append(c.Bodies, Body{Method: m, Params: params, Code: code})
	return c
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Default returns the validate, build and encode stages.
func Default() *Pipeline {
	return New(&ValidateProcessor{}, &BuildProcessor{}, &EncodeProcessor{})
}

// Run executes the pipeline, stopping at the first stage that fails.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Err != nil {
			// No partial artifact leaves a failed run.
			ctx.Artifact = nil
			ctx.Wire = nil
			break
		}
	}
	return ctx
}
