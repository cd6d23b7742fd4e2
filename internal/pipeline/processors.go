package pipeline

import (
	"fmt"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/build"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/codegen"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// ValidateProcessor rejects malformed input before anything is generated.
type ValidateProcessor struct{}

func (vp *ValidateProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Err != nil {
		return ctx
	}
	if ctx.Class == nil {
		ctx.Err = typesystem.NewUsageError("class description is required")
		return ctx
	}
	if err := ctx.Class.Validate(); err != nil {
		ctx.Err = err
		return ctx
	}
	seen := make(map[*typesystem.Method]bool)
	for _, body := range ctx.Bodies {
		if err := validateBody(ctx.Class, body, seen); err != nil {
			ctx.Err = err
			return ctx
		}
	}
	return ctx
}

func validateBody(class *typesystem.ClassDef, body Body, seen map[*typesystem.Method]bool) error {
	m := body.Method
	if m == nil {
		return typesystem.NewUsageError("body without a method")
	}
	if !declares(class, m) {
		return typesystem.NewUsageError(fmt.Sprintf("%s is not declared by %s", m, class.Name))
	}
	if seen[m] {
		return typesystem.NewUsageError(fmt.Sprintf("%s has more than one body", m))
	}
	seen[m] = true
	if len(body.Params) > len(m.Params) {
		return typesystem.NewUsageError(fmt.Sprintf("%d parameter names given for %s", len(body.Params), m))
	}
	for _, n := range body.Code {
		if err := codegen.Validate(n); err != nil {
			return err
		}
	}
	return nil
}

func declares(class *typesystem.ClassDef, m *typesystem.Method) bool {
	for _, list := range [][]*typesystem.Method{class.Constructors, class.Methods} {
		for _, d := range list {
			if d == m {
				return true
			}
		}
	}
	return false
}

// BuildProcessor generates every body inside one build context and collects
// the class artifact.
type BuildProcessor struct{}

func (bp *BuildProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Err != nil {
		return ctx
	}
	b, err := build.New(ctx.Class, ctx.Catalog, ctx.Options)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Build = b
	err = b.Generate(func() error {
		for _, body := range ctx.Bodies {
			if err := b.BeginMethod(body.Method, body.Params...); err != nil {
				return err
			}
			for _, n := range body.Code {
				if err := n.Emit(b); err != nil {
					return fmt.Errorf("%s: %w", body.Method, err)
				}
			}
			if _, err := b.EndMethod(); err != nil {
				return err
			}
		}
		artifact, err := b.Artifact()
		if err != nil {
			return err
		}
		ctx.Artifact = artifact
		return nil
	})
	if err != nil {
		ctx.Err = err
	}
	return ctx
}

// EncodeProcessor encodes the artifact for the class-file writer.
type EncodeProcessor struct{}

func (ep *EncodeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Err != nil {
		return ctx
	}
	if ctx.Artifact == nil {
		ctx.Err = typesystem.NewUsageError("nothing to encode: the class was not built")
		return ctx
	}
	ctx.Wire, ctx.Err = ctx.Artifact.MarshalWire()
	return ctx
}
