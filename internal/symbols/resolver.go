// Package symbols completes symbolic member references: it picks the
// accessible field, method or constructor a reference denotes, ranking
// overloads by conversion distance.
package symbols

import (
	"fmt"
	"sort"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// Resolver resolves member references against an Env.
type Resolver struct {
	env typesystem.Env
}

func NewResolver(env typesystem.Env) *Resolver {
	return &Resolver{env: env}
}

// ImpliedOwner returns the receiver type of an instance call whose owner is
// not named: the operand stack entry below the arity arguments.
func ImpliedOwner(stack []typesystem.Type, arity int, static bool) (typesystem.Type, error) {
	if static {
		return typesystem.Type{}, typesystem.NewUsageError("a static reference cannot take its owner from the operand stack")
	}
	idx := len(stack) - (arity + 1)
	if idx < 0 {
		return typesystem.Type{}, typesystem.NewUsageError(fmt.Sprintf("no receiver on the operand stack for a call with %d arguments (stack size %d)", arity, len(stack)))
	}
	return stack[idx], nil
}

type candidate struct {
	method   *typesystem.Method
	distance int
}

// ResolveMethod returns the method or constructor ref denotes. The supplied
// parameter types are ref.Params when set, otherwise args.
//
// Constructors and static methods are searched on the exact owner only.
// Instance methods are searched along the owner's hierarchy order, stopping
// at the first type with an accessible candidate. Among candidates the one
// with the smallest summed conversion distance wins; ties keep declaration
// order.
func (r *Resolver) ResolveMethod(ref typesystem.MethodRef, args []typesystem.Type) (*typesystem.Method, error) {
	supplied := ref.Params
	if supplied == nil {
		supplied = args
	}
	if ref.Owner.IsZero() {
		return nil, typesystem.NewUsageError(fmt.Sprintf("reference to %s has no owner", ref.Name))
	}

	kind := "method"
	owners := []typesystem.Type{ref.Owner}
	if ref.IsConstructor() {
		kind = "constructor"
	} else if !ref.Static {
		order, err := typesystem.Hierarchy(r.env, ref.Owner)
		if err != nil {
			return nil, err
		}
		owners = order
	}

	for _, owner := range owners {
		var declared []*typesystem.Method
		var err error
		if ref.IsConstructor() {
			declared, err = typesystem.DeclaredConstructors(r.env, owner)
		} else {
			declared, err = typesystem.DeclaredMethods(r.env, owner)
		}
		if err != nil {
			if owner == ref.Owner && !owner.IsArray() {
				return nil, err
			}
			// Arrays and ancestors missing from the catalog declare nothing.
			continue
		}

		best := r.pick(declared, ref.Name, supplied)
		if best == nil {
			continue
		}
		if !ref.IsConstructor() {
			if err := checkStatic(r.env, best, ref.Static); err != nil {
				return nil, err
			}
		}
		return best, nil
	}
	return nil, typesystem.NewResolutionError(typesystem.DisplayName(r.env, ref.Owner), kind, ref.Name, supplied)
}

// pick returns the closest accessible candidate among declared, or nil.
func (r *Resolver) pick(declared []*typesystem.Method, name string, supplied []typesystem.Type) *typesystem.Method {
	var cands []candidate
	for _, m := range declared {
		if m.Name != name || len(m.Params) != len(supplied) {
			continue
		}
		total, ok := r.distance(supplied, m.Params)
		if !ok {
			continue
		}
		cands = append(cands, candidate{method: m, distance: total})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].distance < cands[j].distance })
	for _, c := range cands {
		if Accessible(r.env, c.method.Owner, c.method.Modifiers) {
			return c.method
		}
	}
	return nil
}

func (r *Resolver) distance(supplied, declared []typesystem.Type) (int, bool) {
	total := 0
	for i, want := range declared {
		have := supplied[i]
		if !typesystem.CanConvert(r.env, have, want) {
			return 0, false
		}
		d, ok := typesystem.ConversionDistance(r.env, have, want)
		if !ok {
			return 0, false
		}
		total += d
	}
	return total, true
}

func checkStatic(env typesystem.Env, m *typesystem.Method, static bool) error {
	owner := typesystem.DisplayName(env, m.Owner)
	if static && !m.IsStatic() {
		return typesystem.NewUsageError(fmt.Sprintf("instance method %s.%s%s referenced statically", owner, m.Name, typesystem.TypeList(m.Params)))
	}
	if !static && m.IsStatic() {
		return typesystem.NewUsageError(fmt.Sprintf("static method %s.%s%s referenced through an instance", owner, m.Name, typesystem.TypeList(m.Params)))
	}
	return nil
}

// ResolveField returns the field ref denotes. Static references search the
// exact owner; instance references search the owner's hierarchy order.
func (r *Resolver) ResolveField(ref typesystem.FieldRef) (*typesystem.Field, error) {
	if ref.Owner.IsZero() {
		return nil, typesystem.NewUsageError(fmt.Sprintf("reference to field %s has no owner", ref.Name))
	}
	owners := []typesystem.Type{ref.Owner}
	if !ref.Static {
		order, err := typesystem.Hierarchy(r.env, ref.Owner)
		if err != nil {
			return nil, err
		}
		owners = order
	}
	for _, owner := range owners {
		fields, err := typesystem.DeclaredFields(r.env, owner)
		if err != nil {
			if owner == ref.Owner && !owner.IsArray() {
				return nil, err
			}
			continue
		}
		for _, f := range fields {
			if f.Name != ref.Name || !Accessible(r.env, f.Owner, f.Modifiers) {
				continue
			}
			display := typesystem.DisplayName(r.env, f.Owner)
			if ref.Static && !f.IsStatic() {
				return nil, typesystem.NewUsageError(fmt.Sprintf("instance field %s.%s referenced statically", display, f.Name))
			}
			if !ref.Static && f.IsStatic() {
				return nil, typesystem.NewUsageError(fmt.Sprintf("static field %s.%s referenced through an instance", display, f.Name))
			}
			return f, nil
		}
	}
	return nil, typesystem.NewResolutionError(typesystem.DisplayName(r.env, ref.Owner), "field", ref.Name, nil)
}
