package typesystem

// Hierarchy returns the search order of t: t itself, then each of its
// interfaces recursively, then its supertype, repeating for every supertype.
// Every type appears once, at its first position; java.lang.Object closes the
// order of every reference type. Arrays order as array, Cloneable,
// Serializable, Object.
//
// Ancestors missing from the catalog are listed but not descended into.
func Hierarchy(env Env, t Type) ([]Type, error) {
	if t.IsArray() {
		return []Type{t, Cloneable, Serializable, Object}, nil
	}
	if _, err := Lookup(env, t); err != nil {
		return nil, err
	}

	var order []Type
	seen := make(map[Type]bool)
	var visit func(Type)
	visit = func(cur Type) {
		key := Concrete(env, cur)
		if seen[key] {
			return
		}
		seen[key] = true
		order = append(order, cur)

		def, err := Lookup(env, cur)
		if err != nil {
			return
		}
		for _, iface := range def.Interfaces {
			visit(iface)
		}
		if super, ok, _ := Supertype(env, cur); ok {
			visit(super)
		}
	}
	visit(t)

	if !seen[Object] {
		order = append(order, Object)
	}
	return order, nil
}
