package symbols

import "github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"

// Accessible reports whether a member declared on owner with the given
// modifiers may be used from the type under construction.
//
// Members of the type under construction are always accessible. Private
// members of other types never are. Interface members without a private
// modifier are public. Package-private members need the same package;
// protected members need the same package or a subclass relationship.
func Accessible(env typesystem.Env, owner typesystem.Type, mods typesystem.Modifiers) bool {
	if mods.IsPublic() {
		return true
	}
	self := env.Self()
	if self == nil {
		return false
	}
	if typesystem.SameType(env, owner, typesystem.Self) {
		return true
	}
	if mods.IsPrivate() {
		return false
	}
	if typesystem.IsInterfaceType(env, owner) {
		return true
	}
	samePackage := typesystem.Concrete(env, owner).Package() == typesystem.Class(self.Name).Package()
	if mods.IsPackagePrivate() {
		return samePackage
	}
	return samePackage || owner.IsAssignableFrom(env, typesystem.Self)
}
