// Package grammar contains grammars built on the packrat engine.
//
// Identifiers are namespaced names such as `core:stone`. Item predicates
// select items by identifier or tag and test their components:
//
//	core:sword[damage=5,enchanted|!named]
//	#weapons[damage~"value > 3"]
//	*[!broken]
//
// Config files hold `key = value` entries and back the command line's
// configuration resolver.
package grammar
