// Package builtins classifies names as built-in variables or built-in
// function signatures.
//
// Classification uses perfect-hash tables generated offline for the fixed
// built-in catalogue (see ids_autogen.go and hash_autogen.go). Each name
// class has two per-position weight tables T1 and T2 and a vertex table G.
// For a name of length n,
//
//	h(name, T) = (T[0]*name[0] + ... + T[n-1]*name[n-1]) mod M
//	value      = (G[h(name, T1)] + G[h(name, T2)]) mod M
//
// The value is the catalogue index of the name if the name is in the
// catalogue; any other name either lands outside the catalogue or fails the
// final string comparison. Classification runs in time linear in the name
// length and does not allocate.
//
// The tables are immutable and safe for concurrent use.
package builtins

// ID identifies a catalogue entry. Variables come first, then functions.
type ID uint16

// NotBuiltIn is returned for names outside the catalogue. No catalogue entry
// is ever assigned id 0.
const NotBuiltIn ID = 0

// ClassifyUnmangled returns the id of the built-in variable called name.
func ClassifyUnmangled(name string) ID {
	if len(name) == 0 || len(name) > unmangledMaxLen {
		return NotBuiltIn
	}
	v := perfectHash(name, unmangledT1[:], unmangledT2[:], unmangledG[:], unmangledModulus)
	if v == 0 || v > variableCount || unmangledNames[v-1] != name {
		return NotBuiltIn
	}
	return ID(v)
}

// ClassifyMangled returns the id of the built-in function whose mangled
// signature is name, e.g. "dot(f3f3" or "barrier(".
func ClassifyMangled(name string) ID {
	if len(name) == 0 || len(name) > mangledMaxLen {
		return NotBuiltIn
	}
	v := perfectHash(name, mangledT1[:], mangledT2[:], mangledG[:], mangledModulus)
	if v == 0 || v > functionCount || mangledNames[v-1] != name {
		return NotBuiltIn
	}
	return ID(variableCount + v)
}

func perfectHash(name string, t1, t2, g []int, m int) int {
	h1, h2 := 0, 0
	for i := 0; i < len(name); i++ {
		c := int(name[i])
		h1 = (h1 + t1[i]*c) % m
		h2 = (h2 + t2[i]*c) % m
	}
	return (g[h1] + g[h2]) % m
}

// Name returns the catalogue name of id: the plain name of a variable or the
// mangled signature of a function. It returns "" for ids outside the catalogue.
func Name(id ID) string {
	switch {
	case IsVariable(id):
		return unmangledNames[id-1]
	case IsFunction(id):
		return mangledNames[int(id)-variableCount-1]
	default:
		return ""
	}
}

// IsVariable reports whether id is a built-in variable.
func IsVariable(id ID) bool {
	return id >= 1 && int(id) <= variableCount
}

// IsFunction reports whether id is a built-in function signature.
func IsFunction(id ID) bool {
	return int(id) > variableCount && int(id) <= variableCount+functionCount
}

// Count returns the number of catalogue entries.
func Count() int {
	return variableCount + functionCount
}

// Variables returns the ids of all built-in variables in catalogue order.
func Variables() []ID {
	ids := make([]ID, variableCount)
	for i := range ids {
		ids[i] = ID(i + 1)
	}
	return ids
}

// Functions returns the ids of all built-in function signatures in catalogue order.
func Functions() []ID {
	ids := make([]ID, functionCount)
	for i := range ids {
		ids[i] = ID(variableCount + i + 1)
	}
	return ids
}
