package closure

import "golang.org/x/text/unicode/norm"

// sourceMainName is the user-facing name the closure converter treats
// specially: whichever top-level definition is named this becomes the
// fixed runtime entry symbol (spec §6.4).
const sourceMainName = "main"

// mainSymbol is the fixed runtime entry point symbol sourceMainName is
// renamed to.
const mainSymbol = "sloth_main"

// renameTopLevel computes the top-level renaming (spec §4.4 point 4): every
// top-level name `n` becomes `<module_name>.n`, except `main`, which
// becomes `sloth_main`. Names are normalized to Unicode NFC first so that
// two source files spelling the same identifier with different
// combining-character sequences produce byte-identical symbols - required
// by the determinism invariant in spec §4.4 and §8, since the external
// parser (out of scope for this module) is not guaranteed to normalize
// identifiers itself.
func renameTopLevel(moduleName string, names []string) map[string]string {
	mod := norm.NFC.String(moduleName)
	out := make(map[string]string, len(names))
	for _, n := range names {
		normalized := norm.NFC.String(n)
		if normalized == sourceMainName {
			out[n] = mainSymbol
			continue
		}
		out[n] = mod + "." + normalized
	}
	return out
}
