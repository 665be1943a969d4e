package model

// BaseCFlagsFor returns the toolchain's base flag list appropriate for
// lang: BaseCFlags for C/ObjC/Asm, BaseCxxFlags for C++/ObjC++. Both lists
// are always included in a project's Tier 3 identity signature (spec.md
// §4.4) regardless of which one a given compile unit uses, since either
// could affect the compiler's behavior via driver-level flag parsing.
func (t *Toolchain) BaseCFlagsFor(lang Language) []string {
	switch lang {
	case LangCxx, LangObjCxx:
		return t.BaseCxxFlags
	default:
		return t.BaseCFlags
	}
}
