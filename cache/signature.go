package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureInput is every field spec.md §4.4 Tier 3 names as part of the
// identity signature: compiler identity, exact flags, include/define
// lists, configuration, platform triple, and any toolchain-level flag
// lists affecting the project. Order matters — two builds with the same
// flags in different order are treated as different signatures, which is
// conservative (a false miss costs a recompile; a false hit would serve
// a stale object).
type SignatureInput struct {
	CompilerPath    string
	CompilerVersion string
	Flags           []string
	IncludeDirs     []string
	Defines         []string
	Configuration   string
	Platform        string
	ToolchainFlags  []string
}

// Digest computes the SHA-256 hex digest of in's canonicalized
// concatenation, the guard against the "source unchanged but flags
// changed" silent-staleness failure mode spec.md §3 calls out.
func Digest(in SignatureInput) string {
	var sb strings.Builder
	writeField(&sb, "compiler", in.CompilerPath)
	writeField(&sb, "version", in.CompilerVersion)
	writeList(&sb, "flags", in.Flags)
	writeList(&sb, "includes", in.IncludeDirs)
	writeList(&sb, "defines", in.Defines)
	writeField(&sb, "config", in.Configuration)
	writeField(&sb, "platform", in.Platform)
	writeList(&sb, "toolchain-flags", in.ToolchainFlags)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func writeField(sb *strings.Builder, key, value string) {
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(value)
	sb.WriteByte('\n')
}

func writeList(sb *strings.Builder, key string, values []string) {
	sb.WriteString(key)
	sb.WriteByte('=')
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v)
	}
	sb.WriteByte('\n')
}
