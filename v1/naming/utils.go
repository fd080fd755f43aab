package naming

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
)

// Format renders a name as base[k1=v1,k2=v2] with keys sorted, or just the
// base name without tags. Equal names and tag sets always render equally.
func Format(n *MetricName) string {
	if n == nil {
		return ""
	}
	if len(n.tags) == 0 {
		return n.name
	}

	keys := make([]string, 0, len(n.tags))
	for k := range n.tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(n.name)
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(n.tags[k])
	}
	b.WriteByte(']')
	return b.String()
}

// join joins non-empty parts with dots.
func join(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}

// fallbackName returns a unique name for observables without a contextual
// name. Sites that identify a position get a stable name derived from it.
func fallbackName(site *callsite.Site, kind Kind) string {
	if site != nil && (site.Declaring != nil || site.Member != "") {
		return "metric-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(site.ID()+"|"+kind.String())).String()
	}
	return "metric-" + uuid.NewString()
}
