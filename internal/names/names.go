// Package names reconciles ward-name variants from the incident, census and
// boundary sources into one canonical key per real-world ward.
package names

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents removes combining marks so accented spellings collapse onto
// the plain form.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer applies a fixed ordered sequence of string rules followed by an
// explicit rename table. The rename table is reference data from config,
// carrying the post-2018 ward reallocations; it is never computed.
type Normalizer struct {
	districts         []string
	renames           map[string]string
	districtOverrides map[string]string
}

// New builds a normalizer. Rename keys and values are themselves passed
// through the string rules so that normalization stays idempotent, and
// chained renames (a→b, b→c) are resolved to their final target up front.
func New(districts []string, renames, districtOverrides map[string]string) *Normalizer {
	n := &Normalizer{districts: districts}

	canonical := make(map[string]string, len(renames))
	for raw, target := range renames {
		canonical[n.strip(raw)] = n.strip(target)
	}

	// Chase chains; the guard bounds pathological cycles in the table.
	for from, to := range canonical {
		for i := 0; i < len(canonical); i++ {
			next, ok := canonical[to]
			if !ok || next == to {
				break
			}

			to = next
		}

		canonical[from] = to
	}

	n.renames = canonical

	n.districtOverrides = make(map[string]string, len(districtOverrides))
	for ward, district := range districtOverrides {
		n.districtOverrides[n.strip(ward)] = district
	}

	return n
}

// Normalize returns the canonical form of a raw ward or district name.
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	s := n.strip(raw)

	if target, ok := n.renames[s]; ok {
		return target
	}

	return s
}

// DistrictFor returns the overriding parent district for a canonical ward,
// if the correction table has one.
func (n *Normalizer) DistrictFor(ward string) (string, bool) {
	district, ok := n.districtOverrides[ward]

	return district, ok
}

// strip applies the ordered string-level rules: accent folding, whitespace
// cleanup, dropping a parenthetical suffix that repeats a known district,
// dropping a trailing " Ward", and removing apostrophes and periods. The
// pass repeats until the name is stable, so stacked variants such as
// "Aston Ward (Birmingham)" collapse in one call and Normalize stays
// idempotent.
func (n *Normalizer) strip(raw string) string {
	s := raw
	for i := 0; i < maxStripPasses; i++ {
		next := n.stripOnce(s)
		if next == s {
			break
		}

		s = next
	}

	return s
}

// maxStripPasses bounds the fixpoint loop; each pass removes at least one
// suffix, so real names settle in two or three.
const maxStripPasses = 8

func (n *Normalizer) stripOnce(raw string) string {
	s, _, _ := transform.String(foldAccents, raw)
	s = strings.Join(strings.Fields(s), " ")

	s = n.stripDistrictSuffix(s)

	s = strings.TrimSuffix(s, " Ward")

	s = strings.NewReplacer("'", "", "’", "", ".", "").Replace(s)

	return strings.Join(strings.Fields(s), " ")
}

// stripDistrictSuffix removes a census disambiguation suffix such as
// "Aston (Birmingham)" when the parenthesized text names a known district.
func (n *Normalizer) stripDistrictSuffix(s string) string {
	open := strings.LastIndex(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return s
	}

	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	for _, district := range n.districts {
		if strings.EqualFold(inner, district) {
			return strings.TrimSpace(s[:open])
		}
	}

	return s
}

// Divergence compares the canonical key sets of the named sources and
// returns one message per key that some source is missing. The pipeline
// reports these as warnings rather than dropping rows.
func Divergence(sources map[string][]string) []string {
	sets := make(map[string]map[string]bool, len(sources))
	for label, keys := range sources {
		set := make(map[string]bool, len(keys))
		for _, k := range keys {
			set[k] = true
		}

		sets[label] = set
	}

	labels := make([]string, 0, len(sets))
	for label := range sets {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	var warnings []string

	for _, have := range labels {
		for key := range sets[have] {
			for _, missing := range labels {
				if missing == have || sets[missing][key] {
					continue
				}

				warnings = append(warnings,
					fmt.Sprintf("ward %q present in %s but not in %s", key, have, missing))
			}
		}
	}

	sort.Strings(warnings)

	return warnings
}
