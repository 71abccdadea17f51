// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and collision resolution against a pool of slugs already in use.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the words of a slug.
const Separator = "-"

var (
	// apostrophes are dropped so contractions stay one word ("what's" → "whats").
	apostrophes = regexp.MustCompile(`['’]`)
	// nonAlphanumeric matches every run of characters outside a-z and 0-9.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Generate creates a URL-friendly slug from the given string.
// Accents are folded to their base letter, everything that is not a letter
// or digit becomes a single hyphen, and leading/trailing hyphens are
// stripped. Example: "Café, Society! 2026" → "cafe-society-2026".
//
// Input with no letters or digits yields "". Generate is idempotent.
func Generate(s string) string {
	// transform.Chain keeps internal state, so it is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	result := strings.ToLower(folded)
	result = apostrophes.ReplaceAllString(result, "")
	result = nonAlphanumeric.ReplaceAllString(result, Separator)
	return strings.Trim(result, Separator)
}

// GenerateUnique returns base unchanged when it is not in existing.
// Otherwise it appends "-2", "-3", ... and returns the first candidate
// absent from existing. The caller scopes existing (for example by leaving
// out the slug of the row being updated).
func GenerateUnique(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base
	}

	// At most len(existing) candidates can be taken, so this terminates
	// within len(existing)+1 probes.
	for n := 2; ; n++ {
		candidate := base + Separator + strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
