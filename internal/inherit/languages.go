// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inherit

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// NormalizeDisplayNames patches a language→name map to cover exactly the
// declared language set: languages missing from the map get a blank
// entry, languages not declared are dropped, and entries for declared
// languages keep their content untouched. The map is patched in place by
// set difference, never rebuilt wholesale.
func NormalizeDisplayNames(names map[string]string, languages []string) {
	want := mapset.NewThreadUnsafeSet(languages...)
	have := mapset.NewThreadUnsafeSetWithSize[string](len(names))
	for lang := range names {
		have.Add(lang)
	}

	want.Difference(have).Each(func(lang string) bool {
		names[lang] = ""
		return false
	})
	have.Difference(want).Each(func(lang string) bool {
		delete(names, lang)
		return false
	})
}

// MissingLanguages returns the declared languages a name map does not
// cover yet, in declaration order. Used by the change writer to report
// what a save will backfill.
func MissingLanguages(names map[string]string, languages []string) []string {
	have := mapset.NewThreadUnsafeSetWithSize[string](len(names))
	for lang := range names {
		have.Add(lang)
	}
	var out []string
	for _, lang := range languages {
		if !have.Contains(lang) {
			out = append(out, lang)
		}
	}
	return out
}
