// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// ResponseGroup selects which optional sub-graphs a read operation retains
// on the returned aggregate. It is part of the cache key, so each group
// caches its own trimmed snapshot.
type ResponseGroup uint8

const (
	WithOutlines ResponseGroup = 1 << iota
	WithProperties
	WithImages
	WithLinks
	WithVariations

	// Core selects only the entity's own fields.
	Core ResponseGroup = 0
	// Full selects every optional sub-graph.
	Full = WithOutlines | WithProperties | WithImages | WithLinks | WithVariations
)

var groupNames = []struct {
	flag ResponseGroup
	name string
}{
	{WithOutlines, "outlines"},
	{WithProperties, "properties"},
	{WithImages, "images"},
	{WithLinks, "links"},
	{WithVariations, "variations"},
}

// Has reports whether the group includes the given flag.
func (g ResponseGroup) Has(flag ResponseGroup) bool { return g&flag != 0 }

// String renders a stable, human-readable form used in cache keys.
func (g ResponseGroup) String() string {
	if g == Core {
		return "core"
	}
	var parts []string
	for _, gn := range groupNames {
		if g.Has(gn.flag) {
			parts = append(parts, gn.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseResponseGroup parses a "+"-separated group list as produced by
// String. Unknown names are ignored; an empty input means Full.
func ParseResponseGroup(s string) ResponseGroup {
	if s == "" {
		return Full
	}
	if s == "core" {
		return Core
	}
	var g ResponseGroup
	for _, part := range strings.Split(s, "+") {
		for _, gn := range groupNames {
			if gn.name == strings.TrimSpace(part) {
				g |= gn.flag
			}
		}
	}
	return g
}
