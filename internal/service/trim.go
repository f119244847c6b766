// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import "catalogd/internal/models"

// trimCategory strips the optional sub-graphs a response group did not ask
// for. Operates on a clone; the cached snapshot for each group is trimmed
// once and served as-is afterwards.
func trimCategory(c *models.Category, g models.ResponseGroup) {
	if c == nil {
		return
	}
	if !g.Has(models.WithOutlines) {
		c.Outline = ""
	}
	if !g.Has(models.WithProperties) {
		c.Properties = nil
		c.OwnProperties = nil
	}
	if !g.Has(models.WithImages) {
		c.Images = nil
	}
	if !g.Has(models.WithLinks) {
		c.Links = nil
	}
	for _, p := range c.Parents {
		trimCategory(p, g)
	}
}

func trimProduct(p *models.Product, g models.ResponseGroup) {
	if p == nil {
		return
	}
	if !g.Has(models.WithOutlines) {
		p.Outline = ""
	}
	if !g.Has(models.WithProperties) {
		p.Properties = nil
	}
	if !g.Has(models.WithImages) {
		p.Images = nil
	}
	if !g.Has(models.WithLinks) {
		p.Links = nil
	}
	if !g.Has(models.WithVariations) {
		p.Variations = nil
	} else {
		for _, v := range p.Variations {
			trimProduct(v, g)
		}
	}
	trimCategory(p.Category, g)
	if p.MainProduct != nil {
		trimProduct(p.MainProduct, g)
	}
}
