// common.go
//
// Donation coordination service for children's homes and orphanages
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of caredonate.
// caredonate is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// caredonate is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with caredonate.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"gorm.io/datatypes"
)

// base gives every handler access to the authorization guard
type base struct {
	Guard *auth.Guard
}

// authenticate resolves the bearer token of the request into a principal
func (b *base) authenticate(c *fiber.Ctx) (*auth.Principal, error) {
	token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	return b.Guard.ResolvePrincipal(c.UserContext(), token)
}

// requireAdmin authenticates and then demands the admin role
func (b *base) requireAdmin(c *fiber.Ctx) (*auth.Principal, error) {
	p, err := b.authenticate(c)
	if err != nil {
		return nil, err
	}
	if err := b.Guard.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	return p, nil
}

// parseID reads a positive integer path parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, types.ValidationError(name, name+" must be a positive integer")
	}
	return uint(id), nil
}

// parseBody decodes a JSON request body
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return types.ValidationError("body", "Invalid request body: "+err.Error())
	}
	return nil
}

// pageRequest reads page and per_page; malformed values fall back to defaults
func pageRequest(c *fiber.Ctx) store.PageRequest {
	return store.PageRequest{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", store.DefaultPerPage),
	}.Normalize()
}

// queryBool reads an optional boolean query parameter
func queryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, types.ValidationError(name, name+" must be true or false")
	}
	return &v, nil
}

// queryUint reads an optional positive integer query parameter
func queryUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.ValidationError(name, name+" must be a positive integer")
	}
	return uint(v), nil
}

// queryDate reads an optional YYYY-MM-DD query parameter
func queryDate(c *fiber.Ctx, name string) (*datatypes.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, types.ValidationError(name, "Invalid "+name+" format. Use YYYY-MM-DD")
	}
	return &d, nil
}

// queryDateRange reads from/to as a half-open range of instants covering
// whole days: [from 00:00, to+1 00:00)
func queryDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	from, err := queryDate(c, "from")
	if err != nil {
		return nil, nil, err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return nil, nil, err
	}

	var start, end *time.Time
	if from != nil {
		t := time.Time(*from)
		start = &t
	}
	if to != nil {
		t := time.Time(*to).AddDate(0, 0, 1)
		end = &t
	}
	return start, end, nil
}
