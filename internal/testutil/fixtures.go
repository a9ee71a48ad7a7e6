// fixtures.go
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

package testutil

import (
	"testing"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Password is the plain password of every fixture user
const Password = "Password123"

var passwordHash string

func fixtureHash(t *testing.T) string {
	t.Helper()
	if passwordHash == "" {
		digest, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		require.NoError(t, err)
		passwordHash = string(digest)
	}
	return passwordHash
}

// CreateUser inserts an active user whose email is <username>@example.com
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: fixtureHash(t),
		FirstName:    "Test",
		LastName:     username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateHome inserts an active home
func CreateHome(t *testing.T, db *gorm.DB, name, location string) *models.ChildrensHome {
	t.Helper()
	h := &models.ChildrensHome{
		Name:        name,
		Location:    location,
		Description: "A home called " + name,
		IsActive:    true,
	}
	require.NoError(t, db.Create(h).Error)
	return h
}

// DeactivateHome clears the active flag of h
func DeactivateHome(t *testing.T, db *gorm.DB, h *models.ChildrensHome) {
	t.Helper()
	h.IsActive = false
	require.NoError(t, db.Save(h).Error)
}

// CreateDonation inserts a monetary donation with the given amount and status
func CreateDonation(t *testing.T, db *gorm.DB, userID, homeID uint, amount string, status models.DonationStatus) *models.Donation {
	t.Helper()
	d := &models.Donation{
		UserID:       userID,
		HomeID:       homeID,
		Amount:       decimal.RequireFromString(amount),
		DonationType: models.DonationMonetary,
		Status:       status,
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

// CreateReview inserts an approved review
func CreateReview(t *testing.T, db *gorm.DB, userID, homeID uint, rating int) *models.Review {
	t.Helper()
	r := &models.Review{
		UserID:     userID,
		HomeID:     homeID,
		Rating:     rating,
		Title:      "Review",
		IsApproved: true,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateVisit inserts a visit for one visitor on date
func CreateVisit(t *testing.T, db *gorm.DB, userID, homeID uint, date datatypes.Date, status models.VisitStatus) *models.Visit {
	t.Helper()
	v := &models.Visit{
		UserID:           userID,
		HomeID:           homeID,
		VisitDate:        date,
		NumberOfVisitors: 1,
		Status:           status,
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

// Date builds a calendar date
func Date(year int, month time.Month, day int) datatypes.Date {
	return models.DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
