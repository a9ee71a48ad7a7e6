// server_test.go
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

package server_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/config"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/middleware"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/server"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// memBlocklist keeps revoked token ids in memory
type memBlocklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (b *memBlocklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *memBlocklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

type testApp struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *auth.JWTService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	st := store.New(db)
	cfg := &config.Config{
		Env:      "test",
		DBType:   "sqlite",
		Location: time.UTC,
	}
	tokens := auth.NewJWTService("server-test-secret-0123", time.Hour, &memBlocklist{revoked: map[string]bool{}})
	svc := services.New(st, auth.NewBcryptHasher(bcrypt.MinCost), services.DefaultOptions())

	app := server.New(server.Deps{
		Config:   cfg,
		DB:       db,
		Services: svc,
		Guard:    auth.NewGuard(tokens, st.Users),
		Tokens:   tokens,
	})
	return &testApp{app: app, db: db, tokens: tokens}
}

func (a *testApp) do(t *testing.T, method, target string, body interface{}, token string) *http.Response {
	t.Helper()
	resp, err := a.app.Test(testutil.JSONRequest(t, method, target, body, token), -1)
	require.NoError(t, err)
	return resp
}

func (a *testApp) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := a.tokens.Issue(u)
	require.NoError(t, err)
	return token
}

func TestRegisterLoginMeLogout(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":   "alice",
		"email":      "alice@example.com",
		"password":   "Secret123",
		"first_name": "Alice",
		"last_name":  "Doe",
	}, "")
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var registered map[string]interface{}
	testutil.ParseJSON(t, resp, &registered)
	assert.Equal(t, "User registered successfully", registered["message"])
	assert.NotContains(t, registered["user"], "password_hash")

	resp = a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "alice", "password": "nope12345"}, "")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)

	resp = a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "Secret123"}, "")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	testutil.ParseJSON(t, resp, &login)
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, "user", login.User.Role)

	resp = a.do(t, http.MethodGet, "/api/auth/me", nil, login.AccessToken)
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp = a.do(t, http.MethodPost, "/api/auth/logout", nil, login.AccessToken)
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp = a.do(t, http.MethodGet, "/api/auth/me", nil, login.AccessToken)
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateUser(t, a.db, "alice", models.RoleUser)

	resp := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":   "alice",
		"email":      "new@example.com",
		"password":   "Secret123",
		"first_name": "Alice",
		"last_name":  "Doe",
	}, "")
	testutil.AssertStatus(t, resp, http.StatusConflict)
	var body map[string]interface{}
	testutil.ParseJSON(t, resp, &body)
	assert.Equal(t, "Username already exists", body["error"])
	assert.Equal(t, "username", body["field"])
}

func TestUnauthenticatedRequests(t *testing.T) {
	a := newTestApp(t)

	for _, target := range []string{"/api/auth/me", "/api/donations/my-donations", "/api/visits/my-visits", "/api/admin/users"} {
		resp := a.do(t, http.MethodGet, target, nil, "")
		testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	}

	resp := a.do(t, http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	a := newTestApp(t)
	user := testutil.CreateUser(t, a.db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, a.db, "root", models.RoleAdmin)

	resp := a.do(t, http.MethodGet, "/api/admin/analytics/overview", nil, a.tokenFor(t, user))
	testutil.AssertStatus(t, resp, http.StatusForbidden)
	var body map[string]interface{}
	testutil.ParseJSON(t, resp, &body)
	assert.Equal(t, "Admin access required", body["error"])

	resp = a.do(t, http.MethodGet, "/api/admin/analytics/overview", nil, a.tokenFor(t, admin))
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp = a.do(t, http.MethodPost, "/api/admin/homes", map[string]interface{}{"name": "Hope", "location": "Nairobi"}, a.tokenFor(t, admin))
	testutil.AssertStatus(t, resp, http.StatusCreated)

	resp = a.do(t, http.MethodGet, "/api/admin/activity", nil, a.tokenFor(t, admin))
	testutil.AssertStatus(t, resp, http.StatusOK)
	var activity struct {
		Activity []map[string]interface{} `json:"activity"`
	}
	testutil.ParseJSON(t, resp, &activity)
	assert.Len(t, activity.Activity, 1)
}

func TestOwnershipIsEnforced(t *testing.T) {
	a := newTestApp(t)
	alice := testutil.CreateUser(t, a.db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, a.db, "bob", models.RoleUser)
	home := testutil.CreateHome(t, a.db, "Hope", "Nairobi")

	donation := testutil.CreateDonation(t, a.db, alice.ID, home.ID, "10", models.DonationPending)
	review := testutil.CreateReview(t, a.db, alice.ID, home.ID, 4)
	future := models.DateOf(time.Now().UTC().AddDate(0, 0, 7))
	visit := testutil.CreateVisit(t, a.db, alice.ID, home.ID, future, models.VisitPending)

	bobToken := a.tokenFor(t, bob)
	cases := []struct {
		method string
		target string
		body   interface{}
	}{
		{http.MethodGet, fmt.Sprintf("/api/donations/%d", donation.ID), nil},
		{http.MethodPut, fmt.Sprintf("/api/donations/%d/status", donation.ID), map[string]string{"status": "cancelled"}},
		{http.MethodGet, fmt.Sprintf("/api/reviews/%d", review.ID), nil},
		{http.MethodPut, fmt.Sprintf("/api/reviews/%d", review.ID), map[string]int{"rating": 1}},
		{http.MethodDelete, fmt.Sprintf("/api/reviews/%d", review.ID), nil},
		{http.MethodGet, fmt.Sprintf("/api/visits/%d", visit.ID), nil},
		{http.MethodPut, fmt.Sprintf("/api/visits/%d", visit.ID), map[string]int{"number_of_visitors": 9}},
		{http.MethodPut, fmt.Sprintf("/api/visits/%d/cancel", visit.ID), nil},
	}
	for _, tc := range cases {
		resp := a.do(t, tc.method, tc.target, tc.body, bobToken)
		testutil.AssertStatus(t, resp, http.StatusForbidden)
	}

	aliceToken := a.tokenFor(t, alice)
	resp := a.do(t, http.MethodPut, fmt.Sprintf("/api/visits/%d/cancel", visit.ID), nil, aliceToken)
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp = a.do(t, http.MethodGet, "/api/donations/9999", nil, aliceToken)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestDonationFlow(t *testing.T) {
	a := newTestApp(t)
	alice := testutil.CreateUser(t, a.db, "alice", models.RoleUser)
	home := testutil.CreateHome(t, a.db, "Hope", "Nairobi")
	token := a.tokenFor(t, alice)

	resp := a.do(t, http.MethodPost, "/api/donations", map[string]interface{}{"home_id": home.ID, "amount": "25.50"}, token)
	testutil.AssertStatus(t, resp, http.StatusCreated)

	resp = a.do(t, http.MethodPost, "/api/donations/multiple", map[string]interface{}{
		"donations": []map[string]interface{}{
			{"home_id": home.ID, "amount": 5},
			{"home_id": home.ID, "amount": 0},
		},
	}, token)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)

	resp = a.do(t, http.MethodGet, "/api/donations/my-donations?per_page=1", nil, token)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var mine struct {
		Donations  []map[string]interface{} `json:"donations"`
		Pagination struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"pagination"`
	}
	testutil.ParseJSON(t, resp, &mine)
	require.Len(t, mine.Donations, 1)
	assert.Equal(t, 25.5, mine.Donations[0]["amount"])
	assert.Equal(t, int64(1), mine.Pagination.Total)
	assert.False(t, mine.Pagination.HasNext)
}

func TestPublicHomeRoutes(t *testing.T) {
	a := newTestApp(t)
	home := testutil.CreateHome(t, a.db, "Hope", "Nairobi")
	closed := testutil.CreateHome(t, a.db, "Closed", "Nairobi")
	testutil.DeactivateHome(t, a.db, closed)

	resp := a.do(t, http.MethodGet, "/api/homes?page=9", nil, "")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var list struct {
		Homes      []map[string]interface{} `json:"homes"`
		Pagination struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"pagination"`
	}
	testutil.ParseJSON(t, resp, &list)
	assert.Empty(t, list.Homes)
	assert.Equal(t, int64(1), list.Pagination.Total)
	assert.False(t, list.Pagination.HasNext)

	resp = a.do(t, http.MethodGet, fmt.Sprintf("/api/homes/%d", home.ID), nil, "")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var detail struct {
		Home map[string]interface{} `json:"home"`
	}
	testutil.ParseJSON(t, resp, &detail)
	assert.Equal(t, 0.0, detail.Home["average_rating"])

	resp = a.do(t, http.MethodGet, fmt.Sprintf("/api/homes/%d", closed.ID), nil, "")
	testutil.AssertStatus(t, resp, http.StatusNotFound)

	resp = a.do(t, http.MethodGet, "/api/homes/abc", nil, "")
	testutil.AssertStatus(t, resp, http.StatusBadRequest)

	resp = a.do(t, http.MethodGet, fmt.Sprintf("/api/visits/available-dates/%d", home.ID), nil, "")
	testutil.AssertStatus(t, resp, http.StatusOK)
}

func TestHomeReviewRoutes(t *testing.T) {
	a := newTestApp(t)
	home := testutil.CreateHome(t, a.db, "Hope", "Nairobi")
	amy := testutil.CreateUser(t, a.db, "amy", models.RoleUser)
	bob := testutil.CreateUser(t, a.db, "bob", models.RoleUser)
	testutil.CreateReview(t, a.db, amy.ID, home.ID, 5)
	testutil.CreateReview(t, a.db, bob.ID, home.ID, 3)

	type reviewList struct {
		Reviews       []map[string]interface{} `json:"reviews"`
		RatingSummary struct {
			AverageRating float64 `json:"average_rating"`
			TotalReviews  int64   `json:"total_reviews"`
		} `json:"rating_summary"`
	}

	for _, target := range []string{
		fmt.Sprintf("/api/homes/%d/reviews", home.ID),
		fmt.Sprintf("/api/reviews/home/%d", home.ID),
	} {
		resp := a.do(t, http.MethodGet, target, nil, "")
		testutil.AssertStatus(t, resp, http.StatusOK)
		var body reviewList
		testutil.ParseJSON(t, resp, &body)
		assert.Len(t, body.Reviews, 2, target)
		assert.Equal(t, 4.0, body.RatingSummary.AverageRating, target)
		assert.Equal(t, int64(2), body.RatingSummary.TotalReviews, target)
	}

	resp := a.do(t, http.MethodGet, "/api/homes/9999/reviews", nil, "")
	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	a := newTestApp(t)

	req := testutil.JSONRequest(t, http.MethodGet, "/api/nothing-here", nil, "")
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	assert.Equal(t, "req-123", resp.Header.Get(middleware.RequestIDHeader))

	var body map[string]interface{}
	testutil.ParseJSON(t, resp, &body)
	assert.Equal(t, "[404] Resource Not Found", body["error"])
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "/api/nothing-here", body["url"])
}
