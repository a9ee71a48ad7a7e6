package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/testutil"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestNormalize(t *testing.T) {
	assert.Equal(t, store.PageRequest{Page: 1, PerPage: store.DefaultPerPage}, store.PageRequest{}.Normalize())
	assert.Equal(t, store.PageRequest{Page: 3, PerPage: store.MaxPerPage}, store.PageRequest{Page: 3, PerPage: 1000}.Normalize())
	assert.Equal(t, 20, store.PageRequest{Page: 3, PerPage: 10}.Offset())
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, store.PageCount(0, 10))
	assert.Equal(t, 1, store.PageCount(10, 10))
	assert.Equal(t, 2, store.PageCount(11, 10))
}

func TestListPastLastPage(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		testutil.CreateHome(t, db, name, "Nairobi")
	}

	res, err := st.Homes.List(context.Background(), store.HomeFilter{}, store.PageRequest{Page: 5, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, int64(3), res.Total)
	assert.Equal(t, 2, res.Pages)
	assert.False(t, res.HasNext())
	assert.True(t, res.HasPrev())

	res, err = st.Homes.List(context.Background(), store.HomeFilter{}, store.PageRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Charlie", res.Items[0].Name)
	assert.True(t, res.HasNext())
}

func TestHomeFilters(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()

	hope := testutil.CreateHome(t, db, "Hope House", "Nairobi")
	testutil.CreateHome(t, db, "Joy Centre", "Mombasa")
	closed := testutil.CreateHome(t, db, "Old Hope", "nairobi")
	testutil.DeactivateHome(t, db, closed)

	active := true
	res, err := st.Homes.List(ctx, store.HomeFilter{Search: "hope", Active: &active}, store.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, hope.ID, res.Items[0].ID)

	res, err = st.Homes.List(ctx, store.HomeFilter{Location: "NAIROBI"}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	found, err := st.Homes.Search(ctx, "", "mom")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Joy Centre", found[0].Name)

	locations, err := st.Homes.Locations(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Nairobi", "Mombasa"}, locations)

	_, err = st.Homes.GetActive(ctx, closed.ID)
	assert.True(t, types.IsKind(err, types.KindNotFound))
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()

	testutil.CreateHome(t, db, "Hope House", "Nairobi")
	testutil.CreateHome(t, db, "Joy Centre", "Mombasa")
	full := testutil.CreateHome(t, db, "100% Care", "Kisumu")

	res, err := st.Homes.List(ctx, store.HomeFilter{Search: "%"}, store.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	assert.Equal(t, full.ID, res.Items[0].ID)

	res, err = st.Homes.List(ctx, store.HomeFilter{Search: "_"}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	res, err = st.Homes.List(ctx, store.HomeFilter{Search: "!"}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	found, err := st.Homes.Search(ctx, "", "%")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = st.Homes.Search(ctx, "0% c", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, full.ID, found[0].ID)

	amy := testutil.CreateUser(t, db, "amy_lee", models.RoleUser)
	testutil.CreateUser(t, db, "amyxlee", models.RoleUser)
	users, err := st.Users.List(ctx, store.UserFilter{Search: "y_l"}, store.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), users.Total)
	assert.Equal(t, amy.ID, users.Items[0].ID)
}

func TestHomeStats(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()

	rated := testutil.CreateHome(t, db, "Rated", "Kisumu")
	empty := testutil.CreateHome(t, db, "Empty", "Kisumu")
	users := []*models.User{
		testutil.CreateUser(t, db, "u1", models.RoleUser),
		testutil.CreateUser(t, db, "u2", models.RoleUser),
		testutil.CreateUser(t, db, "u3", models.RoleUser),
	}
	for i, rating := range []int{5, 3, 4} {
		testutil.CreateReview(t, db, users[i].ID, rated.ID, rating)
	}
	testutil.CreateDonation(t, db, users[0].ID, rated.ID, "50", models.DonationPending)
	testutil.CreateDonation(t, db, users[0].ID, rated.ID, "30", models.DonationCompleted)
	testutil.CreateDonation(t, db, users[1].ID, rated.ID, "20", models.DonationCompleted)
	testutil.CreateVisit(t, db, users[2].ID, rated.ID, testutil.Date(2026, 5, 4), models.VisitPending)

	stats, err := st.Homes.Stats(ctx, rated.ID, empty.ID)
	require.NoError(t, err)

	assert.Equal(t, 4.0, stats[rated.ID].AverageRating)
	assert.Equal(t, int64(3), stats[rated.ID].ReviewsCount)
	assert.True(t, decimal.NewFromInt(50).Equal(stats[rated.ID].TotalDonationsReceived),
		stats[rated.ID].TotalDonationsReceived.String())
	assert.Equal(t, int64(1), stats[rated.ID].TotalVisits)

	assert.Equal(t, 0.0, stats[empty.ID].AverageRating)
	assert.Equal(t, int64(0), stats[empty.ID].ReviewsCount)
	assert.True(t, stats[empty.ID].TotalDonationsReceived.IsZero())
}

func TestRatingSummary(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	home := testutil.CreateHome(t, db, "Rated", "Kisumu")
	for i, rating := range []int{5, 5, 2} {
		u := testutil.CreateUser(t, db, "reviewer"+string(rune('a'+i)), models.RoleUser)
		testutil.CreateReview(t, db, u.ID, home.ID, rating)
	}

	summary, err := st.Reviews.RatingSummary(context.Background(), home.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalReviews)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, int64(2), summary.RatingDistribution[5])
	assert.Equal(t, int64(1), summary.RatingDistribution[2])
	assert.Equal(t, int64(0), summary.RatingDistribution[1])
}

func TestReviewsArePublishedOnCreate(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "rita", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")
	require.NoError(t, st.Reviews.Create(ctx, &models.Review{UserID: user.ID, HomeID: home.ID, Rating: 4}))

	var stored models.Review
	require.NoError(t, db.First(&stored, "user_id = ?", user.ID).Error)
	assert.True(t, stored.IsApproved)

	summary, err := st.Reviews.RatingSummary(ctx, home.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalReviews)
}

func TestUniqueConstraintsBecomeConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	dup := &models.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		FirstName:    "A",
		LastName:     "B",
	}
	err := st.Users.Create(ctx, dup)
	assert.True(t, types.IsKind(err, types.KindConflict), "got %v", err)

	home := testutil.CreateHome(t, db, "Hope", "Nairobi")
	testutil.CreateReview(t, db, alice.ID, home.ID, 4)
	err = st.Reviews.Create(ctx, &models.Review{UserID: alice.ID, HomeID: home.ID, Rating: 5})
	ce, ok := types.AsCustomError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, types.KindConflict, ce.Kind)
	assert.Equal(t, "You have already reviewed this home", ce.Message)
}

func TestUsersFindByLogin(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	alice := testutil.CreateUser(t, db, "Alice", models.RoleUser)

	byName, err := st.Users.FindByLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byEmail, err := st.Users.FindByLogin(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = st.Users.FindByLogin(context.Background(), "nobody")
	assert.True(t, types.IsKind(err, types.KindNotFound))
}

func TestTransactionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "donor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	boom := errors.New("boom")
	err := st.Transaction(ctx, func(tx *store.Store) error {
		d := &models.Donation{UserID: user.ID, HomeID: home.ID, Amount: decimal.NewFromInt(10)}
		if err := tx.Donations.Create(ctx, d); err != nil {
			return err
		}
		return boom
	})
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Donation{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDonationListAndStats(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()
	donor := testutil.CreateUser(t, db, "donor", models.RoleUser)
	other := testutil.CreateUser(t, db, "other", models.RoleUser)
	h1 := testutil.CreateHome(t, db, "One", "Nairobi")
	h2 := testutil.CreateHome(t, db, "Two", "Nairobi")

	testutil.CreateDonation(t, db, donor.ID, h1.ID, "10.50", models.DonationCompleted)
	testutil.CreateDonation(t, db, donor.ID, h2.ID, "5", models.DonationCompleted)
	testutil.CreateDonation(t, db, donor.ID, h2.ID, "100", models.DonationPending)
	testutil.CreateDonation(t, db, other.ID, h1.ID, "7", models.DonationCompleted)

	res, err := st.Donations.List(ctx, store.DonationFilter{UserID: donor.ID, Status: models.DonationCompleted}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	for _, d := range res.Items {
		require.NotNil(t, d.Home)
	}

	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	res, err = st.Donations.List(ctx, store.DonationFilter{From: &tomorrow}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	stats, err := st.Donations.UserStats(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalDonations)
	assert.Equal(t, int64(2), stats.CompletedDonations)
	assert.True(t, decimal.RequireFromString("15.5").Equal(stats.TotalAmountDonated), stats.TotalAmountDonated.String())
	assert.Equal(t, int64(2), stats.HomesSupported)
}

func TestCountActiveByDate(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	user := testutil.CreateUser(t, db, "visitor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	day := testutil.Date(2026, 6, 2)
	testutil.CreateVisit(t, db, user.ID, home.ID, day, models.VisitPending)
	testutil.CreateVisit(t, db, user.ID, home.ID, day, models.VisitConfirmed)
	testutil.CreateVisit(t, db, user.ID, home.ID, day, models.VisitCancelled)
	testutil.CreateVisit(t, db, user.ID, home.ID, testutil.Date(2026, 6, 3), models.VisitCompleted)

	booked, err := st.Visits.CountActiveByDate(context.Background(), home.ID, testutil.Date(2026, 6, 1), testutil.Date(2026, 6, 30))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2026-06-02": 2}, booked)
}

func TestRankings(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	ctx := context.Background()

	popular := testutil.CreateHome(t, db, "Popular", "Nairobi")
	few := testutil.CreateHome(t, db, "Few Reviews", "Nairobi")
	needy := testutil.CreateHome(t, db, "Needy", "Nairobi")

	var users []*models.User
	for _, name := range []string{"r1", "r2", "r3"} {
		users = append(users, testutil.CreateUser(t, db, name, models.RoleUser))
	}
	for _, u := range users {
		testutil.CreateReview(t, db, u.ID, popular.ID, 4)
	}
	// Two perfect reviews are not enough to rank
	testutil.CreateReview(t, db, users[0].ID, few.ID, 5)
	testutil.CreateReview(t, db, users[1].ID, few.ID, 5)

	testutil.CreateDonation(t, db, users[0].ID, popular.ID, "100", models.DonationCompleted)
	testutil.CreateDonation(t, db, users[0].ID, few.ID, "40", models.DonationCompleted)
	testutil.CreateDonation(t, db, users[0].ID, needy.ID, "500", models.DonationPending)

	testutil.CreateVisit(t, db, users[0].ID, few.ID, testutil.Date(2026, 6, 2), models.VisitPending)
	testutil.CreateVisit(t, db, users[1].ID, few.ID, testutil.Date(2026, 6, 2), models.VisitCancelled)
	testutil.CreateVisit(t, db, users[1].ID, popular.ID, testutil.Date(2026, 6, 2), models.VisitPending)

	r, err := st.Analytics.Rankings(ctx, 10, 3)
	require.NoError(t, err)

	require.Len(t, r.BestRated, 1)
	assert.Equal(t, popular.ID, r.BestRated[0].HomeID)
	assert.Equal(t, 4.0, r.BestRated[0].AverageRating)

	require.Len(t, r.MostDonated, 2)
	assert.Equal(t, popular.ID, r.MostDonated[0].HomeID)

	require.Len(t, r.MostInNeed, 3)
	assert.Equal(t, needy.ID, r.MostInNeed[0].HomeID)
	assert.True(t, r.MostInNeed[0].TotalDonated.IsZero())

	require.Len(t, r.MostVisited, 2)
	assert.Equal(t, few.ID, r.MostVisited[0].HomeID)
	assert.Equal(t, int64(2), r.MostVisited[0].VisitCount)
}

func TestOverview(t *testing.T) {
	db := testutil.NewDB(t)
	st := store.New(db)
	user := testutil.CreateUser(t, db, "donor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")
	testutil.CreateDonation(t, db, user.ID, home.ID, "25", models.DonationCompleted)
	testutil.CreateDonation(t, db, user.ID, home.ID, "10", models.DonationPending)

	o, err := st.Analytics.Overview(context.Background(), time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.TotalUsers)
	assert.Equal(t, int64(1), o.TotalHomes)
	assert.Equal(t, int64(2), o.TotalDonations)
	assert.Equal(t, int64(1), o.PendingDonations)
	assert.Equal(t, int64(2), o.NewDonations30Days)
	assert.True(t, decimal.NewFromInt(25).Equal(o.TotalDonationAmount), o.TotalDonationAmount.String())
}
