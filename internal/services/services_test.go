package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/testutil"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fixedNow is a Monday
var fixedNow = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

func newServices(t *testing.T) (*services.Services, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	opts := services.DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return services.New(store.New(db), auth.NewBcryptHasher(bcrypt.MinCost), opts), db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind types.ErrorKind) *types.CustomError {
	t.Helper()
	ce, ok := types.AsCustomError(err)
	require.True(t, ok, "expected %s error, got %v", kind, err)
	require.Equal(t, kind, ce.Kind, ce.Message)
	return ce
}

func TestComputeAvailability(t *testing.T) {
	policy := services.AvailabilityPolicy{RestDay: time.Sunday, DailyCapacity: 3, WindowDays: 6}
	booked := map[string]int{"2026-06-02": 3, "2026-06-03": 2}

	got := services.ComputeAvailability(testutil.Date(2026, 6, 1), booked, policy)

	assert.Equal(t, []services.AvailableDate{
		{Date: "2026-06-01", AvailableSlots: 3},
		{Date: "2026-06-03", AvailableSlots: 1},
		{Date: "2026-06-04", AvailableSlots: 3},
		{Date: "2026-06-05", AvailableSlots: 3},
		{Date: "2026-06-06", AvailableSlots: 3},
	}, got)
}

func TestComputeAvailabilityOverbookedDay(t *testing.T) {
	policy := services.AvailabilityPolicy{RestDay: time.Sunday, DailyCapacity: 3, WindowDays: 0}
	got := services.ComputeAvailability(testutil.Date(2026, 6, 1), map[string]int{"2026-06-01": 5}, policy)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAvailableDates(t *testing.T) {
	svc, db := newServices(t)
	user := testutil.CreateUser(t, db, "visitor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")
	testutil.CreateVisit(t, db, user.ID, home.ID, testutil.Date(2026, 6, 2), models.VisitPending)
	testutil.CreateVisit(t, db, user.ID, home.ID, testutil.Date(2026, 6, 2), models.VisitConfirmed)
	testutil.CreateVisit(t, db, user.ID, home.ID, testutil.Date(2026, 6, 2), models.VisitCancelled)

	a, err := svc.Visits.AvailableDates(context.Background(), home.ID, svc.Visits.Today())
	require.NoError(t, err)
	assert.Equal(t, "Hope", a.HomeName)
	require.NotEmpty(t, a.AvailableDates)
	assert.Equal(t, "2026-06-01", a.AvailableDates[0].Date)
	assert.Equal(t, services.AvailableDate{Date: "2026-06-02", AvailableSlots: 1}, a.AvailableDates[1])
	for _, d := range a.AvailableDates {
		day, err := time.Parse(models.DateLayout, d.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Sunday, day.Weekday(), d.Date)
	}

	testutil.DeactivateHome(t, db, home)
	_, err = svc.Visits.AvailableDates(context.Background(), home.ID, svc.Visits.Today())
	requireKind(t, err, types.KindNotFound)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	in := services.RegisterInput{
		Username:  "alice",
		Email:     " Alice@Example.com ",
		Password:  "Secret123",
		FirstName: "Alice",
		LastName:  "Doe",
	}
	user, err := svc.Users.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "Secret123", user.PasswordHash)

	_, err = svc.Users.Register(ctx, in)
	ce := requireKind(t, err, types.KindConflict)
	assert.Equal(t, "username", ce.Field)

	in.Username = "alice2"
	_, err = svc.Users.Register(ctx, in)
	ce = requireKind(t, err, types.KindConflict)
	assert.Equal(t, "email", ce.Field)

	in.Username, in.Email, in.Password = "bob", "bob@example.com", "short"
	_, err = svc.Users.Register(ctx, in)
	requireKind(t, err, types.KindValidation)

	got, err := svc.Users.Authenticate(ctx, "ALICE@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Users.Authenticate(ctx, "alice", "Wrong1234")
	ce = requireKind(t, err, types.KindAuthentication)
	assert.Equal(t, "Invalid credentials", ce.Message)

	_, err = svc.Users.Authenticate(ctx, "nobody", "Secret123")
	ce = requireKind(t, err, types.KindAuthentication)
	assert.Equal(t, "Invalid credentials", ce.Message)
}

func TestAdminCannotDemoteSelf(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	user := testutil.CreateUser(t, db, "carol", models.RoleUser)

	_, err := svc.Users.UpdateByAdmin(ctx, admin, admin.ID, services.UpdateUserInput{Role: types.Some(models.RoleUser)})
	requireKind(t, err, types.KindValidation)

	_, err = svc.Users.UpdateByAdmin(ctx, admin, admin.ID, services.UpdateUserInput{IsActive: types.Some(false)})
	requireKind(t, err, types.KindValidation)

	reloaded, err := svc.Users.Get(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)
	assert.True(t, reloaded.IsActive)

	updated, err := svc.Users.UpdateByAdmin(ctx, admin, user.ID, services.UpdateUserInput{IsActive: types.Some(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, int64(1), count(t, db, &models.AuditLog{}))
}

func TestEnsureAdmin(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()

	require.NoError(t, svc.Users.EnsureAdmin(ctx, "", "", ""))
	assert.Equal(t, int64(0), count(t, db, &models.User{}))

	require.NoError(t, svc.Users.EnsureAdmin(ctx, "root", "root@example.com", "Admin1234"))
	require.NoError(t, svc.Users.EnsureAdmin(ctx, "root2", "root2@example.com", "Admin1234"))
	assert.Equal(t, int64(1), count(t, db, &models.User{}))
}

func TestCreateDonation(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "donor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	d, err := svc.Donations.Create(ctx, user, services.DonationInput{
		HomeID: types.FlexUint(home.ID),
		Amount: decimal.RequireFromString("25.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DonationPending, d.Status)
	assert.Equal(t, models.DonationMonetary, d.DonationType)

	for _, amount := range []string{"0", "-5", "1.005"} {
		_, err = svc.Donations.Create(ctx, user, services.DonationInput{
			HomeID: types.FlexUint(home.ID),
			Amount: decimal.RequireFromString(amount),
		})
		requireKind(t, err, types.KindValidation)
	}

	testutil.DeactivateHome(t, db, home)
	_, err = svc.Donations.Create(ctx, user, services.DonationInput{HomeID: types.FlexUint(home.ID), Amount: decimal.NewFromInt(5)})
	requireKind(t, err, types.KindNotFound)
	assert.Equal(t, int64(1), count(t, db, &models.Donation{}))
}

func batch(homeID uint, amounts ...string) []services.DonationInput {
	items := make([]services.DonationInput, len(amounts))
	for i, a := range amounts {
		items[i] = services.DonationInput{HomeID: types.FlexUint(homeID), Amount: decimal.RequireFromString(a)}
	}
	return items
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "donor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	_, err := svc.Donations.CreateBatch(ctx, user, batch(home.ID, "10", "20", "0", "40", "50"))
	ce := requireKind(t, err, types.KindValidation)
	assert.Equal(t, "donations[2].amount", ce.Field)
	assert.Equal(t, int64(0), count(t, db, &models.Donation{}))

	items := batch(home.ID, "10", "20")
	items = append(items, services.DonationInput{HomeID: 9999, Amount: decimal.NewFromInt(5)})
	_, err = svc.Donations.CreateBatch(ctx, user, items)
	ce = requireKind(t, err, types.KindNotFound)
	assert.Equal(t, "Home with id 9999 not found", ce.Message)
	assert.Equal(t, int64(0), count(t, db, &models.Donation{}))

	_, err = svc.Donations.CreateBatch(ctx, user, nil)
	requireKind(t, err, types.KindValidation)

	created, err := svc.Donations.CreateBatch(ctx, user, batch(home.ID, "1", "2", "3"))
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Equal(t, int64(3), count(t, db, &models.Donation{}))
}

func TestCreateBatchRollsBackOnInsertFailure(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "donor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	inserts := 0
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_third_donation", func(tx *gorm.DB) {
		if tx.Statement.Table != "donations" {
			return
		}
		inserts++
		if inserts == 3 {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = svc.Donations.CreateBatch(ctx, user, batch(home.ID, "10", "20", "30", "40", "50"))
	requireKind(t, err, types.KindUnexpected)
	assert.Equal(t, 3, inserts)
	assert.Equal(t, int64(0), count(t, db, &models.Donation{}))
}

func TestDonationStatusTransitions(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "donor", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")
	pending := testutil.CreateDonation(t, db, user.ID, home.ID, "10", models.DonationPending)

	done, err := svc.Donations.UpdateStatus(ctx, admin, pending, services.DonationStatusInput{Status: models.DonationCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.DonationCompleted, done.Status)
	assert.Regexp(t, `^TXN-`, done.TransactionReference)
	assert.Equal(t, int64(1), count(t, db, &models.AuditLog{}))

	_, err = svc.Donations.UpdateStatus(ctx, admin, done, services.DonationStatusInput{Status: models.DonationPending})
	ce := requireKind(t, err, types.KindValidation)
	assert.Equal(t, "Cannot change donation status from completed to pending", ce.Message)

	other := testutil.CreateDonation(t, db, user.ID, home.ID, "10", models.DonationPending)
	cancelled, err := svc.Donations.UpdateStatus(ctx, nil, other, services.DonationStatusInput{
		Status:               models.DonationCancelled,
		TransactionReference: " REF-1 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "REF-1", cancelled.TransactionReference)
	assert.Equal(t, int64(1), count(t, db, &models.AuditLog{}))

	_, err = svc.Donations.UpdateStatus(ctx, nil, cancelled, services.DonationStatusInput{Status: "refunded"})
	requireKind(t, err, types.KindValidation)
}

func TestReviews(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "reviewer", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	for _, rating := range []int{0, 6} {
		_, err := svc.Reviews.Create(ctx, user, services.ReviewInput{HomeID: types.FlexUint(home.ID), Rating: rating})
		ce := requireKind(t, err, types.KindValidation)
		assert.Equal(t, "rating", ce.Field)
	}

	review, err := svc.Reviews.Create(ctx, user, services.ReviewInput{HomeID: types.FlexUint(home.ID), Rating: 4, Title: " Lovely "})
	require.NoError(t, err)
	assert.True(t, review.IsApproved)
	assert.Equal(t, "Lovely", review.Title)

	_, err = svc.Reviews.Create(ctx, user, services.ReviewInput{HomeID: types.FlexUint(home.ID), Rating: 5})
	ce := requireKind(t, err, types.KindConflict)
	assert.Equal(t, "You have already reviewed this home", ce.Message)

	updated, err := svc.Reviews.Update(ctx, review, services.ReviewUpdateInput{Rating: types.Some(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "Lovely", updated.Title)

	_, err = svc.Reviews.Update(ctx, review, services.ReviewUpdateInput{Rating: types.Some(9)})
	requireKind(t, err, types.KindValidation)

	hr, err := svc.Reviews.ForHome(ctx, home.ID, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), hr.Summary.TotalReviews)
	assert.Equal(t, 2.0, hr.Summary.AverageRating)

	require.NoError(t, svc.Reviews.Delete(ctx, review))
	assert.Equal(t, int64(0), count(t, db, &models.Review{}))
}

func TestCreateVisit(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "visitor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	_, err := svc.Visits.Create(ctx, user, services.VisitInput{HomeID: types.FlexUint(home.ID), VisitDate: "2026-05-31"})
	ce := requireKind(t, err, types.KindValidation)
	assert.Equal(t, "Visit date cannot be in the past", ce.Message)

	_, err = svc.Visits.Create(ctx, user, services.VisitInput{HomeID: types.FlexUint(home.ID), VisitDate: "01/06/2026"})
	requireKind(t, err, types.KindValidation)

	zero := 0
	_, err = svc.Visits.Create(ctx, user, services.VisitInput{HomeID: types.FlexUint(home.ID), VisitDate: "2026-06-05", NumberOfVisitors: &zero})
	ce = requireKind(t, err, types.KindValidation)
	assert.Equal(t, "number_of_visitors", ce.Field)

	badTime := "25:99"
	_, err = svc.Visits.Create(ctx, user, services.VisitInput{HomeID: types.FlexUint(home.ID), VisitDate: "2026-06-05", VisitTime: &badTime})
	requireKind(t, err, types.KindValidation)

	at := "14:30"
	visit, err := svc.Visits.Create(ctx, user, services.VisitInput{HomeID: types.FlexUint(home.ID), VisitDate: "2026-06-01", VisitTime: &at})
	require.NoError(t, err)
	assert.Equal(t, models.VisitPending, visit.Status)
	assert.Equal(t, 1, visit.NumberOfVisitors)
	assert.Equal(t, int64(1), count(t, db, &models.Visit{}))
}

func TestVisitLifecycle(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "visitor", models.RoleUser)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")

	visit := testutil.CreateVisit(t, db, user.ID, home.ID, testutil.Date(2026, 6, 10), models.VisitPending)
	updated, err := svc.Visits.Update(ctx, visit, services.VisitUpdateInput{
		VisitDate:        types.Some("2026-06-11"),
		NumberOfVisitors: types.Some(4),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.NumberOfVisitors)

	confirmed, err := svc.Visits.AdminUpdateStatus(ctx, admin, visit.ID, services.VisitStatusInput{
		Status:     models.VisitConfirmed,
		AdminNotes: types.Some("See you then"),
	})
	require.NoError(t, err)
	assert.Equal(t, "See you then", confirmed.AdminNotes)
	assert.Equal(t, int64(1), count(t, db, &models.AuditLog{}))

	_, err = svc.Visits.Update(ctx, confirmed, services.VisitUpdateInput{Notes: types.Some("x")})
	ce := requireKind(t, err, types.KindValidation)
	assert.Equal(t, "Only pending visits can be updated", ce.Message)

	cancelled, err := svc.Visits.Cancel(ctx, confirmed)
	require.NoError(t, err)
	assert.Equal(t, models.VisitCancelled, cancelled.Status)

	_, err = svc.Visits.Cancel(ctx, cancelled)
	ce = requireKind(t, err, types.KindValidation)
	assert.Equal(t, "Visit is already cancelled", ce.Message)

	done := testutil.CreateVisit(t, db, user.ID, home.ID, testutil.Date(2026, 6, 12), models.VisitCompleted)
	_, err = svc.Visits.Cancel(ctx, done)
	ce = requireKind(t, err, types.KindValidation)
	assert.Equal(t, "Cannot cancel a completed visit", ce.Message)

	_, err = svc.Visits.AdminUpdateStatus(ctx, admin, 9999, services.VisitStatusInput{Status: models.VisitConfirmed})
	requireKind(t, err, types.KindNotFound)
}

func TestHomeAdminAuditTrail(t *testing.T) {
	svc, db := newServices(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)

	home, err := svc.Homes.Create(ctx, admin, services.HomeInput{Name: " Hope ", Location: "Nairobi"})
	require.NoError(t, err)
	assert.Equal(t, "Hope", home.Name)
	assert.True(t, home.IsActive)

	_, err = svc.Homes.Create(ctx, admin, services.HomeInput{Name: "", Location: "Nairobi"})
	requireKind(t, err, types.KindValidation)

	updated, err := svc.Homes.Update(ctx, admin, home.ID, services.HomeUpdateInput{NeedsDescription: types.Some("Blankets")})
	require.NoError(t, err)
	assert.Equal(t, "Blankets", updated.NeedsDescription)
	assert.Equal(t, "Nairobi", updated.Location)

	require.NoError(t, svc.Homes.Deactivate(ctx, admin, home.ID))
	_, err = svc.Homes.Get(ctx, home.ID)
	requireKind(t, err, types.KindNotFound)

	entries, err := svc.Activity.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.AuditDeactivate, entries[0].Action)
	assert.Equal(t, models.AuditCreate, entries[2].Action)
	for _, e := range entries {
		assert.Equal(t, admin.ID, e.AdminUserID)
		assert.Equal(t, "home", e.ResourceType)
		assert.Equal(t, home.ID, e.ResourceID)
	}
}

func TestAnalyticsOverview(t *testing.T) {
	svc, db := newServices(t)
	user := testutil.CreateUser(t, db, "donor", models.RoleUser)
	home := testutil.CreateHome(t, db, "Hope", "Nairobi")
	testutil.CreateDonation(t, db, user.ID, home.ID, "12.25", models.DonationCompleted)

	o, err := svc.Analytics.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.TotalDonations)
	assert.True(t, decimal.RequireFromString("12.25").Equal(o.TotalDonationAmount))
}
