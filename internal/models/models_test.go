package models

import (
	"testing"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationTransitions(t *testing.T) {
	assert.True(t, DonationPending.CanTransitionTo(DonationCompleted))
	assert.True(t, DonationPending.CanTransitionTo(DonationCancelled))
	assert.False(t, DonationPending.CanTransitionTo(DonationPending))
	assert.False(t, DonationCompleted.CanTransitionTo(DonationCancelled))
	assert.False(t, DonationCancelled.CanTransitionTo(DonationCompleted))
}

func TestDonationValidateDefaults(t *testing.T) {
	d := &Donation{UserID: 1, HomeID: 2, Amount: decimal.NewFromInt(5)}
	require.NoError(t, d.Validate())
	assert.Equal(t, DonationMonetary, d.DonationType)
	assert.Equal(t, DonationPending, d.Status)

	d.Amount = decimal.Zero
	assert.True(t, types.IsKind(d.Validate(), types.KindValidation))

	d.Amount = MaxDonationAmount.Add(decimal.NewFromInt(1))
	assert.True(t, types.IsKind(d.Validate(), types.KindValidation))
}

func TestVisitStatus(t *testing.T) {
	assert.True(t, VisitPending.Active())
	assert.True(t, VisitConfirmed.Active())
	assert.False(t, VisitCancelled.Active())
	assert.False(t, VisitStatus("lost").Valid())
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", FormatDate(d))

	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)

	nairobi := time.FixedZone("EAT", 3*60*60)
	late := time.Date(2026, 3, 1, 23, 30, 0, 0, nairobi)
	assert.Equal(t, "2026-03-01", FormatDate(DateOf(late)))

	tod, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", *FormatTimeOfDay(&tod))
	assert.Nil(t, FormatTimeOfDay(nil))

	_, err = ParseTimeOfDay("9am")
	assert.Error(t, err)
}

func TestJSONSnapshot(t *testing.T) {
	j, err := NewJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	raw, err := j.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(raw))

	empty, err := NewJSON(nil)
	require.NoError(t, err)
	raw, err = empty.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestUserValidate(t *testing.T) {
	u := &User{Username: "amy", Email: "amy@example.com", FirstName: "Amy", LastName: "Lee", PasswordHash: "x"}
	require.NoError(t, u.Validate())
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, "Amy Lee", u.FullName())

	u.Role = "owner"
	assert.True(t, types.IsKind(u.Validate(), types.KindValidation))
}

func TestReviewBeforeCreateApproves(t *testing.T) {
	r := &Review{UserID: 1, HomeID: 1, Rating: 4}
	require.NoError(t, r.BeforeCreate(nil))
	assert.True(t, r.IsApproved)
}
