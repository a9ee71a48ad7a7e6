// donations.go
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

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/metrics"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"github.com/shopspring/decimal"
)

// DonationInput is one donation in a create request. Amount accepts a JSON
// number or a numeric string.
type DonationInput struct {
	HomeID        types.FlexUint  `json:"home_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	DonationType  string          `json:"donation_type" validate:"omitempty,oneof=monetary goods services"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method" validate:"max=50"`
	Anonymous     bool            `json:"anonymous"`
	MessageToHome string          `json:"message_to_home"`
}

// BatchDonationInput is the multiple-donation payload; a single object is accepted too
type BatchDonationInput struct {
	Donations types.FlexList[DonationInput] `json:"donations"`
}

// DonationStatusInput moves a donation to a new status
type DonationStatusInput struct {
	Status               models.DonationStatus `json:"status" validate:"required,oneof=pending completed cancelled"`
	TransactionReference string                `json:"transaction_reference" validate:"max=100"`
}

// DonationService records donations and their status lifecycle
type DonationService struct {
	store *store.Store
}

// validate checks one input without touching the database
func (in *DonationInput) validate(prefix string) error {
	if err := types.ValidateStructWithPrefix(in, prefix); err != nil {
		return err
	}
	field := "amount"
	if prefix != "" {
		field = prefix + ".amount"
	}
	if !in.Amount.IsPositive() {
		return types.ValidationError(field, "Amount must be greater than 0")
	}
	if in.Amount.GreaterThan(models.MaxDonationAmount) {
		return types.ValidationError(field, "Amount is too large")
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return types.ValidationError(field, "Amount must have at most 2 decimal places")
	}
	return nil
}

func (in *DonationInput) toModel(user *models.User, home *models.ChildrensHome) *models.Donation {
	donationType := models.DonationType(in.DonationType)
	if donationType == "" {
		donationType = models.DonationMonetary
	}
	return &models.Donation{
		UserID:        user.ID,
		User:          user,
		HomeID:        home.ID,
		Home:          home,
		Amount:        in.Amount,
		DonationType:  donationType,
		Description:   in.Description,
		Status:        models.DonationPending,
		PaymentMethod: in.PaymentMethod,
		Anonymous:     in.Anonymous,
		MessageToHome: strings.TrimSpace(in.MessageToHome),
	}
}

// Create records a single pending donation to an active home
func (s *DonationService) Create(ctx context.Context, user *models.User, in DonationInput) (*models.Donation, error) {
	if err := in.validate(""); err != nil {
		return nil, err
	}
	home, err := s.store.Homes.GetActive(ctx, in.HomeID.Uint())
	if err != nil {
		return nil, err
	}

	donation := in.toModel(user, home)
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Donations.Create(ctx, donation)
	})
	if err != nil {
		return nil, err
	}

	metrics.DonationsCreated.WithLabelValues(string(donation.DonationType)).Inc()
	return donation, nil
}

// CreateBatch records several donations atomically. Every item is checked
// before the first insert, and an insert failure rolls back the whole batch.
func (s *DonationService) CreateBatch(ctx context.Context, user *models.User, items []DonationInput) ([]*models.Donation, error) {
	if len(items) == 0 {
		return nil, types.ValidationError("donations", "donations list is required")
	}

	homes := make(map[uint]*models.ChildrensHome)
	for i := range items {
		if err := items[i].validate(fmt.Sprintf("donations[%d]", i)); err != nil {
			return nil, err
		}
		id := items[i].HomeID.Uint()
		if _, ok := homes[id]; ok {
			continue
		}
		home, err := s.store.Homes.GetActive(ctx, id)
		if err != nil {
			if types.IsKind(err, types.KindNotFound) {
				return nil, types.NotFoundError(fmt.Sprintf("Home with id %d", id))
			}
			return nil, err
		}
		homes[id] = home
	}

	donations := make([]*models.Donation, len(items))
	for i := range items {
		donations[i] = items[i].toModel(user, homes[items[i].HomeID.Uint()])
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		for _, d := range donations {
			if err := tx.Donations.Create(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range donations {
		metrics.DonationsCreated.WithLabelValues(string(d.DonationType)).Inc()
	}
	return donations, nil
}

// Get loads a donation with its donor and home
func (s *DonationService) Get(ctx context.Context, id uint) (*models.Donation, error) {
	return s.store.Donations.Get(ctx, id)
}

// ListMine pages through one user's donations
func (s *DonationService) ListMine(ctx context.Context, userID uint, f store.DonationFilter, page store.PageRequest) (store.PageResult[models.Donation], error) {
	f.UserID = userID
	return s.ListAll(ctx, f, page)
}

// ListAll pages through donations for the admin console
func (s *DonationService) ListAll(ctx context.Context, f store.DonationFilter, page store.PageRequest) (store.PageResult[models.Donation], error) {
	if f.Status != "" && !f.Status.Valid() {
		return store.PageResult[models.Donation]{}, types.ValidationError("status", "status must be one of: pending, completed, cancelled")
	}
	return s.store.Donations.List(ctx, f, page)
}

// Stats summarizes a user's giving
func (s *DonationService) Stats(ctx context.Context, userID uint) (store.DonationStats, error) {
	return s.store.Donations.UserStats(ctx, userID)
}

// UpdateStatus moves a donation forward. Completing without a reference
// generates one. A non-nil admin records an audit entry.
func (s *DonationService) UpdateStatus(ctx context.Context, admin *models.User, donation *models.Donation, in DonationStatusInput) (*models.Donation, error) {
	in.TransactionReference = strings.TrimSpace(in.TransactionReference)
	if err := types.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if !donation.Status.CanTransitionTo(in.Status) {
		return nil, types.ValidationError("status",
			fmt.Sprintf("Cannot change donation status from %s to %s", donation.Status, in.Status))
	}

	before := capture(donation)
	donation.Status = in.Status
	if in.TransactionReference != "" {
		donation.TransactionReference = in.TransactionReference
	}
	if donation.Status == models.DonationCompleted && donation.TransactionReference == "" {
		donation.TransactionReference = "TXN-" + uuid.NewString()
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Donations.Save(ctx, donation); err != nil {
			return err
		}
		if admin != nil {
			return recordAudit(ctx, tx, admin, models.AuditStatus, "donation", donation.ID, before, donation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusChanges.WithLabelValues("donation", string(donation.Status)).Inc()
	return donation, nil
}
