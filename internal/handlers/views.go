package handlers

import (
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// UserView is the public shape of a user
type UserView struct {
	ID         uint        `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Role       models.Role `json:"role"`
	IsActive   bool        `json:"is_active"`
	DateJoined time.Time   `json:"date_joined"`
}

func newUserView(u *models.User) UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined,
	}
}

// HomeView is a home with its derived metrics
type HomeView struct {
	ID                     uint            `json:"id"`
	Name                   string          `json:"name"`
	Description            string          `json:"description"`
	Location               string          `json:"location"`
	Address                string          `json:"address"`
	PhoneNumber            string          `json:"phone_number"`
	Email                  string          `json:"email"`
	Capacity               *int            `json:"capacity"`
	CurrentChildrenCount   int             `json:"current_children_count"`
	EstablishedDate        *string         `json:"established_date"`
	ContactPerson          string          `json:"contact_person"`
	Website                string          `json:"website"`
	ImageURL               string          `json:"image_url"`
	NeedsDescription       string          `json:"needs_description"`
	IsActive               bool            `json:"is_active"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	AverageRating          float64         `json:"average_rating"`
	TotalDonationsReceived decimal.Decimal `json:"total_donations_received"`
	TotalVisits            int64           `json:"total_visits"`
	ReviewsCount           int64           `json:"reviews_count"`
}

func newHomeView(h *models.ChildrensHome, s store.HomeStats) HomeView {
	return HomeView{
		ID:                     h.ID,
		Name:                   h.Name,
		Description:            h.Description,
		Location:               h.Location,
		Address:                h.Address,
		PhoneNumber:            h.PhoneNumber,
		Email:                  h.Email,
		Capacity:               h.Capacity,
		CurrentChildrenCount:   h.CurrentChildrenCount,
		EstablishedDate:        models.FormatDatePtr(h.EstablishedDate),
		ContactPerson:          h.ContactPerson,
		Website:                h.Website,
		ImageURL:               h.ImageURL,
		NeedsDescription:       h.NeedsDescription,
		IsActive:               h.IsActive,
		CreatedAt:              h.CreatedAt,
		UpdatedAt:              h.UpdatedAt,
		AverageRating:          s.AverageRating,
		TotalDonationsReceived: s.TotalDonationsReceived,
		TotalVisits:            s.TotalVisits,
		ReviewsCount:           s.ReviewsCount,
	}
}

func newHomeViews(homes []models.ChildrensHome, stats map[uint]store.HomeStats) []HomeView {
	out := make([]HomeView, len(homes))
	for i := range homes {
		s, ok := stats[homes[i].ID]
		if !ok {
			s = store.HomeStats{TotalDonationsReceived: decimal.Zero}
		}
		out[i] = newHomeView(&homes[i], s)
	}
	return out
}

// DonationView adds the donor and home names to a donation
type DonationView struct {
	ID                   uint                  `json:"id"`
	UserID               uint                  `json:"user_id"`
	HomeID               uint                  `json:"home_id"`
	Amount               decimal.Decimal       `json:"amount"`
	DonationType         models.DonationType   `json:"donation_type"`
	Description          string                `json:"description"`
	Status               models.DonationStatus `json:"status"`
	PaymentMethod        string                `json:"payment_method"`
	TransactionReference string                `json:"transaction_reference"`
	Anonymous            bool                  `json:"anonymous"`
	MessageToHome        string                `json:"message_to_home"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	DonorName            string                `json:"donor_name"`
	HomeName             *string               `json:"home_name"`
}

func newDonationView(d *models.Donation) DonationView {
	v := DonationView{
		ID:                   d.ID,
		UserID:               d.UserID,
		HomeID:               d.HomeID,
		Amount:               d.Amount,
		DonationType:         d.DonationType,
		Description:          d.Description,
		Status:               d.Status,
		PaymentMethod:        d.PaymentMethod,
		TransactionReference: d.TransactionReference,
		Anonymous:            d.Anonymous,
		MessageToHome:        d.MessageToHome,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		DonorName:            d.DonorName(),
	}
	if d.Home != nil {
		v.HomeName = &d.Home.Name
	}
	return v
}

func newDonationViews(items []models.Donation) []DonationView {
	out := make([]DonationView, len(items))
	for i := range items {
		out[i] = newDonationView(&items[i])
	}
	return out
}

// ReviewView adds the reviewer and home names to a review
type ReviewView struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	HomeID       uint      `json:"home_id"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title"`
	Comment      string    `json:"comment"`
	VisitDate    *string   `json:"visit_date"`
	Anonymous    bool      `json:"anonymous"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ReviewerName string    `json:"reviewer_name"`
	HomeName     *string   `json:"home_name"`
}

func newReviewView(r *models.Review) ReviewView {
	v := ReviewView{
		ID:           r.ID,
		UserID:       r.UserID,
		HomeID:       r.HomeID,
		Rating:       r.Rating,
		Title:        r.Title,
		Comment:      r.Comment,
		VisitDate:    models.FormatDatePtr(r.VisitDate),
		Anonymous:    r.Anonymous,
		IsApproved:   r.IsApproved,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		ReviewerName: r.ReviewerName(),
	}
	if r.Home != nil {
		v.HomeName = &r.Home.Name
	}
	return v
}

func newReviewViews(items []models.Review) []ReviewView {
	out := make([]ReviewView, len(items))
	for i := range items {
		out[i] = newReviewView(&items[i])
	}
	return out
}

// VisitView adds the visitor and home details to a visit
type VisitView struct {
	ID               uint               `json:"id"`
	UserID           uint               `json:"user_id"`
	HomeID           uint               `json:"home_id"`
	VisitDate        string             `json:"visit_date"`
	VisitTime        *string            `json:"visit_time"`
	NumberOfVisitors int                `json:"number_of_visitors"`
	Purpose          string             `json:"purpose"`
	SpecialRequests  string             `json:"special_requests"`
	Status           models.VisitStatus `json:"status"`
	ContactPhone     string             `json:"contact_phone"`
	Notes            string             `json:"notes"`
	AdminNotes       string             `json:"admin_notes"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	VisitorName      *string            `json:"visitor_name"`
	HomeName         *string            `json:"home_name"`
	HomeLocation     *string            `json:"home_location"`
}

func newVisitView(v *models.Visit) VisitView {
	out := VisitView{
		ID:               v.ID,
		UserID:           v.UserID,
		HomeID:           v.HomeID,
		VisitDate:        models.FormatDate(v.VisitDate),
		VisitTime:        models.FormatTimeOfDay(v.VisitTime),
		NumberOfVisitors: v.NumberOfVisitors,
		Purpose:          v.Purpose,
		SpecialRequests:  v.SpecialRequests,
		Status:           v.Status,
		ContactPhone:     v.ContactPhone,
		Notes:            v.Notes,
		AdminNotes:       v.AdminNotes,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
	if v.User != nil {
		name := v.User.FullName()
		out.VisitorName = &name
	}
	if v.Home != nil {
		out.HomeName = &v.Home.Name
		out.HomeLocation = &v.Home.Location
	}
	return out
}

func newVisitViews(items []models.Visit) []VisitView {
	out := make([]VisitView, len(items))
	for i := range items {
		out[i] = newVisitView(&items[i])
	}
	return out
}

// RankedHomeView is one leaderboard entry; only the relevant metrics are set
type RankedHomeView struct {
	ID             uint             `json:"id"`
	Name           string           `json:"name"`
	Location       string           `json:"location"`
	VisitCount     *int64           `json:"visit_count,omitempty"`
	TotalDonations *decimal.Decimal `json:"total_donations,omitempty"`
	DonationCount  *int64           `json:"donation_count,omitempty"`
	AverageRating  *float64         `json:"average_rating,omitempty"`
	ReviewCount    *int64           `json:"review_count,omitempty"`
}

// HomeAnalyticsView groups the admin leaderboards
type HomeAnalyticsView struct {
	MostVisited []RankedHomeView `json:"most_visited"`
	MostDonated []RankedHomeView `json:"most_donated"`
	MostInNeed  []RankedHomeView `json:"most_in_need"`
	BestRated   []RankedHomeView `json:"best_rated"`
}

func newHomeAnalyticsView(r store.HomeRankings) HomeAnalyticsView {
	base := func(h store.RankedHome) RankedHomeView {
		return RankedHomeView{ID: h.HomeID, Name: h.Name, Location: h.Location}
	}
	out := HomeAnalyticsView{
		MostVisited: make([]RankedHomeView, 0, len(r.MostVisited)),
		MostDonated: make([]RankedHomeView, 0, len(r.MostDonated)),
		MostInNeed:  make([]RankedHomeView, 0, len(r.MostInNeed)),
		BestRated:   make([]RankedHomeView, 0, len(r.BestRated)),
	}
	for _, h := range r.MostVisited {
		v := base(h)
		v.VisitCount = &h.VisitCount
		out.MostVisited = append(out.MostVisited, v)
	}
	for _, h := range r.MostDonated {
		v := base(h)
		v.TotalDonations = &h.TotalDonated
		v.DonationCount = &h.DonationCount
		out.MostDonated = append(out.MostDonated, v)
	}
	for _, h := range r.MostInNeed {
		v := base(h)
		v.TotalDonations = &h.TotalDonated
		out.MostInNeed = append(out.MostInNeed, v)
	}
	for _, h := range r.BestRated {
		v := base(h)
		v.AverageRating = &h.AverageRating
		v.ReviewCount = &h.ReviewCount
		out.BestRated = append(out.BestRated, v)
	}
	return out
}

func pagination[T any](r store.PageResult[T]) utils.Pagination {
	return utils.Pagination{
		Page:    r.Page,
		PerPage: r.PerPage,
		Total:   r.Total,
		Pages:   r.Pages,
		HasPrev: r.HasPrev(),
		HasNext: r.HasNext(),
	}
}
