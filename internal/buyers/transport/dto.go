package transport

import (
	"encoding/json"
	"time"
)

// Enum values
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypePlot      PropertyType = "Plot"
	PropertyTypeOffice    PropertyType = "Office"
	PropertyTypeRetail    PropertyType = "Retail"
)

// BHK is the bedroom-hall-kitchen category. The wire accepts the short tokens
// "1".."4" as well; the normalizer maps them onto these canonical values.
type BHK string

const (
	BHKOne    BHK = "One"
	BHKTwo    BHK = "Two"
	BHKThree  BHK = "Three"
	BHKFour   BHK = "Four"
	BHKStudio BHK = "Studio"
)

type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

type Timeline string

const (
	TimelineZeroToThree Timeline = "ZeroToThreeMonths"
	TimelineThreeToSix  Timeline = "ThreeToSixMonths"
	TimelineMoreThanSix Timeline = "MoreThanSixMonths"
	TimelineExploring   Timeline = "Exploring"
)

type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "WalkIn"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

type Status string

const (
	StatusNew         Status = "New"
	StatusQualified   Status = "Qualified"
	StatusContacted   Status = "Contacted"
	StatusVisited     Status = "Visited"
	StatusNegotiation Status = "Negotiation"
	StatusConverted   Status = "Converted"
	StatusDropped     Status = "Dropped"
)

// BuyerInput is the normalized shape every mutation path validates: single
// create, full-shape update, and each bulk-import row.
type BuyerInput struct {
	FullName     string   `json:"fullName" validate:"required,min=2,max=80"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone" validate:"required,min=10,max=15"`
	City         string   `json:"city" validate:"required,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=Apartment Villa Plot Office Retail"`
	BHK          string   `json:"bhk" validate:"omitempty,oneof=One Two Three Four Studio"`
	Purpose      string   `json:"purpose" validate:"required,oneof=Buy Rent"`
	BudgetMin    *int64   `json:"budgetMin" validate:"omitempty,gt=0"`
	BudgetMax    *int64   `json:"budgetMax" validate:"omitempty,gt=0"`
	Timeline     string   `json:"timeline" validate:"required,oneof=ZeroToThreeMonths ThreeToSixMonths MoreThanSixMonths Exploring"`
	Source       string   `json:"source" validate:"required,oneof=Website Referral WalkIn Call Other"`
	Notes        string   `json:"notes" validate:"max=1000"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status" validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
}

// ImportRow is one raw, untrusted row as it arrives on the wire. Budgets may
// be numbers or strings, tags a list, a comma string, or a JSON-array string.
type ImportRow struct {
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	City         string     `json:"city"`
	PropertyType string     `json:"propertyType"`
	BHK          string     `json:"bhk"`
	Purpose      string     `json:"purpose"`
	BudgetMin    FlexNumber `json:"budgetMin"`
	BudgetMax    FlexNumber `json:"budgetMax"`
	Timeline     string     `json:"timeline"`
	Source       string     `json:"source"`
	Notes        string     `json:"notes"`
	Tags         FlexTags   `json:"tags"`
	Status       string     `json:"status"`
}

// ImportRequest is the JSON body of POST /buyers/import.
type ImportRequest struct {
	Data []ImportRow `json:"data"`
}

// ImportResponse reports a committed batch.
type ImportResponse struct {
	Message       string `json:"message"`
	ImportedCount int    `json:"importedCount"`
}

// RowErrors carries all validation errors for one rejected row (1-based index).
type RowErrors struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportErrorResponse is the 400 body when any row fails validation.
type ImportErrorResponse struct {
	Message   string      `json:"message"`
	RowErrors []RowErrors `json:"rowErrors"`
}

// ListBuyersRequest carries list/export filters.
type ListBuyersRequest struct {
	City         string `form:"city" validate:"omitempty,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType string `form:"propertyType" validate:"omitempty,oneof=Apartment Villa Plot Office Retail"`
	Status       string `form:"status" validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
	Timeline     string `form:"timeline" validate:"omitempty,oneof=ZeroToThreeMonths ThreeToSixMonths MoreThanSixMonths Exploring"`
	Search       string `form:"search" validate:"max=100"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
}

// Response DTOs
type BuyerResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        *string   `json:"email,omitempty"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	PropertyType string    `json:"propertyType"`
	BHK          *string   `json:"bhk,omitempty"`
	Purpose      string    `json:"purpose"`
	BudgetMin    *int64    `json:"budgetMin,omitempty"`
	BudgetMax    *int64    `json:"budgetMax,omitempty"`
	Timeline     string    `json:"timeline"`
	Source       string    `json:"source"`
	Notes        *string   `json:"notes,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Status       string    `json:"status"`
	OwnerID      string    `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserSummaryResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type HistoryEntryResponse struct {
	ID        string              `json:"id"`
	ChangedBy UserSummaryResponse `json:"changedBy"`
	ChangedAt time.Time           `json:"changedAt"`
	Diff      json.RawMessage     `json:"diff"`
}

type BuyerDetailResponse struct {
	BuyerResponse
	Owner   UserSummaryResponse    `json:"owner"`
	History []HistoryEntryResponse `json:"history"`
}

type PaginationResponse struct {
	Total int `json:"total"`
	Pages int `json:"pages"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type ListBuyersResponse struct {
	Items      []BuyerResponse    `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}
