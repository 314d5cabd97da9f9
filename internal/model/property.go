package model

import (
	"errors"
	"fmt"
	"time"
)

// TransactionType says whether a property is offered for sale, for rent, or as a land parcel.
type TransactionType string

const (
	TypeSale TransactionType = "sale"
	TypeRent TransactionType = "rent"
	TypeLand TransactionType = "land"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeSale, TypeRent, TypeLand:
		return true
	}
	return false
}

func (t TransactionType) String() string { return string(t) }

// ParseTransactionType converts "sale", "rent" or "land" to the enum.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid transaction type: %q", s)
	}
	return t, nil
}

// Status is the moderation lifecycle of a listing.
type Status string

const (
	StatusPublished Status = "published"
	StatusPending   Status = "pending"
	StatusDraft     Status = "draft"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPublished, StatusPending, StatusDraft:
		return true
	}
	return false
}

// Coordinates is a latitude/longitude pair. A property either has both or none.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	City        string       `json:"city"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Property is one listed real-estate unit. Prices are in Tanzanian Shillings.
// Values are treated as immutable once built; filters copy them, never edit them.
type Property struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	PropertyType string          `json:"propertyType"`
	Type         TransactionType `json:"type"`
	Price        float64         `json:"price"`
	Location     Location        `json:"location"`
	Images       []string        `json:"images"`
	Bedrooms     *int            `json:"bedrooms,omitempty"`
	Bathrooms    *int            `json:"bathrooms,omitempty"`
	Area         float64         `json:"area"`
	AgentID      string          `json:"agentId"`
	AgentName    string          `json:"agentName"`
	AgentPhone   string          `json:"agentPhone"`
	Featured     bool            `json:"featured"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	PhotoFileID  string          `json:"-"`
}

var (
	ErrNoImages     = errors.New("property must have at least one image")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidArea  = errors.New("area must be positive")
)

// Validate checks the invariants the rest of the system relies on. It runs at
// ingestion time (create/update), never inside query code.
func (p *Property) Validate() error {
	if len(p.Images) == 0 {
		return ErrNoImages
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Area <= 0 {
		return ErrInvalidArea
	}
	if !p.Type.Valid() {
		return fmt.Errorf("invalid transaction type: %q", p.Type)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid status: %q", p.Status)
	}
	return nil
}
