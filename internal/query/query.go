// Package query filters and summarises in-memory property collections.
//
// Every function here is pure: it reads the source slice, never modifies it,
// and returns a freshly allocated result. Callers may run queries from any
// number of goroutines over the same source.
package query

import (
	"math"
	"sort"
	"strings"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

// All is the sentinel value that disables the type and city filters.
const All = "all"

// Field names a property attribute that free-text search can look at.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldPropertyType
	FieldCity
	FieldAddress
)

// DefaultFields is the canonical free-text field set used when a Descriptor
// does not name its own.
var DefaultFields = []Field{FieldTitle, FieldDescription, FieldPropertyType, FieldCity, FieldAddress}

// Descriptor describes a single query. The zero value matches everything.
type Descriptor struct {
	Search string
	// Fields overrides DefaultFields for the free-text match.
	Fields []Field
	// Type is a transaction type, All, or empty. Any other value matches nothing.
	Type string
	// City is an exact city name, All, or empty.
	City               string
	RequireCoordinates bool
}

// ParseDescriptor builds a Descriptor from raw request values.
func ParseDescriptor(search, txType, city string, requireCoordinates bool) Descriptor {
	return Descriptor{
		Search:             strings.TrimSpace(search),
		Type:               strings.TrimSpace(txType),
		City:               strings.TrimSpace(city),
		RequireCoordinates: requireCoordinates,
	}
}

// Query returns the properties of source that satisfy every active predicate
// of d, in source order.
func Query(source []model.Property, d Descriptor) []model.Property {
	term := strings.ToLower(strings.TrimSpace(d.Search))
	fields := d.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	typeActive := d.Type != "" && d.Type != All
	cityActive := d.City != "" && d.City != All

	out := make([]model.Property, 0, len(source))
	var txType model.TransactionType
	if typeActive {
		t, err := model.ParseTransactionType(d.Type)
		if err != nil {
			return out
		}
		txType = t
	}
	for i := range source {
		p := &source[i]
		if term != "" && !matchesText(p, term, fields) {
			continue
		}
		if typeActive && p.Type != txType {
			continue
		}
		if cityActive && p.Location.City != d.City {
			continue
		}
		if d.RequireCoordinates && !HasCoordinates(p) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func matchesText(p *model.Property, term string, fields []Field) bool {
	for _, f := range fields {
		var v string
		switch f {
		case FieldTitle:
			v = p.Title
		case FieldDescription:
			v = p.Description
		case FieldPropertyType:
			v = p.PropertyType
		case FieldCity:
			v = p.Location.City
		case FieldAddress:
			v = p.Location.Address
		default:
			continue
		}
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// HasCoordinates reports whether p can be placed on a map.
func HasCoordinates(p *model.Property) bool {
	c := p.Location.Coordinates
	if c == nil {
		return false
	}
	return isFinite(c.Lat) && isFinite(c.Lng)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Facets holds the distinct filterable values of a collection.
type Facets struct {
	Cities []string                `json:"cities"`
	Types  []model.TransactionType `json:"types"`
}

// DeriveFacets returns the distinct cities and transaction types of source,
// each sorted alphabetically.
func DeriveFacets(source []model.Property) Facets {
	cities := map[string]struct{}{}
	types := map[model.TransactionType]struct{}{}
	for i := range source {
		cities[source[i].Location.City] = struct{}{}
		types[source[i].Type] = struct{}{}
	}

	f := Facets{
		Cities: make([]string, 0, len(cities)),
		Types:  make([]model.TransactionType, 0, len(types)),
	}
	for c := range cities {
		f.Cities = append(f.Cities, c)
	}
	for t := range types {
		f.Types = append(f.Types, t)
	}
	sort.Strings(f.Cities)
	sort.Slice(f.Types, func(i, j int) bool { return f.Types[i] < f.Types[j] })
	return f
}

// Featured returns up to limit featured properties in source order.
func Featured(source []model.Property, limit int) []model.Property {
	out := make([]model.Property, 0)
	if limit <= 0 {
		return out
	}
	for i := range source {
		if !source[i].Featured {
			continue
		}
		out = append(out, source[i])
		if len(out) == limit {
			break
		}
	}
	return out
}
