// Package seed holds the demo catalogue and accounts used for local runs and tests.
package seed

import (
	"time"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

const (
	demoAgentID    = "2"
	demoAgentName  = "John Agent"
	demoAgentPhone = "+255 712 345 678"
)

func intPtr(v int) *int { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Properties returns a fresh copy of the six demo listings, all in Dar es Salaam.
func Properties() []model.Property {
	return []model.Property{
		{
			ID:           1,
			Title:        "Modern 3BR Apartment in Masaki",
			Description:  "Luxurious apartment with ocean view, fully furnished with modern amenities. Located in the prestigious Masaki neighborhood.",
			Price:        1200000,
			Type:         model.TypeSale,
			PropertyType: "Apartment",
			Location: model.Location{
				City:        "Dar es Salaam",
				Address:     "Masaki Peninsula",
				Coordinates: &model.Coordinates{Lat: -6.7635, Lng: 39.2719},
			},
			Images: []string{
				"https://images.unsplash.com/photo-1545324418-cc1a3fa10c00?w=800",
				"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=800",
			},
			Bedrooms:   intPtr(3),
			Bathrooms:  intPtr(2),
			Area:       150,
			AgentID:    demoAgentID,
			AgentName:  demoAgentName,
			AgentPhone: demoAgentPhone,
			Featured:   true,
			Status:     model.StatusPublished,
			CreatedAt:  day("2025-01-10"),
		},
		{
			ID:           2,
			Title:        "Spacious Villa in Mikocheni",
			Description:  "Beautiful 4-bedroom villa with garden and swimming pool. Perfect for families.",
			Price:        2500000,
			Type:         model.TypeSale,
			PropertyType: "Villa",
			Location: model.Location{
				City:        "Dar es Salaam",
				Address:     "Mikocheni A",
				Coordinates: &model.Coordinates{Lat: -6.7700, Lng: 39.2200},
			},
			Images: []string{
				"https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800",
				"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=800",
			},
			Bedrooms:   intPtr(4),
			Bathrooms:  intPtr(3),
			Area:       300,
			AgentID:    demoAgentID,
			AgentName:  demoAgentName,
			AgentPhone: demoAgentPhone,
			Featured:   true,
			Status:     model.StatusPublished,
			CreatedAt:  day("2025-01-15"),
		},
		{
			ID:           3,
			Title:        "Affordable 2BR Flat - Kinondoni",
			Description:  "Cozy 2-bedroom apartment perfect for small families or young professionals.",
			Price:        800,
			Type:         model.TypeRent,
			PropertyType: "Apartment",
			Location: model.Location{
				City:        "Dar es Salaam",
				Address:     "Kinondoni",
				Coordinates: &model.Coordinates{Lat: -6.7800, Lng: 39.2300},
			},
			Images:     []string{"https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=800"},
			Bedrooms:   intPtr(2),
			Bathrooms:  intPtr(1),
			Area:       80,
			AgentID:    demoAgentID,
			AgentName:  demoAgentName,
			AgentPhone: demoAgentPhone,
			Featured:   false,
			Status:     model.StatusPublished,
			CreatedAt:  day("2025-01-12"),
		},
		{
			ID:           4,
			Title:        "Prime Land Plot - Tegeta Beach",
			Description:  "2-acre beachfront land perfect for resort or residential development.",
			Price:        500000,
			Type:         model.TypeLand,
			PropertyType: "Land",
			Location: model.Location{
				City:        "Dar es Salaam",
				Address:     "Tegeta Beach",
				Coordinates: &model.Coordinates{Lat: -6.6500, Lng: 39.2100},
			},
			Images:     []string{"https://images.unsplash.com/photo-1500382017468-9049fed747ef?w=800"},
			Area:       8000,
			AgentID:    demoAgentID,
			AgentName:  demoAgentName,
			AgentPhone: demoAgentPhone,
			Featured:   true,
			Status:     model.StatusPublished,
			CreatedAt:  day("2025-01-08"),
		},
		{
			ID:           5,
			Title:        "Office Space in City Center",
			Description:  "Modern office space in prime location, suitable for businesses.",
			Price:        1500,
			Type:         model.TypeRent,
			PropertyType: "Commercial",
			Location: model.Location{
				City:        "Dar es Salaam",
				Address:     "CBD",
				Coordinates: &model.Coordinates{Lat: -6.8160, Lng: 39.2803},
			},
			Images:     []string{"https://images.unsplash.com/photo-1497366216548-37526070297c?w=800"},
			Area:       120,
			AgentID:    demoAgentID,
			AgentName:  demoAgentName,
			AgentPhone: demoAgentPhone,
			Featured:   false,
			Status:     model.StatusPublished,
			CreatedAt:  day("2025-01-14"),
		},
		{
			ID:           6,
			Title:        "Luxury Penthouse - Oysterbay",
			Description:  "Ultra-modern penthouse with panoramic city and ocean views.",
			Price:        3500000,
			Type:         model.TypeSale,
			PropertyType: "Penthouse",
			Location: model.Location{
				City:        "Dar es Salaam",
				Address:     "Oysterbay",
				Coordinates: &model.Coordinates{Lat: -6.7700, Lng: 39.2650},
			},
			Images:     []string{"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?w=800"},
			Bedrooms:   intPtr(5),
			Bathrooms:  intPtr(4),
			Area:       400,
			AgentID:    demoAgentID,
			AgentName:  demoAgentName,
			AgentPhone: demoAgentPhone,
			Featured:   true,
			Status:     model.StatusPublished,
			CreatedAt:  day("2025-01-16"),
		},
	}
}
