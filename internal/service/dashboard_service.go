package service

import (
	"context"
	"math"
	"time"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

const (
	adminRecentPayments   = 5
	adminRecentProperties = 5
)

// TrialDaysLeft counts started days until the trial ends. It is zero without
// a trial and never negative.
func TrialDaysLeft(trialEndsAt *time.Time, now time.Time) int {
	if trialEndsAt == nil {
		return 0
	}
	days := math.Ceil(trialEndsAt.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

type AgentStats struct {
	TotalListings      int        `json:"totalListings"`
	PublishedListings  int        `json:"activeListings"`
	PendingListings    int        `json:"pendingListings"`
	TrialDaysLeft      int        `json:"trialDaysLeft"`
	TrialEndsAt        *time.Time `json:"trialEndsAt,omitempty"`
	SubscriptionActive bool       `json:"subscriptionActive"`
}

type AdminStats struct {
	Users            int              `json:"users"`
	Agents           int              `json:"activeAgents"`
	Properties       int              `json:"properties"`
	Revenue          float64          `json:"revenue"`
	RevenueDisplay   string           `json:"revenueDisplay"`
	RecentPayments   []model.Payment  `json:"recentPayments"`
	RecentProperties []model.Property `json:"recentProperties"`
}

type DashboardService struct {
	properties PropertyStore
	users      UserStore
	payments   PaymentStore
	now        func() time.Time
}

func NewDashboardService(properties PropertyStore, users UserStore, payments PaymentStore) *DashboardService {
	return &DashboardService{
		properties: properties,
		users:      users,
		payments:   payments,
		now:        time.Now,
	}
}

func (s *DashboardService) AgentStats(ctx context.Context, agentID string) (*AgentStats, error) {
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		return nil, utils.NewNotFound("User not found", err)
	}
	list, err := s.properties.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, utils.NewInternal("Failed to load agent properties", err)
	}

	stats := &AgentStats{
		TotalListings:      len(list),
		TrialDaysLeft:      TrialDaysLeft(agent.TrialEndsAt, s.now()),
		TrialEndsAt:        agent.TrialEndsAt,
		SubscriptionActive: agent.SubscriptionActive,
	}
	for i := range list {
		switch list[i].Status {
		case model.StatusPublished:
			stats.PublishedListings++
		case model.StatusPending:
			stats.PendingListings++
		}
	}
	return stats, nil
}

func (s *DashboardService) AdminStats(ctx context.Context) (*AdminStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, utils.NewInternal("Failed to count users", err)
	}
	agents, err := s.users.CountByRole(ctx, model.RoleAgent)
	if err != nil {
		return nil, utils.NewInternal("Failed to count agents", err)
	}
	properties, err := s.properties.Count(ctx)
	if err != nil {
		return nil, utils.NewInternal("Failed to count properties", err)
	}
	revenue, err := s.payments.SumSuccessful(ctx)
	if err != nil {
		return nil, utils.NewInternal("Failed to sum revenue", err)
	}
	payments, err := s.payments.ListRecent(ctx, adminRecentPayments)
	if err != nil {
		return nil, utils.NewInternal("Failed to load payments", err)
	}
	recent, err := s.properties.ListAll(ctx, adminRecentProperties)
	if err != nil {
		return nil, utils.NewInternal("Failed to load properties", err)
	}
	if payments == nil {
		payments = []model.Payment{}
	}

	return &AdminStats{
		Users:            users,
		Agents:           agents,
		Properties:       properties,
		Revenue:          revenue,
		RevenueDisplay:   utils.FormatPrice(revenue, ""),
		RecentPayments:   payments,
		RecentProperties: recent,
	}, nil
}
