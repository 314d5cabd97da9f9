package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	MethodMpesa PaymentMethod = "mpesa"
	MethodCard  PaymentMethod = "card"
)

type PaymentPlan string

const (
	PlanMonthly PaymentPlan = "monthly"
	PlanAnnual  PaymentPlan = "annual"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records a simulated subscription payment made by an agent.
// Reference holds a masked phone number or the card's last four digits.
type Payment struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	AgentID   string        `db:"agent_id" json:"agentId"`
	AgentName string        `db:"agent_name" json:"agent"`
	Method    PaymentMethod `db:"method" json:"method"`
	Plan      PaymentPlan   `db:"plan" json:"plan"`
	Amount    float64       `db:"amount" json:"amount"`
	Reference string        `db:"reference" json:"reference"`
	Status    PaymentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"date"`
}
