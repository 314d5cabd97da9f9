package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josiaO/SmartDalaliTZ/internal/events"
	"github.com/josiaO/SmartDalaliTZ/internal/logger"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

// Subscription prices in TSh.
var PlanAmounts = map[model.PaymentPlan]float64{
	model.PlanMonthly: 50000,
	model.PlanAnnual:  500000,
}

// Receipt is what a client sees right after submitting a payment. The
// payment itself is still pending at that point.
type Receipt struct {
	Payment       *model.Payment `json:"payment"`
	AmountDisplay string         `json:"amountDisplay"`
	AmountUSD     float64        `json:"amountUsd"`
	Message       string         `json:"message"`
}

type CardDetails struct {
	Number string
	Expiry string
	CVC    string
}

// PaymentService simulates subscription payments. Nothing is charged: a
// payment is recorded as pending and marked successful after settleDelay.
type PaymentService struct {
	payments    PaymentStore
	users       UserStore
	events      EventPublisher
	settleDelay time.Duration
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPaymentService(payments PaymentStore, users UserStore, publisher EventPublisher, settleDelay time.Duration) *PaymentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PaymentService{
		payments:    payments,
		users:       users,
		events:      publisher,
		settleDelay: settleDelay,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func invalidPayment(message string) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeInvalidPayment,
		Message:    message,
		Err:        utils.ErrInvalidPayment,
	}
}

func (s *PaymentService) PayMpesa(ctx context.Context, agentID, phone string, plan model.PaymentPlan) (*Receipt, error) {
	if !utils.IsValidMpesaPhone(phone) {
		return nil, invalidPayment("Phone number must have exactly 10 digits")
	}
	return s.record(ctx, agentID, model.MethodMpesa, plan, utils.MaskPhone(utils.DigitsOnly(phone)),
		"Payment request sent. Confirm the prompt on your phone.")
}

func (s *PaymentService) PayCard(ctx context.Context, agentID string, card CardDetails, plan model.PaymentPlan) (*Receipt, error) {
	if !utils.IsValidCardNumber(card.Number) {
		return nil, invalidPayment("Card number must have 16 digits")
	}
	if !utils.IsValidExpiry(card.Expiry, s.now()) {
		return nil, invalidPayment("Expiry must be a future MM/YY date")
	}
	if !utils.IsValidCVC(card.CVC) {
		return nil, invalidPayment("CVC must have 3 or 4 digits")
	}
	digits := utils.DigitsOnly(card.Number)
	return s.record(ctx, agentID, model.MethodCard, plan, "**** "+digits[len(digits)-4:],
		"Card payment is being processed.")
}

func (s *PaymentService) record(ctx context.Context, agentID string, method model.PaymentMethod, plan model.PaymentPlan, reference, message string) (*Receipt, error) {
	amount, ok := PlanAmounts[plan]
	if !ok {
		return nil, invalidPayment(fmt.Sprintf("Unknown plan %q", plan))
	}
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		return nil, utils.NewNotFound("User not found", err)
	}

	p := &model.Payment{
		ID:        uuid.New(),
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Method:    method,
		Plan:      plan,
		Amount:    amount,
		Reference: reference,
		Status:    model.PaymentPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.payments.Insert(ctx, p); err != nil {
		return nil, utils.NewInternal("Failed to record payment", err)
	}
	logger.Log.Infof("Payment %s (%s, %s) recorded for agent %s", p.ID, method, plan, agent.ID)

	s.wg.Add(1)
	go s.settle(*p)

	return &Receipt{
		Payment:       p,
		AmountDisplay: utils.FormatPrice(amount, ""),
		AmountUSD:     utils.TZSToUSD(amount),
		Message:       message,
	}, nil
}

func (s *PaymentService) settle(p model.Payment) {
	defer s.wg.Done()

	timer := time.NewTimer(s.settleDelay)
	defer timer.Stop()
	select {
	case <-s.ctx.Done():
		return
	case <-timer.C:
	}

	if err := s.payments.SetStatus(s.ctx, p.ID, model.PaymentSuccess); err != nil {
		logger.Log.WithError(err).Errorf("failed to settle payment %s", p.ID)
		return
	}
	ev := events.Event{
		Kind:      events.RoutingPaymentSettled,
		PaymentID: p.ID.String(),
		AgentID:   p.AgentID,
		Status:    string(model.PaymentSuccess),
		At:        s.now().UTC(),
	}
	if err := s.events.Publish(s.ctx, events.RoutingPaymentSettled, ev); err != nil {
		logger.Log.WithError(err).Warnf("failed to publish settlement of payment %s", p.ID)
	}
}

// Close abandons pending settlements and waits for their goroutines.
func (s *PaymentService) Close() {
	s.cancel()
	s.wg.Wait()
}
