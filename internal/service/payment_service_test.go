package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josiaO/SmartDalaliTZ/internal/events"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

type paymentFixture struct {
	svc      *PaymentService
	payments *memPaymentStore
	events   *recordingPublisher
}

func newPaymentFixture(t *testing.T, delay time.Duration) paymentFixture {
	t.Helper()
	f := paymentFixture{payments: newMemPaymentStore(), events: &recordingPublisher{}}
	users := newMemUserStore(model.User{ID: "2", Name: "John Agent", Role: model.RoleAgent})
	f.svc = NewPaymentService(f.payments, users, f.events, delay)
	f.svc.now = func() time.Time { return time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(f.svc.Close)
	return f
}

func TestPaymentService_PayMpesa(t *testing.T) {
	f := newPaymentFixture(t, 10*time.Millisecond)

	receipt, err := f.svc.PayMpesa(context.Background(), "2", "0712 345 678", model.PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, receipt.Payment.Status)
	assert.Equal(t, model.MethodMpesa, receipt.Payment.Method)
	assert.Equal(t, "John Agent", receipt.Payment.AgentName)
	assert.Equal(t, "*******678", receipt.Payment.Reference)
	assert.Equal(t, 50000.0, receipt.Payment.Amount)
	assert.Equal(t, "TSh 50,000", receipt.AmountDisplay)
	assert.Equal(t, 21.74, receipt.AmountUSD)

	select {
	case id := <-f.payments.settled:
		assert.Equal(t, receipt.Payment.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("payment was not settled")
	}
	assert.Equal(t, model.PaymentSuccess, f.payments.status(receipt.Payment.ID))
	assert.Eventually(t, func() bool {
		kinds := f.events.kinds()
		return len(kinds) == 1 && kinds[0] == events.RoutingPaymentSettled
	}, time.Second, 5*time.Millisecond)
}

func TestPaymentService_PayMpesaRejects(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	ctx := context.Background()

	for _, phone := range []string{"071234567", "07123456789", "07a2345678", ""} {
		_, err := f.svc.PayMpesa(ctx, "2", phone, model.PlanMonthly)
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, utils.ErrCodeInvalidPayment, appErr.Code, phone)
	}

	_, err := f.svc.PayMpesa(ctx, "2", "0712345678", "weekly")
	requireAppError(t, err, http.StatusBadRequest)

	_, err = f.svc.PayMpesa(ctx, "404", "0712345678", model.PlanMonthly)
	requireAppError(t, err, http.StatusNotFound)
}

func TestPaymentService_PayCard(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)
	ctx := context.Background()

	receipt, err := f.svc.PayCard(ctx, "2", CardDetails{Number: "4242 4242 4242 4242", Expiry: "12/27", CVC: "123"}, model.PlanAnnual)
	require.NoError(t, err)
	assert.Equal(t, "**** 4242", receipt.Payment.Reference)
	assert.Equal(t, 500000.0, receipt.Payment.Amount)
	assert.Equal(t, 217.39, receipt.AmountUSD)

	bad := []CardDetails{
		{Number: "4242 4242 4242", Expiry: "12/27", CVC: "123"},
		{Number: "4242424242424242", Expiry: "13/27", CVC: "123"},
		{Number: "4242424242424242", Expiry: "12/24", CVC: "123"},
		{Number: "4242424242424242", Expiry: "1227", CVC: "123"},
		{Number: "4242424242424242", Expiry: "12/27", CVC: "12"},
		{Number: "4242424242424242", Expiry: "12/27", CVC: "12345"},
	}
	for _, card := range bad {
		_, err := f.svc.PayCard(ctx, "2", card, model.PlanMonthly)
		requireAppError(t, err, http.StatusBadRequest)
	}
}

func TestPaymentService_CloseAbandonsPending(t *testing.T) {
	f := newPaymentFixture(t, time.Hour)

	receipt, err := f.svc.PayMpesa(context.Background(), "2", "0712345678", model.PlanMonthly)
	require.NoError(t, err)

	f.svc.Close()
	assert.Equal(t, model.PaymentPending, f.payments.status(receipt.Payment.ID))
	assert.Empty(t, f.events.kinds())
}
