package client

import (
	"context"
	"fmt"
	"net/http"
)

// CustomerAPI binds the self-service endpoints under /api/me.
type CustomerAPI struct {
	*Client
}

func (c *CustomerAPI) Status(ctx context.Context) (*CustomerStatus, error) {
	var status CustomerStatus
	if err := c.Do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *CustomerAPI) AddBalance(ctx context.Context, amount float64) (*AdminCustomer, error) {
	var customer AdminCustomer
	body := map[string]float64{"amount": amount}
	if err := c.Do(ctx, http.MethodPost, "/add-balance", body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// PayBill pays the outstanding overdue amount from the account balance. The
// backend answers with a plain text confirmation.
func (c *CustomerAPI) PayBill(ctx context.Context) (string, error) {
	var confirmation string
	if err := c.Do(ctx, http.MethodPost, "/payment", nil, &confirmation); err != nil {
		return "", err
	}
	return confirmation, nil
}

func (c *CustomerAPI) PaymentHistory(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := c.Do(ctx, http.MethodGet, "/payment-history", nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (c *CustomerAPI) Plans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.Do(ctx, http.MethodGet, "/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *CustomerAPI) Subscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	if err := c.Do(ctx, http.MethodGet, "/subscriptions", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *CustomerAPI) Subscribe(ctx context.Context, planID int64) error {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/subscribe/%d", planID), nil, nil)
}

func (c *CustomerAPI) CancelSubscription(ctx context.Context, subscriptionID int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/subscriptions/%d", subscriptionID), nil, nil)
}

func (c *CustomerAPI) UpdateProfile(ctx context.Context, update ProfileUpdate) (*AdminCustomer, error) {
	var customer AdminCustomer
	if err := c.Do(ctx, http.MethodPut, "/profile", update, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *CustomerAPI) Notifications(ctx context.Context) ([]DunningLog, error) {
	var logs []DunningLog
	if err := c.Do(ctx, http.MethodGet, "/notifications", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *CustomerAPI) Chat(ctx context.Context, message, chatID string) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.Do(ctx, http.MethodPost, "/chat", ChatRequest{Message: message, ChatID: chatID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *CustomerAPI) ClearChat(ctx context.Context) error {
	return c.Do(ctx, http.MethodDelete, "/chat/clear", nil, nil)
}
