package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
)

// ErrUnknownTrigger is returned for a trigger name the backend does not run.
var ErrUnknownTrigger = errors.New("unknown trigger")

// ErrUnknownAction is returned for a dunning rule action the backend does
// not support.
var ErrUnknownAction = errors.New("unknown dunning action")

// Batch jobs an administrator can start by hand.
const (
	TriggerInvoiceCreation = "invoice-creation"
	TriggerBillingCycle    = "billing-cycle"
	TriggerDunning         = "dunning"
	TriggerUsage           = "usage"
)

var triggers = []string{TriggerInvoiceCreation, TriggerBillingCycle, TriggerDunning, TriggerUsage}

// AdminAPI binds the back-office endpoints under /api/admin.
type AdminAPI struct {
	*Client
}

// Stats returns the dashboard counters. The backend does not fix the set
// of keys.
func (a *AdminAPI) Stats(ctx context.Context) (map[string]any, error) {
	stats := map[string]any{}
	if err := a.Do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *AdminAPI) TopRiskAccounts(ctx context.Context) ([]AdminCustomer, error) {
	var customers []AdminCustomer
	if err := a.Do(ctx, http.MethodGet, "/top-risk-accounts", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Trigger starts one of the batch jobs and returns the backend's message.
func (a *AdminAPI) Trigger(ctx context.Context, kind string) (string, error) {
	if !slices.Contains(triggers, kind) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrigger, kind)
	}

	resp := map[string]string{}
	if err := a.Do(ctx, http.MethodPost, "/trigger/"+kind, nil, &resp); err != nil {
		return "", err
	}
	return resp["message"], nil
}

func (a *AdminAPI) Customers(ctx context.Context) ([]AdminCustomer, error) {
	var customers []AdminCustomer
	if err := a.Do(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (a *AdminAPI) UpdateCustomer(ctx context.Context, id int64, update AdminCustomerUpdate) (*AdminCustomer, error) {
	var customer AdminCustomer
	if err := a.Do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), update, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (a *AdminAPI) Rules(ctx context.Context) ([]DunningRule, error) {
	var rules []DunningRule
	if err := a.Do(ctx, http.MethodGet, "/rules", nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func checkAction(action string) error {
	if !slices.Contains(DunningActions, action) {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func (a *AdminAPI) CreateRule(ctx context.Context, rule DunningRule) (*DunningRule, error) {
	if err := checkAction(rule.ActionToTake); err != nil {
		return nil, err
	}

	var created DunningRule
	if err := a.Do(ctx, http.MethodPost, "/rules", rule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *AdminAPI) UpdateRule(ctx context.Context, id int64, rule DunningRule) (*DunningRule, error) {
	if err := checkAction(rule.ActionToTake); err != nil {
		return nil, err
	}

	var updated DunningRule
	if err := a.Do(ctx, http.MethodPut, fmt.Sprintf("/rules/%d", id), rule, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *AdminAPI) DeleteRule(ctx context.Context, id int64) error {
	return a.Do(ctx, http.MethodDelete, fmt.Sprintf("/rules/%d", id), nil, nil)
}

func (a *AdminAPI) Logs(ctx context.Context) ([]DunningLog, error) {
	var logs []DunningLog
	if err := a.Do(ctx, http.MethodGet, "/logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (a *AdminAPI) CuredPayments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := a.Do(ctx, http.MethodGet, "/cured-payments", nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (a *AdminAPI) Payments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := a.Do(ctx, http.MethodGet, "/payments", nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (a *AdminAPI) CustomerInvoices(ctx context.Context, customerID int64) ([]Invoice, error) {
	var invoices []Invoice
	if err := a.Do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d/invoices", customerID), nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// UpdateInvoiceDueDate moves an invoice's due date; dueDate is YYYY-MM-DD.
func (a *AdminAPI) UpdateInvoiceDueDate(ctx context.Context, invoiceID int64, dueDate string) (*Invoice, error) {
	var invoice Invoice
	body := map[string]string{"dueDate": dueDate}
	if err := a.Do(ctx, http.MethodPut, fmt.Sprintf("/invoices/%d/due-date", invoiceID), body, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (a *AdminAPI) Chat(ctx context.Context, message, chatID string) (*ChatResponse, error) {
	var resp ChatResponse
	if err := a.Do(ctx, http.MethodPost, "/chat", ChatRequest{Message: message, ChatID: chatID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AdminAPI) ClearChat(ctx context.Context) error {
	return a.Do(ctx, http.MethodDelete, "/chat/clear", nil, nil)
}
