package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/dunning"
	"github.com/wolfeidau/revenueguard/internal/nav"
)

// MeCmd groups the customer self-service commands.
type MeCmd struct {
	Status        MeStatusCmd        `cmd:"" help:"Show account status"`
	Pay           MePayCmd           `cmd:"" help:"Pay all unpaid invoices from the balance"`
	AddBalance    MeAddBalanceCmd    `cmd:"" name:"add-balance" help:"Top up the account balance"`
	Payments      MePaymentsCmd      `cmd:"" help:"List payment history"`
	Plans         MePlansCmd         `cmd:"" help:"List available plans"`
	Subscriptions MeSubscriptionsCmd `cmd:"" help:"List active subscriptions"`
	Subscribe     MeSubscribeCmd     `cmd:"" help:"Subscribe to a plan"`
	Cancel        MeCancelCmd        `cmd:"" help:"Cancel a subscription"`
	Profile       MeProfileCmd       `cmd:"" help:"Update profile details"`
	Notifications MeNotificationsCmd `cmd:"" help:"List dunning notifications"`
}

type MeStatusCmd struct{}

func (c *MeStatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	status, err := a.clients.Customer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account status: %s", client.MessageOf(err, err.Error()))
	}

	printStatus(a.out, status)
	return nil
}

func printStatus(out io.Writer, status *client.CustomerStatus) {
	p := status.Profile
	banner := dunning.Describe(p.Status)

	if banner.Headline != "" {
		fmt.Fprintf(out, "*** %s ***\n", banner.Headline)
	}
	fmt.Fprintf(out, "[%s] %s\n", banner.Level, banner.Text)
	if text := dunning.SuggestionText(p); text != "" {
		fmt.Fprintln(out, text)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Name:         %s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(out, "Email:        %s\n", p.Email)
	fmt.Fprintf(out, "Status:       %s\n", p.Status)
	fmt.Fprintf(out, "Balance:      $%.2f\n", p.Balance)
	fmt.Fprintf(out, "Overdue:      $%.2f\n", p.AmountOverdue)
	if p.DueDate != "" {
		fmt.Fprintf(out, "Due date:     %s\n", p.DueDate)
	}

	plan := "No Active Plan"
	if len(status.ActiveSubscriptions) > 0 {
		plan = status.ActiveSubscriptions[0].Plan.PlanName
	}
	fmt.Fprintf(out, "Current plan: %s\n", plan)

	if len(status.UnpaidInvoices) == 0 {
		return
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INVOICE\tISSUED\tDUE\tAMOUNT\tSTATUS")
	for _, inv := range status.UnpaidInvoices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.TotalAmount, inv.Status)
	}
	w.Flush()
}

type MePayCmd struct{}

func (c *MePayCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	status, err := a.clients.Customer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account status: %s", client.MessageOf(err, err.Error()))
	}
	if !dunning.CanPay(status.Profile) {
		fmt.Fprintln(a.out, "Nothing is overdue.")
		return nil
	}

	confirmation, err := a.clients.Customer.PayBill(ctx)
	if err != nil {
		return fmt.Errorf("payment failed: %s", client.MessageOf(err, "Payment failed."))
	}

	fmt.Fprintln(a.out, confirmation)
	return nil
}

type MeAddBalanceCmd struct {
	Amount float64 `arg:"" help:"Amount to add"`
}

func (c *MeAddBalanceCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}

	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	customer, err := a.clients.Customer.AddBalance(ctx, c.Amount)
	if err != nil {
		return fmt.Errorf("failed to add balance: %s", client.MessageOf(err, err.Error()))
	}

	fmt.Fprintf(a.out, "Balance is now $%.2f.\n", customer.Balance)
	return nil
}

type MePaymentsCmd struct{}

func (c *MePaymentsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	payments, err := a.clients.Customer.PaymentHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to list payments: %s", client.MessageOf(err, err.Error()))
	}

	printPayments(a.out, payments)
	return nil
}

func printPayments(out io.Writer, payments []client.Payment) {
	if len(payments) == 0 {
		fmt.Fprintln(out, "No payments found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCUSTOMER\tAMOUNT\tSOURCE\tTYPE")
	for _, p := range payments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\n", p.ID, p.PaymentDate, p.CustomerName, p.Amount, p.PaymentSource, p.Type)
	}
	w.Flush()
}

type MePlansCmd struct{}

func (c *MePlansCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	plans, err := a.clients.Customer.Plans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plans: %s", client.MessageOf(err, err.Error()))
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLAN\tTYPE\tSEGMENT\tPRICE\tDATA (MB)")
	for _, p := range plans {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%.0f\n", p.ID, p.PlanName, p.Type, p.Segment, p.Price, p.DataLimitMB)
	}
	w.Flush()
	return nil
}

type MeSubscriptionsCmd struct{}

func (c *MeSubscriptionsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	subs, err := a.clients.Customer.Subscriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %s", client.MessageOf(err, err.Error()))
	}

	if len(subs) == 0 {
		fmt.Fprintln(a.out, "No active subscriptions.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLAN\tSERVICE\tPRICE\tSTARTED")
	for _, s := range subs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n", s.ID, s.Plan.PlanName, s.Plan.ServiceType, s.Plan.Price, s.StartDate)
	}
	w.Flush()
	return nil
}

type MeSubscribeCmd struct {
	PlanID int64 `arg:"" help:"Plan ID"`
}

func (c *MeSubscribeCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.clients.Customer.Subscribe(ctx, c.PlanID); err != nil {
		return fmt.Errorf("failed to subscribe: %s", client.MessageOf(err, err.Error()))
	}

	fmt.Fprintf(a.out, "Subscribed to plan %d.\n", c.PlanID)
	return nil
}

type MeCancelCmd struct {
	SubscriptionID int64 `arg:"" help:"Subscription ID"`
	Force          bool  `help:"Skip confirmation" default:"false"`
}

func (c *MeCancelCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	if !c.Force {
		answer, err := a.prompt(fmt.Sprintf("Cancel subscription %d? [y/N]", c.SubscriptionID), "")
		if err != nil {
			return err
		}
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(a.out, "Aborted.")
			return nil
		}
	}

	if err := a.clients.Customer.CancelSubscription(ctx, c.SubscriptionID); err != nil {
		return fmt.Errorf("failed to cancel subscription: %s", client.MessageOf(err, err.Error()))
	}

	fmt.Fprintf(a.out, "Subscription %d cancelled.\n", c.SubscriptionID)
	return nil
}

type MeProfileCmd struct {
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
	Phone     string `help:"Phone number"`
	Email     string `help:"Email"`
}

func (c *MeProfileCmd) Run(ctx context.Context, globals *Globals) error {
	update := client.ProfileUpdate{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
	}
	if update == (client.ProfileUpdate{}) {
		return fmt.Errorf("nothing to update\n\nPass at least one of --first-name, --last-name, --phone, --email")
	}

	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	customer, err := a.clients.Customer.UpdateProfile(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %s", client.MessageOf(err, err.Error()))
	}

	fmt.Fprintf(a.out, "Profile updated for %s %s.\n", customer.FirstName, customer.LastName)
	return nil
}

type MeNotificationsCmd struct{}

func (c *MeNotificationsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteCustomerDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	logs, err := a.clients.Customer.Notifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notifications: %s", client.MessageOf(err, err.Error()))
	}

	printLogs(a.out, logs)
	return nil
}

func printLogs(out io.Writer, logs []client.DunningLog) {
	if len(logs) == 0 {
		fmt.Fprintln(out, "No notifications.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tEVENT\tCUSTOMER\tDETAILS")
	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.EventTimestamp, l.EventType, l.CustomerName, l.Details)
	}
	w.Flush()
}
