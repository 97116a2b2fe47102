package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/nav"
)

// AdminCmd groups the back-office commands.
type AdminCmd struct {
	Stats     AdminStatsCmd     `cmd:"" help:"Show dashboard counters"`
	Risk      AdminRiskCmd      `cmd:"" help:"List the highest risk accounts"`
	Trigger   AdminTriggerCmd   `cmd:"" help:"Run a batch job now"`
	Customers AdminCustomersCmd `cmd:"" help:"List customers"`
	Customer  AdminCustomerCmd  `cmd:"" help:"Update a customer"`
	Invoices  AdminInvoicesCmd  `cmd:"" help:"List a customer's invoices"`
	DueDate   AdminDueDateCmd   `cmd:"" name:"due-date" help:"Move an invoice due date"`
	Rules     AdminRulesCmd     `cmd:"" help:"Manage dunning rules"`
	Logs      AdminLogsCmd      `cmd:"" help:"List dunning events"`
	Payments  AdminPaymentsCmd  `cmd:"" help:"List payments"`
}

type AdminStatsCmd struct{}

func (c *AdminStatsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	stats, err := a.clients.Admin.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stats: %s", client.MessageOf(err, err.Error()))
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, k := range slices.Sorted(maps.Keys(stats)) {
		fmt.Fprintf(w, "%s\t%v\n", k, stats[k])
	}
	w.Flush()
	return nil
}

type AdminRiskCmd struct{}

func (c *AdminRiskCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	customers, err := a.clients.Admin.TopRiskAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list risk accounts: %s", client.MessageOf(err, err.Error()))
	}

	printCustomers(a.out, customers)
	return nil
}

type AdminTriggerCmd struct {
	Kind string `arg:"" help:"Job to run" enum:"invoice-creation,billing-cycle,dunning,usage"`
}

func (c *AdminTriggerCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	msg, err := a.clients.Admin.Trigger(ctx, c.Kind)
	if err != nil {
		return fmt.Errorf("failed to trigger %s: %s", c.Kind, client.MessageOf(err, err.Error()))
	}

	if msg == "" {
		msg = fmt.Sprintf("Triggered %s.", c.Kind)
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

type AdminCustomersCmd struct {
	Status string `help:"Only show customers with this status" enum:",ACTIVE,THROTTLED,BLOCKED,INACTIVE" default:""`
}

func (c *AdminCustomersCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	customers, err := a.clients.Admin.Customers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list customers: %s", client.MessageOf(err, err.Error()))
	}

	if c.Status != "" {
		customers = slices.DeleteFunc(customers, func(cu client.AdminCustomer) bool {
			return cu.Status != c.Status
		})
	}

	printCustomers(a.out, customers)
	return nil
}

func printCustomers(out io.Writer, customers []client.AdminCustomer) {
	if len(customers) == 0 {
		fmt.Fprintln(out, "No customers found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSEGMENT\tSTATUS\tOVERDUE\tDAYS")
	for _, cu := range customers {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%s\t%.2f\t%d\n",
			cu.ID, cu.FirstName, cu.LastName, cu.Email, cu.Segment, cu.Status, cu.AmountOverdue, cu.OverdueDays)
	}
	w.Flush()
}

type AdminCustomerCmd struct {
	ID        int64  `arg:"" help:"Customer ID"`
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
	Email     string `help:"Email"`
	Phone     string `help:"Phone number"`
	Segment   string `help:"Billing segment" enum:",POSTPAID,PREPAID" default:""`
	Status    string `help:"Service status" enum:",ACTIVE,THROTTLED,BLOCKED,INACTIVE" default:""`
	DueDate   string `help:"Due date (YYYY-MM-DD)"`
}

func (c *AdminCustomerCmd) Run(ctx context.Context, globals *Globals) error {
	update := client.AdminCustomerUpdate{
		Email:     c.Email,
		Phone:     c.Phone,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Segment:   c.Segment,
		Status:    c.Status,
		DueDate:   c.DueDate,
	}
	if update == (client.AdminCustomerUpdate{}) {
		return fmt.Errorf("nothing to update")
	}

	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	customer, err := a.clients.Admin.UpdateCustomer(ctx, c.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update customer: %s", client.MessageOf(err, err.Error()))
	}

	printCustomers(a.out, []client.AdminCustomer{*customer})
	return nil
}

type AdminInvoicesCmd struct {
	CustomerID int64 `arg:"" help:"Customer ID"`
}

func (c *AdminInvoicesCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	invoices, err := a.clients.Admin.CustomerInvoices(ctx, c.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to list invoices: %s", client.MessageOf(err, err.Error()))
	}

	if len(invoices) == 0 {
		fmt.Fprintln(a.out, "No invoices found.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINVOICE\tISSUED\tDUE\tAMOUNT\tSTATUS")
	for _, inv := range invoices {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\n", inv.ID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.TotalAmount, inv.Status)
	}
	w.Flush()
	return nil
}

type AdminDueDateCmd struct {
	InvoiceID int64  `arg:"" help:"Invoice ID"`
	Date      string `arg:"" help:"New due date (YYYY-MM-DD)"`
}

func (c *AdminDueDateCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	invoice, err := a.clients.Admin.UpdateInvoiceDueDate(ctx, c.InvoiceID, c.Date)
	if err != nil {
		return fmt.Errorf("failed to update due date: %s", client.MessageOf(err, err.Error()))
	}

	fmt.Fprintf(a.out, "Invoice %s is now due %s.\n", invoice.InvoiceNumber, invoice.DueDate)
	return nil
}

// AdminRulesCmd manages dunning rules.
type AdminRulesCmd struct {
	List   AdminRulesListCmd   `cmd:"" default:"1" help:"List rules"`
	Create AdminRulesCreateCmd `cmd:"" help:"Create a rule"`
	Update AdminRulesUpdateCmd `cmd:"" help:"Replace a rule"`
	Delete AdminRulesDeleteCmd `cmd:"" help:"Delete a rule"`
}

type AdminRulesListCmd struct{}

func (c *AdminRulesListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	rules, err := a.clients.Admin.Rules(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rules: %s", client.MessageOf(err, err.Error()))
	}

	printRules(a.out, rules)
	return nil
}

func printRules(out io.Writer, rules []client.DunningRule) {
	if len(rules) == 0 {
		fmt.Fprintln(out, "No rules found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTION\tSEGMENT\tDAYS\tACTIVE")
	for _, r := range rules {
		active := ""
		if r.Active {
			active = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d-%d\t%s\n",
			r.ID, r.RuleName, r.ActionToTake, r.TargetSegment, r.MinOverdueDays, r.MaxOverdueDays, active)
	}
	w.Flush()
}

// RuleFlags are shared by create and update.
type RuleFlags struct {
	Name    string `help:"Rule name" required:""`
	Action  string `help:"Action to take" required:"" enum:"SEND_SMS,SEND_EMAIL,NOTIFY_THROTTLE,THROTTLE_DATA,BLOCK_VOICE,BLOCK_ALL_SERVICES"`
	Segment string `help:"Target segment" enum:"POSTPAID,PREPAID" default:"POSTPAID"`
	MinDays int    `help:"Minimum days overdue" default:"0"`
	MaxDays int    `help:"Maximum days overdue" required:""`
	Active  bool   `help:"Enable the rule" default:"true" negatable:""`
}

func (f RuleFlags) rule() (client.DunningRule, error) {
	if f.MaxDays < f.MinDays {
		return client.DunningRule{}, fmt.Errorf("max days (%d) is less than min days (%d)", f.MaxDays, f.MinDays)
	}
	return client.DunningRule{
		RuleName:       f.Name,
		ActionToTake:   f.Action,
		TargetSegment:  f.Segment,
		MinOverdueDays: f.MinDays,
		MaxOverdueDays: f.MaxDays,
		Active:         f.Active,
	}, nil
}

type AdminRulesCreateCmd struct {
	RuleFlags `embed:""`
}

func (c *AdminRulesCreateCmd) Run(ctx context.Context, globals *Globals) error {
	rule, err := c.rule()
	if err != nil {
		return err
	}

	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	created, err := a.clients.Admin.CreateRule(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to create rule: %s", client.MessageOf(err, err.Error()))
	}

	printRules(a.out, []client.DunningRule{*created})
	return nil
}

type AdminRulesUpdateCmd struct {
	ID        int64 `arg:"" help:"Rule ID"`
	RuleFlags `embed:""`
}

func (c *AdminRulesUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	rule, err := c.rule()
	if err != nil {
		return err
	}

	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	updated, err := a.clients.Admin.UpdateRule(ctx, c.ID, rule)
	if err != nil {
		return fmt.Errorf("failed to update rule: %s", client.MessageOf(err, err.Error()))
	}

	printRules(a.out, []client.DunningRule{*updated})
	return nil
}

type AdminRulesDeleteCmd struct {
	ID    int64 `arg:"" help:"Rule ID"`
	Force bool  `help:"Skip confirmation" default:"false"`
}

func (c *AdminRulesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	if !c.Force {
		answer, err := a.prompt(fmt.Sprintf("Delete rule %d? [y/N]", c.ID), "")
		if err != nil {
			return err
		}
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(a.out, "Aborted.")
			return nil
		}
	}

	if err := a.clients.Admin.DeleteRule(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete rule: %s", client.MessageOf(err, err.Error()))
	}

	fmt.Fprintf(a.out, "Rule %d deleted.\n", c.ID)
	return nil
}

type AdminLogsCmd struct{}

func (c *AdminLogsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	logs, err := a.clients.Admin.Logs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list dunning events: %s", client.MessageOf(err, err.Error()))
	}

	printLogs(a.out, logs)
	return nil
}

type AdminPaymentsCmd struct {
	Cured bool `help:"Only payments that restored a restricted account"`
}

func (c *AdminPaymentsCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := sessionApp(globals, nav.RouteAdminDashboard)
	if err != nil {
		return err
	}
	defer a.close()

	var payments []client.Payment
	if c.Cured {
		payments, err = a.clients.Admin.CuredPayments(ctx)
	} else {
		payments, err = a.clients.Admin.Payments(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list payments: %s", client.MessageOf(err, err.Error()))
	}

	printPayments(a.out, payments)
	return nil
}
