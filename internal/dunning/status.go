// Package dunning turns a customer's service status into what the console
// shows about it.
package dunning

import (
	"fmt"

	"github.com/wolfeidau/revenueguard/internal/client"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Banner is the status line shown on the customer dashboard. Headline is
// only set for restricted accounts.
type Banner struct {
	Level    Level
	Text     string
	Headline string
}

// Describe maps a service status to its banner. Unknown statuses are shown
// as-is.
func Describe(status string) Banner {
	switch status {
	case client.StatusActive:
		return Banner{Level: LevelSuccess, Text: "Your account is active and all services are operational."}
	case client.StatusThrottled:
		return Banner{
			Level:    LevelWarning,
			Text:     "Your account is overdue. Service speed has been reduced.",
			Headline: "SERVICE THROTTLED - Payment Overdue",
		}
	case client.StatusBlocked:
		return Banner{
			Level:    LevelDanger,
			Text:     "Your account is severely overdue. All services have been blocked.",
			Headline: "SERVICE BARRED - Immediate Action Required",
		}
	case client.StatusInactive:
		return Banner{Level: LevelDanger, Text: "Your account is currently inactive."}
	default:
		return Banner{Level: LevelDanger, Text: status}
	}
}

// Restricted reports whether the dunning engine has throttled or blocked
// the account.
func Restricted(status string) bool {
	return status == client.StatusThrottled || status == client.StatusBlocked
}

// CanPay reports whether there is an overdue amount to pay.
func CanPay(p client.CustomerProfile) bool {
	return p.AmountOverdue > 0
}

// SplitSuggestion returns the amount to pay now to keep a restricted account
// running, half of what is overdue.
func SplitSuggestion(p client.CustomerProfile) (float64, bool) {
	if !Restricted(p.Status) || !CanPay(p) {
		return 0, false
	}
	return p.AmountOverdue / 2, true
}

// SuggestionText renders the split payment prompt, or "" when none applies.
func SuggestionText(p client.CustomerProfile) string {
	amount, ok := SplitSuggestion(p)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Pay $%.2f now to keep service active and split the rest.", amount)
}
