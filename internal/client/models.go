package client

// Dates are kept as the strings the backend sends ("2006-01-02" for dates,
// zone-less ISO timestamps for date-times).

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type,omitempty"`
	ID       int64    `json:"id,omitempty"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// SignupRequest is the registration profile. Username is the email.
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Segment   string `json:"segment"`
}

type VerifyRequest struct {
	Code          string        `json:"code"`
	SignupRequest SignupRequest `json:"signupRequest"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Account segments.
const (
	SegmentPostpaid = "POSTPAID"
	SegmentPrepaid  = "PREPAID"
)

// Service statuses driven by the dunning engine.
const (
	StatusActive    = "ACTIVE"
	StatusThrottled = "THROTTLED"
	StatusBlocked   = "BLOCKED"
	StatusInactive  = "INACTIVE"
)

type CustomerProfile struct {
	ID            int64   `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Status        string  `json:"status"`
	Balance       float64 `json:"balance"`
	AmountOverdue float64 `json:"amountOverdue"`
	DueDate       string  `json:"dueDate,omitempty"`
}

type CustomerStatus struct {
	Profile             CustomerProfile `json:"profile"`
	ActiveSubscriptions []Subscription  `json:"activeSubscriptions"`
	UnpaidInvoices      []Invoice       `json:"unpaidInvoices"`
}

type PlanSummary struct {
	PlanName    string  `json:"planName"`
	ServiceType string  `json:"serviceType"`
	Price       float64 `json:"price"`
}

type Subscription struct {
	ID        int64       `json:"id"`
	StartDate string      `json:"startDate"`
	Plan      PlanSummary `json:"plan"`
}

type Plan struct {
	ID          int64   `json:"id"`
	PlanName    string  `json:"planName"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	Segment     string  `json:"segment"`
	DataLimitMB float64 `json:"dataLimitMb"`
}

type Invoice struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	IssueDate     string  `json:"issueDate"`
	DueDate       string  `json:"dueDate"`
	TotalAmount   float64 `json:"totalAmount"`
	Status        string  `json:"status"`
}

type Payment struct {
	ID            int64   `json:"id"`
	CustomerName  string  `json:"customerName"`
	CustomerID    int64   `json:"customerId"`
	Amount        float64 `json:"amount"`
	PaymentDate   string  `json:"paymentDate"`
	PaymentSource string  `json:"paymentSource"`
	Type          string  `json:"type"`
}

type DunningLog struct {
	ID             int64  `json:"id"`
	EventTimestamp string `json:"eventTimestamp"`
	EventType      string `json:"eventType"`
	Details        string `json:"details"`
	CustomerID     int64  `json:"customerId"`
	CustomerName   string `json:"customerName"`
}

type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type AdminCustomer struct {
	ID            int64   `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Segment       string  `json:"segment"`
	Status        string  `json:"status"`
	AmountOverdue float64 `json:"amountOverdue"`
	OverdueDays   int     `json:"overdueDays"`
	DueDate       string  `json:"dueDate,omitempty"`
	Balance       float64 `json:"balance"`
}

type AdminCustomerUpdate struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Segment   string `json:"segment,omitempty"`
	Status    string `json:"status,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
}

// Dunning actions a rule can take.
const (
	ActionSendSMS          = "SEND_SMS"
	ActionSendEmail        = "SEND_EMAIL"
	ActionNotifyThrottle   = "NOTIFY_THROTTLE"
	ActionThrottleData     = "THROTTLE_DATA"
	ActionBlockVoice       = "BLOCK_VOICE"
	ActionBlockAllServices = "BLOCK_ALL_SERVICES"
)

// DunningActions lists every action a rule may take.
var DunningActions = []string{
	ActionSendSMS,
	ActionSendEmail,
	ActionNotifyThrottle,
	ActionThrottleData,
	ActionBlockVoice,
	ActionBlockAllServices,
}

type DunningRule struct {
	ID             int64  `json:"id,omitempty"`
	RuleName       string `json:"ruleName"`
	ActionToTake   string `json:"actionToTake"`
	TargetSegment  string `json:"targetSegment"`
	MinOverdueDays int    `json:"minOverdueDays"`
	MaxOverdueDays int    `json:"maxOverdueDays"`
	Active         bool   `json:"active"`
}

type ChatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId,omitempty"`
}

// ChatResponse accepts both reply field spellings the backend has used.
type ChatResponse struct {
	Message  string `json:"message,omitempty"`
	Response string `json:"response,omitempty"`
	ChatID   string `json:"chatId,omitempty"`
	ID       string `json:"id,omitempty"`
}

// Reply returns the assistant's text.
func (r *ChatResponse) Reply() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Response
}

// SessionID returns the chat session id assigned by the backend.
func (r *ChatResponse) SessionID() string {
	if r.ChatID != "" {
		return r.ChatID
	}
	return r.ID
}
