package domain

import (
	"fmt"
	"strings"

	"github.com/tair/qr-order/pkg/apperr"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusServed    Status = "SERVED"
	StatusCancelled Status = "CANCELLED"
)

// StatusInfo is the presentation and transition metadata of one status
type StatusInfo struct {
	Status   Status   `json:"status"`
	Label    string   `json:"label"`
	Message  string   `json:"message"`
	Color    string   `json:"color"`
	Next     []Status `json:"next"`
	Terminal bool     `json:"terminal"`
}

// statusTable is the only place statuses are described. Order matters for Statuses.
var statusTable = []StatusInfo{
	{
		Status:  StatusPending,
		Label:   "Pending",
		Message: "Your order has been received and is waiting for confirmation.",
		Color:   "yellow",
		Next:    []Status{StatusConfirmed, StatusCancelled},
	},
	{
		Status:  StatusConfirmed,
		Label:   "Confirmed",
		Message: "Your order has been confirmed.",
		Color:   "blue",
		Next:    []Status{StatusPreparing, StatusCancelled},
	},
	{
		Status:  StatusPreparing,
		Label:   "Preparing",
		Message: "Your order is being prepared.",
		Color:   "orange",
		Next:    []Status{StatusReady, StatusCancelled},
	},
	{
		Status:  StatusReady,
		Label:   "Ready",
		Message: "Your order is ready and will be served shortly.",
		Color:   "green",
		Next:    []Status{StatusServed},
	},
	{
		Status:   StatusServed,
		Label:    "Served",
		Message:  "Your order has been served. Enjoy your meal!",
		Color:    "gray",
		Terminal: true,
	},
	{
		Status:   StatusCancelled,
		Label:    "Cancelled",
		Message:  "Your order has been cancelled.",
		Color:    "red",
		Terminal: true,
	},
}

var statusIndex = func() map[Status]StatusInfo {
	m := make(map[Status]StatusInfo, len(statusTable))
	for _, info := range statusTable {
		m[info.Status] = info
	}
	return m
}()

// Statuses returns the status table in lifecycle order
func Statuses() []StatusInfo {
	out := make([]StatusInfo, len(statusTable))
	copy(out, statusTable)
	return out
}

// ActiveStatuses are the statuses that keep a table occupied
func ActiveStatuses() []Status {
	out := make([]Status, 0, len(statusTable))
	for _, info := range statusTable {
		if !info.Terminal {
			out = append(out, info.Status)
		}
	}
	return out
}

// ParseStatus accepts a status name in any letter case
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statusIndex[st]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidPayload, s)
	}
	return st, nil
}

// Info returns the metadata of s
func (s Status) Info() (StatusInfo, bool) {
	info, ok := statusIndex[s]
	return info, ok
}

// Message returns the customer-facing message of s
func (s Status) Message() string {
	return statusIndex[s].Message
}

// IsTerminal reports whether no transition leaves s
func (s Status) IsTerminal() bool {
	return statusIndex[s].Terminal
}

// CanTransitionTo reports whether next is allowed from s
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusIndex[s].Next {
		if allowed == next {
			return true
		}
	}
	return false
}
