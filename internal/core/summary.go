package core

import "time"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// BillBuckets partitions bills by how far their due date is from today.
// Every bill lands in exactly one bucket.
type BillBuckets struct {
	Overdue     []Bill `json:"overdue"`
	DueThisWeek []Bill `json:"due_this_week"`
	DueNextWeek []Bill `json:"due_next_week"`
	Later       []Bill `json:"later"`
}

// BillSummary holds the derived bill totals shown on the bills screen.
type BillSummary struct {
	Total          Money `json:"total"`
	Outstanding    Money `json:"outstanding"`
	Overdue        Money `json:"overdue"`
	DueThisWeek    Money `json:"due_this_week"`
	DueNextWeek    Money `json:"due_next_week"`
	Count          int   `json:"count"`
	UnpaidCount    int   `json:"unpaid_count"`
	RecurringCount int   `json:"recurring_count"`
}

type SubscriptionSummary struct {
	Count        int   `json:"count"`
	MonthlyCost  Money `json:"monthly_cost"`
	AnnualCost   Money `json:"annual_cost"`
	RenewingSoon int   `json:"renewing_soon"`
}

type PasswordSummary struct {
	Count int `json:"count"`
	Stale int `json:"stale"`
	Weak  int `json:"weak"`
}

type TaskSummary struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

// Dashboard is the compact overview across every collection.
type Dashboard struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	Bills           BillSummary         `json:"bills"`
	BillsByCategory []CategoryAmount    `json:"bills_by_category"`
	Subscriptions   SubscriptionSummary `json:"subscriptions"`
	Passwords       PasswordSummary     `json:"passwords"`
	Tasks           TaskSummary         `json:"tasks"`
	Vehicles        int                 `json:"vehicles"`
}
