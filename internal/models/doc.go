// Package models defines the core domain models for PayMeBack.
//
// A UserPaymentPlan is the aggregate handed to callers: the owning user plus
// two lists of debts, partitioned by who owes whom. A PaymentPlanDetail is the
// raw persisted shape of the same data, one flat debt list, and is what the
// ledger store and the cache deal in.
//
// Monetary amounts use shopspring decimals so installment sums never drift the
// way floats would.
package models
