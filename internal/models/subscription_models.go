package models

import "time"

type SubscriptionState string

const (
	SubscriptionCreated   SubscriptionState = "CREATED"
	SubscriptionActive    SubscriptionState = "ACTIVE"
	SubscriptionCancelled SubscriptionState = "CANCELLED"
)

type Subscription struct {
	Ticker       string            `json:"ticker"`
	SubscriberID string            `json:"subscriber_id"`
	Interval     time.Duration     `json:"interval"`
	CreatedAt    time.Time         `json:"created_at"`
	State        SubscriptionState `json:"state"`
	NextRun      time.Time         `json:"next_run"`
}
