package model

import (
	"sort"
	"strings"
	"time"

	cart "metalshop/internal/cart/model"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusQuoted    Status = "quoted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusSubmitted: {StatusInReview, StatusCancelled},
	StatusInReview:  {StatusQuoted, StatusCancelled},
	StatusQuoted:    {StatusAccepted, StatusRejected},
}

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusQuoted, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an RFQ in status s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type Company struct {
	Name    string `json:"name"`
	CUI     string `json:"cui"`
	RegCom  string `json:"regCom,omitempty"`
	Address string `json:"address,omitempty"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Item is one requested position: a catalog product, free text, or both.
type Item struct {
	ProductID   string  `json:"productId,omitempty"`
	Description string  `json:"description,omitempty"`
	Qty         float64 `json:"qty"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes,omitempty"`
}

// Request is what the buyer submits.
type Request struct {
	Company      Company `json:"company"`
	Contact      Contact `json:"contact"`
	Items        []Item  `json:"items"`
	DeliveryCity string  `json:"deliveryCity,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	BOMUploadID  string  `json:"bomUploadId,omitempty"`
}

type RFQ struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    Status `json:"status"`
	Request
	Estimate  *cart.Estimate `json:"estimate,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ValidationError maps field paths (e.g. "items[0].qty") to messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid rfq: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

// Err returns e when it holds at least one problem, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
