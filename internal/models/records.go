package models

import (
	"time"

	"github.com/google/uuid"
)

type Finance struct {
	ID         uuid.UUID `json:"id"`
	TeamID     uuid.UUID `json:"teamId"`
	SpenderUID string    `json:"spenderUid"`
	SpentDate  string    `json:"spentDate"`
	SpentAt    time.Time `json:"spentAt"`
	Amount     float64   `json:"amount"`
	Note       string    `json:"note"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Event struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"teamId"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Place     string    `json:"place"`
	Note      string    `json:"note"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ShoppingItem struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"teamId"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Note      string    `json:"note"`
	QtyValue  *float64  `json:"qtyValue"`
	QtyUnit   string    `json:"qtyUnit"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
