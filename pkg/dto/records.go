package dto

import "github.com/nastly29/home-organizer/internal/models"

type CreateFinanceRequest struct {
	SpenderUID string `json:"spenderUid"`
	SpentDate  string `json:"spentDate"`
	Amount     Amount `json:"amount"`
	Note       string `json:"note"`
}

type UpdateFinanceRequest struct {
	SpenderUID *string `json:"spenderUid"`
	SpentDate  *string `json:"spentDate"`
	Amount     *Amount `json:"amount"`
	Note       *string `json:"note"`
}

type FinanceResponse struct {
	Item *models.Finance `json:"item"`
}

type FinancesResponse struct {
	Items []models.Finance `json:"items"`
}

type EventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Place string `json:"place"`
	Note  string `json:"note"`
}

type EventResponse struct {
	Event *models.Event `json:"event"`
}

type EventsResponse struct {
	Events []models.Event `json:"events"`
}

type ShoppingRequest struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Note     string  `json:"note"`
	QtyValue *Amount `json:"qtyValue"`
	QtyUnit  string  `json:"qtyUnit"`
}

type ShoppingItemResponse struct {
	Item *models.ShoppingItem `json:"item"`
}

type ShoppingListResponse struct {
	Items []models.ShoppingItem `json:"items"`
}
