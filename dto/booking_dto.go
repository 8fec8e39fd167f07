package dto

type CreateBookingDTO struct {
	Tour  string   `json:"tour" binding:"required"`
	User  string   `json:"user" binding:"required"`
	Price *float64 `json:"price" binding:"omitempty,gt=0"` // defaults to the tour price
	Paid  *bool    `json:"paid"`
}
