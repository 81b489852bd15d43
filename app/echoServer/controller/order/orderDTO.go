package order

type PlaceOrderReq struct {
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gte=1"`
}

type CheckoutReq struct {
	PaymentMethod string `json:"payment_method"`
}

type EditQuantityReq struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
