package initiate_payment

// InitiatePaymentRequest HTTP request model
type InitiatePaymentRequest struct {
	EntityType string `json:"entityType"` // "order" | "appointment"
	EntityID   int64  `json:"entityId"`
}
