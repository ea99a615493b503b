package initiate_payment

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.EntityID <= 0 {
		return fmt.Errorf("%w: entityID must be positive", ErrInvalidInput)
	}

	if req.EntityType != EntityOrder && req.EntityType != EntityAppointment {
		return fmt.Errorf("%w: entityType must be %q or %q", ErrInvalidInput, EntityOrder, EntityAppointment)
	}

	return nil
}
