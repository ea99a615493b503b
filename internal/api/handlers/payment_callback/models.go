package payment_callback

// failureResponse ответ об отказе обработки callback.
// Reason — машиночитаемый код причины: клиентская страница failure выбирает
// по нему, что показать, не разбирая человекочитаемый текст.
type failureResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}
