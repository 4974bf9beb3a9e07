package contact

// Message is a contact form submission. It is logged, never stored.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
