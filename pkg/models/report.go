package models

// GenerationResult is what an image provider returns for one prompt.
// RevisedPrompt is set when the backend rewrote the prompt before drawing.
type GenerationResult struct {
	ImageURL      string `json:"image_url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// DeliveryPayload carries one downloaded image to the messaging backend.
type DeliveryPayload struct {
	ImageData []byte
	Caption   string
	ChatID    string
}

// OutcomeReport summarizes a single pipeline activation. It is the JSON body
// returned to manual HTTP triggers; timer runs only log it.
type OutcomeReport struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	Prompt        string `json:"prompt,omitempty"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
}
