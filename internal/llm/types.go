package llm

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model overrides the client's default model when non-empty.
	Model string

	// MaxTokens caps the generated output. Zero means no explicit cap.
	MaxTokens int

	// Temperature controls randomness of the output.
	Temperature float32
}
