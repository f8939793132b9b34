package dto

// Envelope is the standard API response shape:
// { status, results?, token?, data?, message?, error?, stack? }.
// status is "success", "fail" (client error), or "error" (server error).
type Envelope struct {
	Status  string      `json:"status"`
	Results *int        `json:"results,omitempty"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

// Success wraps data in a success envelope
func Success(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

// List wraps a collection in a success envelope with its count
func List(data interface{}, results int) Envelope {
	return Envelope{Status: "success", Results: &results, Data: data}
}

// Message creates a success envelope carrying only a message
func Message(message string) Envelope {
	return Envelope{Status: "success", Message: message}
}

// Fail creates a client-error envelope
func Fail(message string) Envelope {
	return Envelope{Status: "fail", Message: message}
}

// Error creates a server-error envelope
func Error(message string) Envelope {
	return Envelope{Status: "error", Message: message}
}
