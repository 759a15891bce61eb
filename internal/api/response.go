package api

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func Ok(data any) Response {
	return Response{Success: true, Data: data}
}

func Error(message string) Response {
	return Response{Success: false, Message: message}
}
