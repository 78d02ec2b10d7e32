package api

type ErrorResponse struct {
	Error          string `json:"error" example:"something went wrong"`
	SessionExpired bool   `json:"sessionExpired,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
