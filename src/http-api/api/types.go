package api

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ReferenceResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
