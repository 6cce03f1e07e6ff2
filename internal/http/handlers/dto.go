package handlers

// LookupRequest is the body of the POST lookup endpoints. Only the field
// the endpoint matches on is read.
type LookupRequest struct {
	Pos  string `json:"pos"`
	Code string `json:"code"`
}

// ErrorResponse carries a human-readable message plus, depending on the
// failure, the key that was not found or the underlying store error.
type ErrorResponse struct {
	Message string `json:"message"`
	Pos     string `json:"pos,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
