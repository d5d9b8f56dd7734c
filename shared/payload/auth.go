package payload

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
	Name        string `json:"name"`
}

type SecretResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ValidationErrorResponse is returned when a registration is rejected.
// Errors maps a request field to what is wrong with it.
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
