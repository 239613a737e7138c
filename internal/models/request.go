package models

// SajuComputeRequest carries the birth information the saju service needs.
// Time may be empty when the birth hour is unknown.
type SajuComputeRequest struct {
	Gender      string `json:"gender" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time"`
	Timezone    string `json:"timezone"`
	Calendar    string `json:"calendar" binding:"required"`
	UserName    string `json:"user_name"`
	UserConcern string `json:"user_concern"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
