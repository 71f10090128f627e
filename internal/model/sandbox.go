package model

// SandboxUser is a row of the scratch database used for connectivity checks
type SandboxUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CreateSandboxUserRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,notblank"`
}
