package dto

// ── 评论模块 DTO ──

// CreateCommentRequest 发表评论 / 回复评论请求
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// UpdateCommentRequest 修改评论请求
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse 评论信息
type CommentResponse struct {
	ID       uint   `json:"id"`
	UserID   *uint  `json:"user_id"`
	ClubID   *uint  `json:"club_id"`
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}
