package dto

// TagCountResponse 标签被引用的社团数
type TagCountResponse struct {
	Tag       string `json:"tag"`
	ClubCount int64  `json:"club_count"`
}

// TagClubsResponse 某标签下的社团名称
type TagClubsResponse struct {
	Clubs []string `json:"clubs"`
}
