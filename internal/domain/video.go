package domain

type VideoInfo struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"`
}
