package domain

type PlayerStatus string

const (
	PlayerStatusStopped PlayerStatus = "STOPPED"
	PlayerStatusPlaying PlayerStatus = "PLAYING"
	PlayerStatusPaused  PlayerStatus = "PAUSED"
)

type Volume struct {
	Level int  `json:"level"`
	Muted bool `json:"muted"`
}

func NewVolume() Volume {
	return Volume{
		Level: 50,
		Muted: false,
	}
}

type Snapshot struct {
	Status     PlayerStatus `json:"status"`
	VideoId    string       `json:"video_id,omitempty"`
	VideoTitle string       `json:"video_title,omitempty"`
	Position   int          `json:"position"`
	Duration   int          `json:"duration"`
	Volume     Volume       `json:"volume"`
}
