package player

type State struct {
	Status      string `redis:"status"`
	VideoId     string `redis:"video_id"`
	VideoTitle  string `redis:"video_title"`
	SeekOffset  int    `redis:"seek_offset"`
	Duration    int    `redis:"duration"`
	VolumeLevel int    `redis:"volume_level"`
	VolumeMuted bool   `redis:"volume_muted"`
}
