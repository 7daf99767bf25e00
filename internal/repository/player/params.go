package player

type SetStateParams struct {
	Status      string
	VideoId     string
	VideoTitle  string
	SeekOffset  int
	Duration    int
	VolumeLevel int
	VolumeMuted bool
}

type AddVideoParams struct {
	VideoId string
}
