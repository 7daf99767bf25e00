package player

import "errors"

var (
	ErrStateNotFound = errors.New("player state not found")
	ErrPlaylistEmpty = errors.New("playlist is empty")
)
