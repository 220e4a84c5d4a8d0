package subtitles

import "errors"

var (
	// ErrNotLoaded is returned when no path has been loaded.
	ErrNotLoaded = errors.New("no path loaded")
	// ErrNoSubtitlesFound means the requested subtitle does not exist.
	ErrNoSubtitlesFound = errors.New("no subtitles found")
	// ErrNoChineseFound means the Chinese id does not name a Chinese track.
	ErrNoChineseFound = errors.New("no chinese subtitle found")
	// ErrCodecNotSupported is returned for image-based or unknown subtitle codecs.
	ErrCodecNotSupported = errors.New("subtitle codec not supported")
	// ErrInvalidRequest wraps GenerateRequest validation failures.
	ErrInvalidRequest = errors.New("invalid generate request")
)
