// Package subtitles turns the subtitle tracks of a video (or of every video
// in a directory) into a Chinese subtitle annotated with pinyin, optionally
// merged with a second language on one timeline.
//
// A Service is loaded with a path, lists the embedded and sidecar subtitles
// it can read, and generates `<base> generated.srt` next to each video.
// Embedded tracks are pulled out with MKVToolNix, ASS scripts are flattened
// to records, and the two timelines are combined by the timeline engine.
package subtitles
