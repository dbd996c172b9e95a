package format

import (
	"path/filepath"
	"strings"
)

// Tag is the routing category derived from a file extension.
type Tag int

const (
	Unknown Tag = iota
	Video
	WavAudio
	CompressedAudio
)

func (t Tag) String() string {
	switch t {
	case Video:
		return "video"
	case WavAudio:
		return "wav"
	case CompressedAudio:
		return "compressed-audio"
	default:
		return "unknown"
	}
}

// Codec names the decoder a library decode should use. The empty codec
// requests auto-detection.
type Codec string

const (
	CodecAuto Codec = ""
	CodecWAV  Codec = "wav"
	CodecMP3  Codec = "mp3"
	CodecM4A  Codec = "m4a"
	CodecOGG  Codec = "ogg"
	CodecFLAC Codec = "flac"
	CodecOpus Codec = "opus"
	CodecAAC  Codec = "aac"
	CodecWMA  Codec = "wma"
	CodecWebM Codec = "webm"
)

// Classification is the result of Classify.
type Classification struct {
	Tag   Tag
	Codec Codec
	// Ext is the lowercased extension including the dot, or "" when absent.
	Ext string
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mkv":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".m4v":  {},
	".3gp":  {},
}

var audioCodecs = map[string]Codec{
	".mp3":  CodecMP3,
	".m4a":  CodecM4A,
	".ogg":  CodecOGG,
	".flac": CodecFLAC,
	".opus": CodecOpus,
	".aac":  CodecAAC,
	".wma":  CodecWMA,
}

// Classify returns the routing tag for path. webm is routed as video but keeps
// a webm codec hint for the library fallback.
func Classify(path string) Classification {
	ext := strings.ToLower(filepath.Ext(path))
	c := Classification{Tag: Unknown, Ext: ext}
	if ext == "" {
		return c
	}
	if _, ok := videoExtensions[ext]; ok {
		c.Tag = Video
		if ext == ".webm" {
			c.Codec = CodecWebM
		}
		return c
	}
	if ext == ".wav" {
		c.Tag = WavAudio
		c.Codec = CodecWAV
		return c
	}
	if codec, ok := audioCodecs[ext]; ok {
		c.Tag = CompressedAudio
		c.Codec = codec
	}
	return c
}

// VideoExtensions returns the recognised video extensions, sorted.
func VideoExtensions() []string {
	return []string{".3gp", ".avi", ".flv", ".m4v", ".mkv", ".mov", ".mp4", ".webm", ".wmv"}
}
