package audio

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
)

// Info describes a local audio file.
type Info struct {
	Format         string
	ContentType    string
	Title          string
	Artist         string
	Album          string
	DurationMillis *int64
}

func IsSupportedFormat(filename string) bool {
	extensions := []string{
		".mp3", ".flac", ".wav", ".ogg", ".m4a", ".aac", ".aiff", ".opus",
	}
	name := strings.ToLower(filename)
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Probe identifies the format and tags of a file and measures its duration.
// A duration that cannot be measured is left nil.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	info := Info{}
	if _, ft, err := tag.Identify(f); err == nil && ft != tag.UnknownFileType {
		info.Format = strings.ToLower(string(ft))
		info.ContentType = contentTypeFromFileType(ft)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Info{}, err
	}
	if m, err := tag.ReadFrom(f); err == nil {
		info.Title = strings.TrimSpace(m.Title())
		info.Artist = strings.TrimSpace(m.Artist())
		info.Album = strings.TrimSpace(m.Album())
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return Info{}, err
		}
		d, err := wavDuration(f)
		if err != nil {
			return Info{}, fmt.Errorf("read wav %s: %w", filepath.Base(path), err)
		}
		info.Format = "wav"
		info.ContentType = "audio/wav"
		info.DurationMillis = &d
		return info, nil
	}

	if d, err := ffprobeDuration(path); err == nil {
		info.DurationMillis = &d
	}
	return info, nil
}

func wavDuration(r io.ReadSeeker) (int64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("invalid wav file")
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, err
	}
	return d.Milliseconds(), nil
}

// ffprobeDuration reads format=duration in milliseconds.
func ffprobeDuration(path string) (int64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	return parseSeconds(string(out))
}

func parseSeconds(s string) (int64, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if secs < 0 {
		return 0, fmt.Errorf("negative duration %v", secs)
	}
	return int64(secs * 1000), nil
}

func contentTypeFromFileType(ft tag.FileType) string {
	switch ft {
	case tag.FLAC:
		return "audio/flac"
	case tag.MP3:
		return "audio/mpeg"
	case tag.OGG:
		return "audio/ogg"
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return "audio/mp4"
	default:
		return ""
	}
}
