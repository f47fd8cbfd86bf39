// Package extractor materializes candidate frames from media files at a
// fixed temporal cadence. Videos go through ffmpeg; gifs and still images
// are decoded in-process.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/visualscout/visualscout/internal/frame"
)

// ErrDecode wraps any failure to read frames out of a single media file.
// It surfaces per file and never aborts sibling files.
var ErrDecode = errors.New("decode failure")

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true,
	".mkv": true, ".flv": true, ".wmv": true, ".webm": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}

// Extractor yields ordered (timestamp, image) candidate sequences, one frame
// every Interval seconds.
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
	tempDir     string
	interval    float64
	logger      *slog.Logger
}

// New builds an extractor sampling one candidate frame every interval
// seconds. ffmpeg/ffprobe are resolved lazily: their absence only matters
// when a video file actually shows up.
func New(interval float64, logger *slog.Logger) (*Extractor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %v", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}

	tempDir := filepath.Join(os.TempDir(), "visualscout-frames")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	e := &Extractor{
		tempDir:  tempDir,
		interval: interval,
		logger:   logger,
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		e.ffmpegPath = path
	}
	if path, err := exec.LookPath("ffprobe"); err == nil {
		e.ffprobePath = path
	}

	return e, nil
}

// Supported reports whether the file's extension is a media type the
// extractor can handle.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return videoExtensions[ext] || imageExtensions[ext] || ext == ".gif"
}

// ListMedia returns the supported media files directly inside dir, sorted by
// name. Unsupported files are skipped silently.
func ListMedia(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if Supported(path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Extract returns the candidate frame sequence for one media file, ordered
// by ascending timestamp.
func (e *Extractor) Extract(path string) (frame.Sequence, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: media file not accessible: %v", ErrDecode, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return e.extractVideo(path)
	case ext == ".gif":
		return e.extractGIF(path)
	case imageExtensions[ext]:
		return e.extractImage(path)
	}
	return nil, fmt.Errorf("%w: unsupported media type %q", ErrDecode, ext)
}

func (e *Extractor) extractVideo(path string) (frame.Sequence, error) {
	if e.ffmpegPath == "" {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrDecode)
	}

	duration, err := e.Duration(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: invalid video duration %f", ErrDecode, duration)
	}

	e.logger.Debug("extracting video frames",
		"path", path, "duration", duration, "interval", e.interval)

	var frames frame.Sequence
	for ts := 0.0; ts < duration; ts += e.interval {
		img, err := e.extractSingleFrame(path, ts)
		if err != nil {
			e.logger.Warn("failed to extract frame, skipping",
				"path", path, "timestamp", ts, "error", err)
			continue
		}
		frames = append(frames, frame.New(ts, img))
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames could be extracted from %s", ErrDecode, path)
	}
	return frames, nil
}

func (e *Extractor) extractSingleFrame(path string, timestamp float64) (image.Image, error) {
	// Concurrent workers extract different files at the same timestamps, so
	// the temp name must be unique per call, not per (pid, timestamp).
	tmp, err := os.CreateTemp(e.tempDir, "frame_*.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp frame file: %w", err)
	}
	tempFile := tmp.Name()
	tmp.Close()
	defer os.Remove(tempFile)

	args := []string{
		"-ss", fmt.Sprintf("%.2f", timestamp),
		"-i", path,
		"-vframes", "1",
		"-q:v", "2",
		"-f", "mjpeg",
		"-y",
		tempFile,
	}

	cmd := exec.Command(e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed at %.2fs: %v: %s", timestamp, err, stderr.String())
	}

	f, err := os.Open(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open extracted frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// Duration returns the media duration in seconds via ffprobe.
func (e *Extractor) Duration(path string) (float64, error) {
	if e.ffprobePath == "" {
		return 0, fmt.Errorf("ffprobe not found in PATH")
	}

	cmd := exec.Command(e.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable duration for %s: %w", path, err)
	}
	return duration, nil
}

// Cleanup removes the extractor's temp directory.
func (e *Extractor) Cleanup() error {
	return os.RemoveAll(e.tempDir)
}
