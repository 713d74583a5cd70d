// Package video reads the timing metadata tmark needs from a video file
// (frame rate, frame count, duration) and hands playback off to an external
// player.
package video

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNotFound is returned when the video path does not exist.
var ErrNotFound = errors.New("video file not found")

// ErrNoVideoStream is returned when ffprobe reports no usable video stream.
var ErrNoVideoStream = errors.New("no video stream with a frame rate")

// Info is the timing metadata of an opened video.
type Info struct {
	Path       string
	FPS        float64
	FrameCount int
	Duration   float64
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// Prober runs ffprobe against video files.
type Prober struct {
	// Binary is the ffprobe executable. Defaults to "ffprobe".
	Binary string
}

// Probe opens path with ffprobe and extracts its timing metadata.
//
// The frame count comes from the stream's nb_frames when the container
// records it, otherwise it is estimated as duration * fps.
func (p Prober) Probe(path string) (*Info, error) {
	if path == "" {
		return nil, fmt.Errorf("video path cannot be empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat video: %w", err)
	}

	bin := p.Binary
	if bin == "" {
		bin = "ffprobe"
	}

	// -select_streams v:0 keeps attached pictures and audio out of the result
	cmd := exec.Command(bin,
		"-v", "quiet",
		"-print_format", "json",
		"-select_streams", "v:0",
		"-show_streams",
		"-show_format",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbeOutput(output)
	if err != nil {
		return nil, err
	}
	info.Path = path
	return info, nil
}

func parseProbeOutput(data []byte) (*Info, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}

	var stream *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			stream = &out.Streams[i]
			break
		}
	}
	if stream == nil {
		return nil, ErrNoVideoStream
	}

	fps, err := parseFrameRate(stream.AvgFrameRate)
	if err != nil || fps <= 0 {
		fps, err = parseFrameRate(stream.RFrameRate)
	}
	if err != nil || fps <= 0 {
		return nil, ErrNoVideoStream
	}

	duration, _ := strconv.ParseFloat(out.Format.Duration, 64)
	if duration <= 0 {
		duration, _ = strconv.ParseFloat(stream.Duration, 64)
	}

	frames, err := strconv.Atoi(stream.NbFrames)
	if err != nil || frames <= 0 {
		frames = int(duration * fps)
	}
	if duration <= 0 {
		duration = float64(frames) / fps
	}

	return &Info{FPS: fps, FrameCount: frames, Duration: duration}, nil
}

// parseFrameRate parses ffprobe rationals such as "30000/1001" or "25/1".
func parseFrameRate(rate string) (float64, error) {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		return strconv.ParseFloat(rate, 64)
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", rate, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", rate, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("invalid frame rate %q: zero denominator", rate)
	}
	return n / d, nil
}
