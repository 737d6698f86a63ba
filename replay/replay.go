package replay

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"github.com/jask/jaskinput/input"
)

// Frame is one captured key event, offset from the start of the recording.
// Recordings are JSON lines so a session can be tailed or truncated with
// ordinary text tools.
type Frame struct {
	AtMS int64  `json:"at_ms"`
	Key  string `json:"key"`
}

// Recorder appends frames to w as they happen.
type Recorder struct {
	w     io.Writer
	start time.Time
}

func NewRecorder(w io.Writer, start time.Time) *Recorder {
	return &Recorder{w: w, start: start}
}

// Record writes one frame. Events before the recording start clamp to offset 0.
func (r *Recorder) Record(key string, at time.Time) error {
	ms := at.Sub(r.start).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	line, err := sonnet.Marshal(Frame{AtMS: ms, Key: key})
	if err != nil {
		return fmt.Errorf("replay: encode frame: %w", err)
	}
	line = append(line, '\n')
	if _, err := r.w.Write(line); err != nil {
		return fmt.Errorf("replay: write frame: %w", err)
	}
	return nil
}

// ReadAll parses a recording. Blank lines are skipped so hand-edited
// recordings stay loadable.
func ReadAll(r io.Reader) ([]Frame, error) {
	var frames []Frame
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var f Frame
		if err := sonnet.Unmarshal(line, &f); err != nil {
			return nil, fmt.Errorf("replay: line %d: %w", n, err)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay: read: %w", err)
	}
	return frames, nil
}

// Events rebases frames onto start, ready to feed a manager.
func Events(frames []Frame, start time.Time) []input.Event {
	out := make([]input.Event, len(frames))
	for i, f := range frames {
		out[i] = input.Event{
			Key: f.Key,
			At:  start.Add(time.Duration(f.AtMS) * time.Millisecond),
		}
	}
	return out
}

// Duration reports the offset of the last frame.
func Duration(frames []Frame) time.Duration {
	if len(frames) == 0 {
		return 0
	}
	return time.Duration(frames[len(frames)-1].AtMS) * time.Millisecond
}
