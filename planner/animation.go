package planner

import (
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultSampleInterval is how long each configuration of a path is shown.
const DefaultSampleInterval = 50 * time.Millisecond

// Pose is the arm drawn at one set of angles.
type Pose struct {
	Angles Angles `json:"angles"`
	Base   Point  `json:"base"`
	Joint  Point  `json:"joint"`
	End    Point  `json:"end"`
}

// Configuration returns the grid cell nearest to the pose's angles.
func (p Pose) Configuration() Configuration {
	return ToConfiguration(p.Angles)
}

// SamplePose returns the pose shown after elapsed time of playback, one path
// entry per interval. ok is false once the path is exhausted.
func SamplePose(arm Arm, path Path, elapsed, interval time.Duration) (pose Pose, ok bool) {
	if interval <= 0 || elapsed < 0 {
		return Pose{}, false
	}
	i := int64(elapsed / interval)
	if i >= int64(len(path)) {
		return Pose{}, false
	}
	return arm.Forward(path[i].Angles()), true
}

// Playback samples a path against a clock, starting when it is created.
type Playback struct {
	clock    clock.Clock
	started  time.Time
	arm      Arm
	path     Path
	interval time.Duration
}

// NewPlayback starts playing path now. A nil clock means the wall clock.
func NewPlayback(clk clock.Clock, arm Arm, path Path, interval time.Duration) *Playback {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Playback{
		clock:    clk,
		started:  clk.Now(),
		arm:      arm,
		path:     path,
		interval: interval,
	}
}

// Elapsed returns the time since playback started.
func (p *Playback) Elapsed() time.Duration {
	return p.clock.Now().Sub(p.started)
}

// Pose samples the pose for the current time.
func (p *Playback) Pose() (Pose, bool) {
	return SamplePose(p.arm, p.path, p.Elapsed(), p.interval)
}

// Interval returns the time each configuration is held.
func (p *Playback) Interval() time.Duration {
	return p.interval
}

// Duration returns the total playback time.
func (p *Playback) Duration() time.Duration {
	return time.Duration(len(p.path)) * p.interval
}

// Ticker returns a ticker on the playback clock firing once per interval.
func (p *Playback) Ticker() *clock.Ticker {
	return p.clock.Ticker(p.interval)
}
