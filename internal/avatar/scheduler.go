package avatar

import (
	"sync"
	"time"
)

// State names which video loop the frontend should be playing.
type State string

const (
	StateListening State = "listening"
	StateTalking   State = "talking"
)

// Instruction tells the frontend what loop to show and for how long.
// RestartLoop means the clip must rewind to frame zero before playing.
// Loops counts full passes of the clip; zero with a positive Duration
// means a partial pass.
type Instruction struct {
	State       State
	RestartLoop bool
	Duration    time.Duration
	Loops       int
}

// Scheduler maps speech timing onto avatar loop instructions. The
// talking clip restarts in sync with the start of each utterance so lip
// movement lines up with audio onset.
type Scheduler struct {
	mu         sync.Mutex
	talkLoop   time.Duration
	listenLoop time.Duration
	state      State
}

func NewScheduler(talkLoop, listenLoop time.Duration) *Scheduler {
	if talkLoop <= 0 {
		talkLoop = 5 * time.Second
	}
	if listenLoop <= 0 {
		listenLoop = 5 * time.Second
	}
	return &Scheduler{
		talkLoop:   talkLoop,
		listenLoop: listenLoop,
		state:      StateListening,
	}
}

// State reports the loop currently scheduled.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SpeechStart schedules the talking loop for one utterance of the given
// duration. The first instruction always restarts the clip, even when a
// previous utterance is still notionally playing, so back-to-back
// sentences each begin with a clean mouth-open frame. A remainder shorter
// than one full loop is returned as a trailing partial instruction.
func (s *Scheduler) SpeechStart(d time.Duration) []Instruction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTalking

	if d <= 0 {
		return []Instruction{{State: StateTalking, RestartLoop: true}}
	}

	whole := int(d / s.talkLoop)
	rem := d % s.talkLoop

	var out []Instruction
	if whole > 0 {
		out = append(out, Instruction{
			State:       StateTalking,
			RestartLoop: true,
			Duration:    time.Duration(whole) * s.talkLoop,
			Loops:       whole,
		})
	}
	if rem > 0 {
		out = append(out, Instruction{
			State:       StateTalking,
			RestartLoop: whole == 0,
			Duration:    rem,
		})
	}
	return out
}

// SpeechEnd returns the avatar to the listening loop. The listening clip
// restarts so the idle pose begins from its first frame.
func (s *Scheduler) SpeechEnd() Instruction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateListening
	return Instruction{
		State:       StateListening,
		RestartLoop: true,
		Duration:    s.listenLoop,
		Loops:       1,
	}
}
