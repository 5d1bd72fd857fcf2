package service

import (
	"sync"
	"time"

	"github.com/tiltmaze/tilt-maze-game/game/engine"
)

// broadcastHz caps how often live frames go out over the wire. The
// simulation still ticks at the configured rate; clients just see every
// Nth frame, plus the finish frame which is never dropped.
const broadcastHz = 30

// runner drives one real-time session: a ticker at the configured rate,
// each tick advancing the engine under the session lock. It exits on its
// own when the run finishes, or when stop is called (restart, delete,
// shutdown).
type runner struct {
	sess        *Session
	tickHz      int
	broadcaster FrameBroadcaster

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newRunner(sess *Session, tickHz int, broadcaster FrameBroadcaster) *runner {
	return &runner{
		sess:        sess,
		tickHz:      tickHz,
		broadcaster: broadcaster,
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (r *runner) run() {
	defer close(r.done)

	interval := time.Second / time.Duration(r.tickHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	broadcastEvery := r.tickHz / broadcastHz
	if broadcastEvery < 1 {
		broadcastEvery = 1
	}

	frameCount := 0
	for {
		select {
		case <-r.quit:
			return
		case now := <-ticker.C:
			r.sess.Mu.Lock()
			frame := r.sess.Engine.Tick(now)
			phase := r.sess.Engine.Phase()
			r.sess.Mu.Unlock()

			frameCount++
			if r.broadcaster != nil && (frame.JustFinished || frameCount%broadcastEvery == 0) {
				r.broadcaster.BroadcastFrame(r.sess.ID, frame)
			}

			if phase != engine.PhasePlaying {
				return
			}
		}
	}
}

// stop signals the loop and waits for it to drain. Safe to call more than
// once, and safe on a runner that already exited on its own.
func (r *runner) stop() {
	r.stopOnce.Do(func() { close(r.quit) })
	<-r.done
}

// running reports whether the loop goroutine is still alive
func (r *runner) running() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}
