package game

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/google/uuid"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/config"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/input"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/profiling"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/save"
)

// appState is one variant of the app state machine. Each state owns its
// data and decides its successor; no shared enum is switched on across
// components.
type appState interface {
	// Tick runs one frame and returns the state for the next frame.
	Tick(a *App, dt float64) (appState, error)
}

// App owns the window, input and save service, and runs whichever state
// is current. Constructed once in main and passed explicitly; there are
// no package-level singletons.
type App struct {
	window *glfw.Window
	input  *input.Manager
	saves  *save.Service

	state      appState
	fpsLimiter *FPSLimiter
	lastTime   time.Time
}

func NewApp(window *glfw.Window, im *input.Manager, saves *save.Service) *App {
	a := &App{
		window:     window,
		input:      im,
		saves:      saves,
		state:      &loadingState{},
		fpsLimiter: NewFPSLimiter(),
		lastTime:   time.Now(),
	}
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if ps, ok := a.state.(*playingState); ok && !ps.session.Paused {
			ps.session.Player.HandleMouseMovement(x, y)
		}
	})
	return a
}

// Run drives the state machine until the window closes or a state
// returns a fatal error.
func (a *App) Run() error {
	for !a.window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := now.Sub(a.lastTime).Seconds()
		a.lastTime = now

		glfw.PollEvents()
		a.input.Poll()

		next, err := a.state.Tick(a, dt)
		if err != nil {
			return err
		}
		a.state = next

		a.input.PostUpdate()

		paused := false
		if ps, ok := a.state.(*playingState); ok {
			paused = ps.session.Paused
		}
		a.fpsLimiter.Wait(paused)

		if d := profiling.SumWithPrefix(""); d > 33*time.Millisecond {
			log.Printf("[game] slow frame: %v. Top: %s", d.Round(100*time.Microsecond), profiling.TopN(4))
		}
	}
	return nil
}

// Shutdown ends the active session, flushing saves. Safe to call after
// Run returned or from an exit handler.
func (a *App) Shutdown() {
	if ps, ok := a.state.(*playingState); ok {
		ps.session.End("shutdown")
		a.state = &stoppedState{}
	}
}

// loadingState creates a session: it resolves which world to play
// (restored or fresh), builds the pipeline and preloads the spawn
// rings. seed == 0 means "resolve from the save database".
type loadingState struct {
	seed int64
}

func (st *loadingState) Tick(a *App, _ float64) (appState, error) {
	meta, restored, err := st.resolveWorld(a)
	if err != nil {
		return nil, err
	}
	session, err := NewSession(a.window, a.saves, meta, restored)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	log.Printf("[game] entering world %q (seed %d)", meta.Name, meta.Seed)
	return &playingState{session: session}, nil
}

func (st *loadingState) resolveWorld(a *App) (save.WorldMeta, *save.PlayerState, error) {
	if st.seed != 0 {
		// explicit seed: a world switch, always fresh
		return newWorldMeta(st.seed), nil, nil
	}
	res, err := a.saves.LoadWorld().Await(10 * time.Second)
	if err != nil {
		return save.WorldMeta{}, nil, fmt.Errorf("load world: %w", err)
	}
	if !res.Found {
		seed := config.Active().Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return newWorldMeta(seed), nil, nil
	}
	p := res.Player
	return res.Meta, &p, nil
}

func newWorldMeta(seed int64) save.WorldMeta {
	return save.WorldMeta{
		ID:        uuid.NewString(),
		Name:      fmt.Sprintf("world-%d", seed%100000),
		Seed:      seed,
		CreatedAt: time.Now(),
	}
}

// playingState runs the session frame loop and handles world switching.
type playingState struct {
	session *Session
}

func (st *playingState) Tick(a *App, dt float64) (appState, error) {
	if a.input.JustPressed(input.ActionSwitchWorld) && !st.session.Paused {
		st.session.End("world switch")
		return &loadingState{seed: time.Now().UnixNano()}, nil
	}
	if err := st.session.Tick(dt, a.input); err != nil {
		return nil, err
	}
	return st, nil
}

// stoppedState is the terminal variant after Shutdown.
type stoppedState struct{}

func (st *stoppedState) Tick(a *App, _ float64) (appState, error) {
	a.window.SetShouldClose(true)
	return st, nil
}
