package game

import (
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/config"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/graphics/renderables/blocks"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/graphics/renderer"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/input"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/meshing"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/player"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/profiling"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/save"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

const (
	clearTimeout = 2 * time.Second
	flushTimeout = 5 * time.Second
)

// Session owns one playable world: the streaming pipeline, its GL
// device, the player and the save wiring.
type Session struct {
	Window   *glfw.Window
	Renderer *renderer.Renderer
	Blocks   *blocks.Blocks
	Player   *player.Player
	World    *world.World
	Saves    *save.Service

	Paused bool

	meta save.WorldMeta
}

// NewSession builds the world pipeline for a seed and preloads the rings
// around spawn, reporting progress. The caller still owns window and
// save service across sessions.
func NewSession(window *glfw.Window, saves *save.Service, meta save.WorldMeta, restored *save.PlayerState) (*Session, error) {
	settings := config.Active()

	blocksRenderer := blocks.NewBlocks()
	width, height := window.GetSize()
	r, err := renderer.NewRenderer(width, height, blocksRenderer)
	if err != nil {
		return nil, err
	}

	// resize drives both the GL viewport and the camera aspect; each
	// session points the callback at its own renderer
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		r.UpdateViewport(width, height)
	})

	gen := world.NewHeightmapGenerator(meta.Seed)
	w := world.NewWorld(gen, meshing.NewBuilder(), meta.Seed, world.Options{
		RenderDistance:     settings.RenderDistance,
		EvictMargin:        settings.EvictMargin,
		MaxOutstandingJobs: settings.MaxOutstandingJobs,
		MaxUploadsPerFrame: settings.MaxUploadsPerFrame,
	})

	p := player.New(w)
	if restored != nil {
		p.Position = mgl32.Vec3{restored.X, restored.Y, restored.Z}
		p.Yaw = restored.Yaw
		p.Pitch = restored.Pitch
	} else {
		p.SpawnAt(0, 0)
	}

	s := &Session{
		Window:   window,
		Renderer: r,
		Blocks:   blocksRenderer,
		Player:   p,
		World:    w,
		Saves:    saves,
		meta:     meta,
	}

	// initial population: nearby rings resident before the first frame
	preloadRadius := min(settings.RenderDistance, 4)
	reporter := &windowProgress{window: window}
	center := p.ChunkCoord()
	if err := w.PreloadAround(center, preloadRadius, blocksRenderer, reporter, 30*time.Second); err != nil {
		s.teardown()
		return nil, err
	}
	window.SetTitle("Stonebreak")

	if err := saves.Initialize(meta, s.snapshot); err != nil {
		s.teardown()
		return nil, err
	}
	saves.StartAutoSave()

	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	return s, nil
}

// snapshot captures save state; runs on the main thread.
func (s *Session) snapshot() save.Snapshot {
	return save.Snapshot{
		Meta: s.meta,
		Player: save.PlayerState{
			X: s.Player.Position.X(), Y: s.Player.Position.Y(), Z: s.Player.Position.Z(),
			Yaw: s.Player.Yaw, Pitch: s.Player.Pitch,
		},
		Chunks: s.World.SnapshotActive(),
	}
}

// Tick runs one frame of the fixed main-thread contract:
//
//	poll input -> player/world update (submit) -> drain uploads ->
//	drain GPU cleanup -> render -> swap.
//
// Drains deliberately lag submission: a mesh completed during this
// frame's background pass is uploaded no earlier than the next frame's
// drain, which keeps the drain bounded and start-of-frame consistent.
func (s *Session) Tick(dt float64, im *input.Manager) error {
	if im.JustPressed(input.ActionPause) {
		s.setPaused(!s.Paused)
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		log.Printf("[profiling] loaded=%d pendingMesh=%d pendingUpload=%d | %s",
			s.World.LoadedChunkCount(), s.World.PendingMeshBuildCount(), s.World.PendingGLUploadCount(),
			profiling.TopN(6))
	}

	if !s.Paused {
		func() { defer profiling.Track("player.Update")(); s.Player.Update(dt, im) }()
		s.World.Update(s.Player.Position.X(), s.Player.Position.Z())
	}

	if err := s.World.UpdateMainThread(s.Blocks); err != nil {
		// GPU upload failure is fatal to the frame; let the app decide
		return err
	}
	s.World.ProcessGPUCleanup(s.Blocks)

	func() { defer profiling.Track("renderer.Render")(); s.Renderer.Render(s.World, s.Player) }()
	s.Window.SwapBuffers()
	return nil
}

func (s *Session) setPaused(paused bool) {
	s.Paused = paused
	if paused {
		s.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	} else {
		s.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		s.Player.FirstMouse = true
	}
}

// End flushes saves and tears the world down; used for both world
// switches and quitting. Safe to call once.
func (s *Session) End(reason string) {
	s.Saves.StopAutoSave()
	if err := s.Saves.FlushBlocking(reason, flushTimeout); err != nil {
		log.Printf("[game] %v", err)
	}
	s.teardown()
}

func (s *Session) teardown() {
	s.World.ClearWorldData(s.Blocks, clearTimeout)
	s.World.Close()
	s.Renderer.Dispose()
}
