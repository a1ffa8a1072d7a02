// Package input maps raw GLFW keys onto named actions with edge
// detection, so game code never hardcodes key constants.
package input

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionSprint
	ActionPause
	ActionToggleProfiling
	ActionSwitchWorld
	actionCount
)

var defaultBindings = map[Action]glfw.Key{
	ActionMoveForward:     glfw.KeyW,
	ActionMoveBack:        glfw.KeyS,
	ActionMoveLeft:        glfw.KeyA,
	ActionMoveRight:       glfw.KeyD,
	ActionJump:            glfw.KeySpace,
	ActionSprint:          glfw.KeyLeftControl,
	ActionPause:           glfw.KeyEscape,
	ActionToggleProfiling: glfw.KeyF3,
	ActionSwitchWorld:     glfw.KeyR,
}

// Manager polls key state once per frame and exposes level and edge
// queries. PostUpdate must run at the end of each frame to age edges.
type Manager struct {
	window   *glfw.Window
	bindings map[Action]glfw.Key
	active   [actionCount]bool
	wasDown  [actionCount]bool
}

func NewManager(window *glfw.Window) *Manager {
	return &Manager{
		window:   window,
		bindings: defaultBindings,
	}
}

// Poll samples current key state. Call after glfw.PollEvents.
func (m *Manager) Poll() {
	for action, key := range m.bindings {
		m.active[action] = m.window.GetKey(key) == glfw.Press
	}
}

// IsActive reports whether the action's key is held.
func (m *Manager) IsActive(a Action) bool {
	return m.active[a]
}

// JustPressed reports a press edge since the previous frame.
func (m *Manager) JustPressed(a Action) bool {
	return m.active[a] && !m.wasDown[a]
}

// PostUpdate ages this frame's state for next frame's edge detection.
func (m *Manager) PostUpdate() {
	m.wasDown = m.active
}
