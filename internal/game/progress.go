package game

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// windowProgress reports loading milestones through the window title and
// the log, and pumps events so the window stays responsive during the
// synchronous preload.
type windowProgress struct {
	window *glfw.Window
}

func (p *windowProgress) UpdateProgress(stage string) {
	log.Printf("[load] %s", stage)
	if p.window != nil {
		p.window.SetTitle("Stonebreak - " + stage)
		glfw.PollEvents()
	}
}
