// Package player holds the player transform and movement. The player
// position is the streaming center the world loads around.
package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/graphics"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/input"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

const (
	eyeHeight   = 1.7
	walkSpeed   = 5.5
	sprintSpeed = 9.0
	gravity     = 22.0
	jumpSpeed   = 8.0

	mouseSensitivity = 0.12
)

type Player struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Yaw      float32 // degrees, -90 looks toward -Z
	Pitch    float32 // degrees
	OnGround bool

	FirstMouse bool
	lastX      float64
	lastY      float64

	world *world.World
}

func New(w *world.World) *Player {
	return &Player{
		Yaw:        -90,
		FirstMouse: true,
		world:      w,
	}
}

// SpawnAt places the player on the terrain surface at world X,Z.
func (p *Player) SpawnAt(wx, wz int) {
	groundY := p.world.SurfaceHeightAt(wx, wz)
	p.Position = mgl32.Vec3{float32(wx) + 0.5, float32(groundY) + 2, float32(wz) + 0.5}
	p.Velocity = mgl32.Vec3{}
	p.OnGround = false
}

// EyePosition is the camera origin.
func (p *Player) EyePosition() mgl32.Vec3 {
	return p.Position.Add(mgl32.Vec3{0, eyeHeight, 0})
}

// ChunkCoord returns the chunk the player currently stands in.
func (p *Player) ChunkCoord() world.ChunkCoord {
	return world.ChunkCoordAt(int(math.Floor(float64(p.Position.X()))), int(math.Floor(float64(p.Position.Z()))))
}

// Update applies movement input and gravity, clamping to the terrain
// surface from the heightmap.
func (p *Player) Update(dt float64, im *input.Manager) {
	speed := float32(walkSpeed)
	if im.IsActive(input.ActionSprint) {
		speed = sprintSpeed
	}

	// horizontal basis from yaw only, so looking up does not slow walking
	front := graphics.DirectionFromAngles(p.Yaw, 0)
	right := front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	var move mgl32.Vec3
	if im.IsActive(input.ActionMoveForward) {
		move = move.Add(front)
	}
	if im.IsActive(input.ActionMoveBack) {
		move = move.Sub(front)
	}
	if im.IsActive(input.ActionMoveRight) {
		move = move.Add(right)
	}
	if im.IsActive(input.ActionMoveLeft) {
		move = move.Sub(right)
	}
	if move.Len() > 0 {
		move = move.Normalize().Mul(speed)
	}
	p.Velocity[0] = move.X()
	p.Velocity[2] = move.Z()

	if im.IsActive(input.ActionJump) && p.OnGround {
		p.Velocity[1] = jumpSpeed
		p.OnGround = false
	}
	p.Velocity[1] -= gravity * float32(dt)

	p.Position = p.Position.Add(p.Velocity.Mul(float32(dt)))

	groundY := float32(p.world.SurfaceHeightAt(
		int(math.Floor(float64(p.Position.X()))),
		int(math.Floor(float64(p.Position.Z()))))) + 1
	if p.Position.Y() <= groundY {
		p.Position[1] = groundY
		p.Velocity[1] = 0
		p.OnGround = true
	}
}

// HandleMouseMovement turns cursor deltas into yaw/pitch.
func (p *Player) HandleMouseMovement(xpos, ypos float64) {
	if p.FirstMouse {
		p.lastX = xpos
		p.lastY = ypos
		p.FirstMouse = false
		return
	}
	dx := float32(xpos-p.lastX) * mouseSensitivity
	dy := float32(p.lastY-ypos) * mouseSensitivity
	p.lastX = xpos
	p.lastY = ypos

	p.Yaw += dx
	p.Pitch += dy
	if p.Pitch > 89 {
		p.Pitch = 89
	}
	if p.Pitch < -89 {
		p.Pitch = -89
	}
}
