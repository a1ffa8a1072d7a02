package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds projection parameters and derives view matrices from a
// position and orientation.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(height),
		FOV:         70.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
	}
}

func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// ViewMatrix builds the look-at matrix for an eye position and yaw/pitch
// in degrees.
func ViewMatrix(eye mgl32.Vec3, yaw, pitch float32) mgl32.Mat4 {
	front := DirectionFromAngles(yaw, pitch)
	return mgl32.LookAtV(eye, eye.Add(front), mgl32.Vec3{0, 1, 0})
}

// DirectionFromAngles converts yaw/pitch (degrees) into a unit vector.
func DirectionFromAngles(yaw, pitch float32) mgl32.Vec3 {
	yr := float64(mgl32.DegToRad(yaw))
	pr := float64(mgl32.DegToRad(pitch))
	return mgl32.Vec3{
		float32(math.Cos(yr) * math.Cos(pr)),
		float32(math.Sin(pr)),
		float32(math.Sin(yr) * math.Cos(pr)),
	}.Normalize()
}
