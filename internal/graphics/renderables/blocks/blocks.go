// Package blocks owns the GL side of chunk rendering: it implements the
// world.GPUDevice upload/free contract and draws every ACTIVE chunk.
// All code here must run on the thread owning the GL context.
package blocks

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/graphics"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

const vertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec3 aColor;
uniform mat4 view;
uniform mat4 proj;
out vec3 Normal;
out vec3 Color;
void main() {
	Normal = aNormal;
	Color = aColor;
	gl_Position = proj * view * vec4(aPos, 1.0);
}
`

const fragmentShader = `#version 410 core
in vec3 Normal;
in vec3 Color;
uniform vec3 lightDir;
out vec4 FragColor;
void main() {
	float diff = max(dot(normalize(Normal), -lightDir), 0.35);
	FragColor = vec4(Color * diff, 1.0);
}
`

// Blocks uploads, frees and draws chunk meshes.
type Blocks struct {
	shader *graphics.Shader

	uploads int
	frees   int
}

func NewBlocks() *Blocks {
	return &Blocks{}
}

// Init compiles the block shader. GL thread.
func (b *Blocks) Init() error {
	shader, err := graphics.NewShaderFromSource(vertexShader, fragmentShader)
	if err != nil {
		return fmt.Errorf("blocks shader: %w", err)
	}
	b.shader = shader
	return nil
}

// UploadChunkMesh creates the VAO/VBO/EBO for one chunk mesh. A GL error
// during upload (lost context, out of memory) is returned to the caller;
// the frame decides whether to recover or abort.
func (b *Blocks) UploadChunkMesh(coord world.ChunkCoord, mesh world.MeshData) (world.GPUHandle, error) {
	// clear any stale error so the check below is attributable
	for gl.GetError() != gl.NO_ERROR {
	}

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(9 * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteVertexArrays(1, &vao)
		gl.DeleteBuffers(1, &vbo)
		gl.DeleteBuffers(1, &ebo)
		return world.GPUHandle{}, fmt.Errorf("gl error 0x%x uploading chunk %v", errCode, coord)
	}

	b.uploads++
	return world.GPUHandle{
		VAO:        vao,
		VBO:        vbo,
		EBO:        ebo,
		IndexCount: int32(len(mesh.Indices)),
	}, nil
}

// DeleteChunkMesh frees one chunk's GL resources.
func (b *Blocks) DeleteChunkMesh(coord world.ChunkCoord, handle world.GPUHandle) {
	gl.DeleteVertexArrays(1, &handle.VAO)
	gl.DeleteBuffers(1, &handle.VBO)
	gl.DeleteBuffers(1, &handle.EBO)
	b.frees++
}

// Render draws all renderable chunks with the given matrices.
func (b *Blocks) Render(w *world.World, view, proj mgl32.Mat4) {
	b.shader.Use()
	b.shader.SetMatrix4("view", &view[0])
	b.shader.SetMatrix4("proj", &proj[0])
	b.shader.SetVector3("lightDir", -0.4, -0.8, -0.45)

	w.ForEachRenderable(func(coord world.ChunkCoord, handle world.GPUHandle) {
		gl.BindVertexArray(handle.VAO)
		gl.DrawElementsWithOffset(gl.TRIANGLES, handle.IndexCount, gl.UNSIGNED_INT, 0)
	})
	gl.BindVertexArray(0)
}

// Dispose frees the shader. Chunk handles are owned by the world and
// released through its cleanup queue.
func (b *Blocks) Dispose() {
	if b.shader != nil {
		b.shader.Dispose()
		b.shader = nil
	}
}

// UploadCount and FreeCount expose lifetime totals for diagnostics.
func (b *Blocks) UploadCount() int { return b.uploads }
func (b *Blocks) FreeCount() int   { return b.frees }
