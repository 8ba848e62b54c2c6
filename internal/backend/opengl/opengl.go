// Package opengl implements sprite.Backend on OpenGL 4.1 core using
// instanced rendering: one unit quad, one instance buffer per frame, and one
// draw call per DrawBatch.
package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/spritebatch/internal/backend/opengl/shaders"
	"github.com/Faultbox/spritebatch/internal/engine/framebuffer"
	"github.com/Faultbox/spritebatch/internal/engine/shader"
	"github.com/Faultbox/spritebatch/pkg/geom"
	"github.com/Faultbox/spritebatch/pkg/math"
	"github.com/Faultbox/spritebatch/pkg/sprite"
)

// Attribute locations, matching sprite.vert.
const (
	locCorner    = 0
	locTransform = 1 // four consecutive columns
	locSrcRect   = 5
	locAlpha     = 6
)

// Layout of sprite.Instance in the instance buffer.
const (
	instanceStride  = int32(unsafe.Sizeof(sprite.Instance{}))
	offsetTransform = unsafe.Offsetof(sprite.Instance{}.Transform)
	offsetSrcRect   = unsafe.Offsetof(sprite.Instance{}.SrcRect)
	offsetAlpha     = unsafe.Offsetof(sprite.Instance{}.Alpha)
)

const initialInstances = 1024

var (
	errOutOfMemory    = errors.New("GL_OUT_OF_MEMORY")
	errIncompleteMain = errors.New("default framebuffer incomplete")
)

// Backend draws sprite frames with OpenGL. All methods must be called on the
// thread that owns the GL context.
type Backend struct {
	log      *zap.Logger
	viewport geom.Size
	program  *shader.Program

	vao         uint32
	quadVBO     uint32
	quadEBO     uint32
	instanceVBO uint32
	instanceCap int

	textures map[sprite.Texture]*texture
	ids      sprite.TextureIDs
}

type texture struct {
	id   uint32
	info sprite.TextureInfo
	fb   *framebuffer.Framebuffer // render targets only
}

// New creates the backend. A GL context must be current.
func New(viewport geom.Size, log *zap.Logger) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.NewProgram(shaders.SpriteVertexShader, shaders.SpriteFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sprite shader: %w", err)
	}

	b := &Backend{
		log:      log,
		viewport: viewport,
		program:  program,
		textures: make(map[sprite.Texture]*texture, 100),
	}
	b.createBuffers()

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return b, nil
}

// createBuffers sets up the quad and the instance buffer in one VAO.
func (b *Backend) createBuffers() {
	corners := []float32{
		0, 0,
		1, 0,
		1, 1,
		0, 1,
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(corners)*4, unsafe.Pointer(&corners[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(locCorner, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(locCorner)

	gl.GenBuffers(1, &b.quadEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.quadEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.instanceVBO)
	b.allocInstances(initialInstances)
	for loc := uint32(locTransform); loc <= locAlpha; loc++ {
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}
	b.pointInstances(0)

	gl.BindVertexArray(0)
}

// allocInstances reallocates the instance buffer. It must be bound.
func (b *Backend) allocInstances(n int) {
	gl.BufferData(gl.ARRAY_BUFFER, n*int(instanceStride), nil, gl.DYNAMIC_DRAW)
	b.instanceCap = n
}

// pointInstances points the instance attributes at instance first, so that
// gl_InstanceID 0 reads instances[first]. The instance buffer must be bound.
func (b *Backend) pointInstances(first int) {
	base := uintptr(first) * uintptr(instanceStride)
	for col := uint32(0); col < 4; col++ {
		gl.VertexAttribPointerWithOffset(locTransform+col, 4, gl.FLOAT, false, instanceStride,
			base+offsetTransform+uintptr(col)*4*4)
	}
	gl.VertexAttribPointerWithOffset(locSrcRect, 4, gl.FLOAT, false, instanceStride, base+offsetSrcRect)
	gl.VertexAttribPointerWithOffset(locAlpha, 1, gl.FLOAT, false, instanceStride, base+offsetAlpha)
}

// LoadTexture uploads a texture. Render targets also get a framebuffer.
func (b *Backend) LoadTexture(opts sprite.TextureLoadOptions) (sprite.Texture, error) {
	if err := opts.Validate(); err != nil {
		return sprite.Screen, err
	}

	format := uint32(gl.RGBA)
	if opts.Format == sprite.FormatBGRA8 {
		format = gl.BGRA
	}
	var pixels unsafe.Pointer
	if len(opts.Data) > 0 {
		pixels = gl.Ptr(opts.Data)
	}

	tex := &texture{info: opts.Info()}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(opts.Width), int32(opts.Height), 0,
		format, gl.UNSIGNED_BYTE, pixels)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if opts.Usage == sprite.UsageRenderTarget {
		fb, err := framebuffer.New(tex.id, int32(opts.Width), int32(opts.Height))
		if err != nil {
			gl.DeleteTextures(1, &tex.id)
			return sprite.Screen, fmt.Errorf("render target %q: %w", opts.Name, err)
		}
		tex.fb = fb
		if pixels == nil {
			fb.Bind()
			fb.Clear(0, 0, 0, 0)
			gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		}
	}

	if code := gl.GetError(); code == gl.OUT_OF_MEMORY {
		b.destroy(tex)
		return sprite.Screen, fmt.Errorf("uploading %q: %w", opts.Name, errOutOfMemory)
	}

	t := b.ids.Next()
	b.textures[t] = tex
	b.log.Debug("texture uploaded",
		zap.Uint32("texture", uint32(t)),
		zap.Uint32("gl_texture", tex.id),
		zap.Stringer("format", opts.Format),
		zap.Stringer("usage", opts.Usage),
	)
	return t, nil
}

// UnloadTexture deletes the GL texture and its framebuffer.
func (b *Backend) UnloadTexture(t sprite.Texture) {
	tex, ok := b.textures[t]
	if !ok {
		return
	}
	b.destroy(tex)
	delete(b.textures, t)
}

func (b *Backend) destroy(tex *texture) {
	if tex.fb != nil {
		tex.fb.Destroy()
	}
	gl.DeleteTextures(1, &tex.id)
}

// QueryTexture returns the description of t.
func (b *Backend) QueryTexture(t sprite.Texture) (sprite.TextureInfo, bool) {
	tex, ok := b.textures[t]
	if !ok {
		return sprite.TextureInfo{}, false
	}
	return tex.info, true
}

// ResizeViewport sets the size of the default framebuffer.
func (b *Backend) ResizeViewport(size geom.Size) {
	b.viewport = size
}

// Viewport returns the size of the default framebuffer.
func (b *Backend) Viewport() geom.Size {
	return b.viewport
}

// Present executes the frame. The caller swaps buffers afterwards.
func (b *Backend) Present(commands []sprite.Command, instances []sprite.Instance) error {
	if b.viewport.Empty() {
		return sprite.ErrSurfaceUnavailable
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: %w (0x%x)", sprite.ErrSurfaceUnavailable, errIncompleteMain, status)
	}

	b.program.Use()
	gl.Uniform1i(b.program.Uniform("uTexture"), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.instanceVBO)
	defer gl.BindVertexArray(0)

	b.upload(instances)

	bound := sprite.Texture(^uint32(0))
	for _, cmd := range commands {
		switch c := cmd.(type) {
		case sprite.Clear:
			if err := b.bindTarget(c.Target); err != nil {
				return err
			}
			bound = c.Target
			rgba := c.Color.Floats()
			gl.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
			gl.Clear(gl.COLOR_BUFFER_BIT)

		case sprite.DrawBatch:
			if c.Range.Len() <= 0 {
				continue
			}
			src, ok := b.textures[c.Texture]
			if !ok {
				return &sprite.TextureError{Op: "present", Texture: c.Texture, Err: sprite.ErrTextureNotFound}
			}
			if c.Target != bound {
				if err := b.bindTarget(c.Target); err != nil {
					return err
				}
				bound = c.Target
			}
			gl.BindTexture(gl.TEXTURE_2D, src.id)
			b.pointInstances(c.Range.Start)
			gl.DrawElementsInstanced(gl.TRIANGLES, 6, gl.UNSIGNED_INT, nil, int32(c.Range.Len()))
		}
	}

	if code := gl.GetError(); code == gl.OUT_OF_MEMORY {
		return fmt.Errorf("%w: %w", sprite.ErrSurfaceUnavailable, errOutOfMemory)
	} else if code != gl.NO_ERROR {
		b.log.Warn("GL error during present", zap.Uint32("code", code))
	}
	return nil
}

// upload copies the frame's instances into the instance buffer, growing it
// when the frame does not fit.
func (b *Backend) upload(instances []sprite.Instance) {
	if len(instances) == 0 {
		return
	}
	if len(instances) > b.instanceCap {
		n := max(len(instances), b.instanceCap*2)
		b.allocInstances(n)
		b.log.Debug("instance buffer grown", zap.Int("capacity", n))
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(instances)*int(instanceStride), unsafe.Pointer(&instances[0]))
}

// bindTarget binds the framebuffer for target and loads its projection.
func (b *Backend) bindTarget(target sprite.Texture) error {
	var projection math.Mat4
	if target == sprite.Screen {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		w, h := b.viewport.Width, b.viewport.Height
		gl.Viewport(0, 0, int32(w), int32(h))
		projection = math.Ortho(0, float32(w), float32(h), 0, 1, -1)
	} else {
		tex, ok := b.textures[target]
		if !ok || tex.fb == nil {
			return &sprite.TextureError{Op: "present", Texture: target, Err: sprite.ErrTargetNotFound}
		}
		tex.fb.Bind()
		// Rows of a rendered target start at the bottom of the framebuffer, so
		// the target projection keeps y=0 at row 0 like an uploaded texture.
		projection = math.Ortho(0, float32(tex.info.Width), 0, float32(tex.info.Height), 1, -1)
	}
	gl.UniformMatrix4fv(b.program.Uniform("uProjection"), 1, false, projection.Ptr())
	return nil
}

// ReadScreen reads the default framebuffer as tightly packed RGBA rows,
// bottom row first. Call it after Present and before swapping buffers.
func (b *Backend) ReadScreen() ([]byte, geom.Size) {
	size := b.viewport
	pixels := make([]byte, int(size.Width)*int(size.Height)*4)
	if len(pixels) == 0 {
		return pixels, size
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(size.Width), int32(size.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, size
}

// Close releases every GL object the backend created.
func (b *Backend) Close() {
	for t, tex := range b.textures {
		b.destroy(tex)
		delete(b.textures, t)
	}
	gl.DeleteBuffers(1, &b.instanceVBO)
	gl.DeleteBuffers(1, &b.quadEBO)
	gl.DeleteBuffers(1, &b.quadVBO)
	gl.DeleteVertexArrays(1, &b.vao)
	b.program.Delete()
	b.log.Info("OpenGL backend closed")
}
