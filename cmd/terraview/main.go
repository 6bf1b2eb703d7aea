// terraview is a debug viewer for the terrain engine: it pages chunks around
// the player, uploads their surface meshes and walks the isosurface with the
// movement engine. The engine itself never depends on any of this; the viewer
// is a read-only consumer of chunk surface lists.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"terramesh/internal/config"
	"terramesh/internal/game"
	"terramesh/internal/geom"
	"terramesh/internal/graphics"
	"terramesh/internal/persist"
	"terramesh/internal/profiling"
	"terramesh/internal/terrain"
)

func init() { runtime.LockOSThread() }

const (
	winW = 900
	winH = 600
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration")
	viewRadius := flag.Int("radius", 3, "mesh radius around the player, in chunks")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	field := terrain.NewNoiseFieldParams(cfg.Seed, cfg.Noise.Stretch, cfg.Noise.Amplitude,
		cfg.Noise.Octaves, cfg.Noise.Persistence, cfg.Noise.Lacunarity)
	store := terrain.NewStore(field)
	if cfg.Cache.Dir != "" {
		cache, err := persist.OpenDiskCache(cfg.Cache.Dir, cfg.Cache.Index)
		if err != nil {
			log.Fatalf("cache: %v", err)
		}
		defer cache.Close()
		store.SetCache(cache)
	}

	engine := game.New(store)
	if err := engine.Spawn(); err != nil {
		log.Fatalf("spawn: %v", err)
	}

	streamer := terrain.NewStreamer(store)
	defer streamer.Close()
	streamer.PrefetchAround(engine.CurrentCell(), cfg.World.PrefetchRadius)

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		log.Fatalf("window: %v", err)
	}
	if err := gl.Init(); err != nil {
		log.Fatalf("gl: %v", err)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.45, 0.65, 0.85, 1.0)

	shader, err := graphics.NewShaderFromSource(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		log.Fatalf("shader: %v", err)
	}

	v := &viewer{
		engine:   engine,
		streamer: streamer,
		cfg:      cfg,
		shader:   shader,
		radius:   *viewRadius,
		meshes:   make(map[geom.Vec3i]*chunkMesh),
		yaw:      0.8,
	}
	window.SetKeyCallback(v.handleKey)

	frames := 0
	lastFPSCheck := time.Now()
	for !window.ShouldClose() {
		profiling.ResetFrame()

		v.syncMeshes(store)
		v.render()

		window.SwapBuffers()
		glfw.PollEvents()

		frames++
		if time.Since(lastFPSCheck) >= time.Second {
			fmt.Printf("FPS %d | chunks %d | %s\n", frames, store.Len(), profiling.TopN(3))
			frames = 0
			lastFPSCheck = time.Now()
		}
	}
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(winW, winH, "terraview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	return window, nil
}

type viewer struct {
	engine   *game.Engine
	streamer *terrain.Streamer
	cfg      config.Config
	shader   *graphics.Shader
	radius   int
	yaw      float64

	meshes  map[geom.Vec3i]*chunkMesh
	lastMod uint64
	dirty   bool
}

func (v *viewer) handleKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	var dir geom.Vec3i
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
		return
	case glfw.KeyQ:
		v.yaw -= 0.1
		return
	case glfw.KeyE:
		v.yaw += 0.1
		return
	case glfw.KeyUp, glfw.KeyW:
		dir = geom.Vec3i{Y: 1}
	case glfw.KeyDown, glfw.KeyS:
		dir = geom.Vec3i{Y: -1}
	case glfw.KeyLeft, glfw.KeyA:
		dir = geom.Vec3i{X: -1}
	case glfw.KeyRight, glfw.KeyD:
		dir = geom.Vec3i{X: 1}
	default:
		return
	}

	if v.engine.AttemptMove(dir) {
		cell := v.engine.CurrentCell()
		v.streamer.PrefetchAround(cell, v.cfg.World.PrefetchRadius)
		v.engine.Store().EvictOutside(cell, v.cfg.World.EvictRadius)
		v.dirty = true
	}
}

// syncMeshes rebuilds GPU meshes when the chunk set changed, and drops meshes
// of evicted or out-of-range chunks.
func (v *viewer) syncMeshes(store *terrain.Store) {
	mod := store.ModCount()
	if mod == v.lastMod && !v.dirty {
		return
	}
	v.lastMod = mod
	v.dirty = false

	center := v.engine.CurrentCell().AlignDown(terrain.ChunkSize)
	keep := make(map[geom.Vec3i]bool)
	store.Each(func(c *terrain.Chunk) {
		if c.Origin.Chebyshev(center)/terrain.ChunkSize > v.radius {
			return
		}
		keep[c.Origin] = true
		if _, ok := v.meshes[c.Origin]; ok {
			return
		}
		if m := newChunkMesh(c); m != nil {
			v.meshes[c.Origin] = m
		}
	})
	for origin, m := range v.meshes {
		if !keep[origin] {
			m.destroy()
			delete(v.meshes, origin)
		}
	}
}

func (v *viewer) render() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	pos := v.engine.CurrentPosition()
	target := mgl32.Vec3{float32(pos.X()), float32(pos.Y()), float32(pos.Z())}
	offset := mgl32.Vec3{
		float32(22 * cos64(v.yaw)),
		float32(22 * sin64(v.yaw)),
		14,
	}
	eye := target.Add(offset)

	proj := mgl32.Perspective(mgl32.DegToRad(55), float32(winW)/float32(winH), 0.1, 400)
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 0, 1})

	v.shader.Use()
	v.shader.SetMatrix4("projection", &proj[0])
	v.shader.SetMatrix4("view", &view[0])
	v.shader.SetVector3("lightDir", 0.4, 0.3, 0.85)
	v.shader.SetVector3("playerPos", target.X(), target.Y(), target.Z())

	for _, m := range v.meshes {
		m.draw()
	}
}

type chunkMesh struct {
	vao, vbo, nbo, ebo uint32
	count              int32
}

func newChunkMesh(c *terrain.Chunk) *chunkMesh {
	mesh := buildMesh(c)
	if mesh.IsEmpty() {
		return nil
	}

	m := &chunkMesh{count: int32(len(mesh.Indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)

	gl.GenBuffers(1, &m.nbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.nbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Normals)*4, gl.Ptr(mesh.Normals), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 0, nil)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

func (m *chunkMesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m *chunkMesh) destroy() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.nbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}
