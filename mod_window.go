package galacto

import (
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState wraps the single shared GLFW window. Wheel movement and
// framebuffer resizes arrive via callbacks during PollEvents and are drained
// once per frame by the input and GPU systems.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	scrollDelta   float64
	pendingResize bool
	resizeWidth   int
	resizeHeight  int
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	s := &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}

	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		s.scrollDelta += yoff
	})
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		s.pendingResize = true
		s.resizeWidth = width
		s.resizeHeight = height
	})

	return s
}

// takeScroll returns the wheel delta accumulated since the previous frame.
func (s *WindowState) takeScroll() float64 {
	d := s.scrollDelta
	s.scrollDelta = 0
	return d
}

// takeResize reports a pending framebuffer resize at most once.
func (s *WindowState) takeResize() (int, int, bool) {
	if !s.pendingResize {
		return 0, 0, false
	}
	s.pendingResize = false
	s.WindowWidth = s.resizeWidth
	s.WindowHeight = s.resizeHeight
	return s.resizeWidth, s.resizeHeight, true
}

func (s *WindowState) Close() {
	s.windowGlfw.SetShouldClose(true)
}

func (s *WindowState) release() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is
// created and made available as a resource.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow creates a module that provides a shared WindowState resource.
// If Width/Height are zero, sensible defaults are used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 768
	}
	if title == "" {
		title = "galacto"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		// Already created by another module (or user code); no-op to preserve single-window invariant.
		return
	}

	cmd.AddResources(createWindowState(m.Width, m.Height, m.Title))
	app.UseSystem(System(windowSystem).InStage(PreUpdate))
}

// windowSystem pumps the event loop and stops the app once the window wants
// to close. It must run before inputSystem so the frame sees fresh events.
func windowSystem(s *WindowState, cmd *Commands) {
	glfw.PollEvents()
	if s.windowGlfw.ShouldClose() {
		cmd.Quit()
	}
}
