package galacto

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyR int = iota
	KeySpace
	KeyEscape
	KeyShift
	MouseButtonLeft
	MouseButtonRight

	inputCodeCount
)

type InputModule struct{}

// Input is the polled state of keyboard and mouse for the current frame.
// Wheel movement and cursor deltas are drained once per frame; nothing is
// buffered beyond it.
type Input struct {
	Pressed      [inputCodeCount]bool
	JustPressed  [inputCodeCount]bool
	JustReleased [inputCodeCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	WheelDelta               float64

	WindowWidth, WindowHeight int

	hasCursor bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(System(inputSystem).InStage(PreUpdate))
}

// inputSystem runs after windowSystem has pumped events.
func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)
		input.update(key, glfw.Press == action)
	}

	for btn, glfwBtn := range buttonToGlfw {
		action := s.windowGlfw.GetMouseButton(glfwBtn)
		input.update(btn, glfw.Press == action)
	}

	mx, my := s.windowGlfw.GetCursorPos()
	if input.hasCursor {
		input.MouseDeltaX = mx - input.MouseX
		input.MouseDeltaY = my - input.MouseY
	}
	input.MouseX = mx
	input.MouseY = my
	input.hasCursor = true

	input.WheelDelta = s.takeScroll()
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()
}

func (input *Input) update(code int, down bool) {
	input.JustPressed[code] = false
	input.JustReleased[code] = false

	if down {
		if !input.Pressed[code] {
			input.JustPressed[code] = true
		}
		input.Pressed[code] = true
	} else {
		if input.Pressed[code] {
			input.JustReleased[code] = true
		}
		input.Pressed[code] = false
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyR:      glfw.KeyR,
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyShift:  glfw.KeyLeftShift,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}
