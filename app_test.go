package galacto

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := &MockResource1{name: "Resource1"}
	app.addResources(resource1)

	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Adding the same type twice is a wiring bug and must panic.
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := &MockResource2{name: "Resource2"}
	app.addResources(resource2)

	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestApp_ResourceOf(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	installed := &MockResource1{name: "installed"}
	app.addResources(installed)

	got := ResourceOf[MockResource1](app)
	if got != installed {
		t.Errorf("ResourceOf returned %p, want the installed %p", got, installed)
	}

	require.Panics(t, func() {
		ResourceOf[MockResource2](app)
	}, "requesting a resource before its provider is installed must panic")
}

func TestApp_callSystem(t *testing.T) {
	app := NewAppBuilder().Build()
	resource := &MockResource1{name: "dep"}
	app.addResources(resource)

	var gotResource *MockResource1
	var gotCommands *Commands
	app.callSystem(func(cmd *Commands, r *MockResource1) {
		gotCommands = cmd
		gotResource = r
	})

	if gotResource != resource {
		t.Errorf("system received %p, want the installed resource %p", gotResource, resource)
	}
	if gotCommands == nil || gotCommands.app != app {
		t.Error("system received a Commands not bound to the app")
	}
}

func TestApp_callSystemUnresolvedDependency(t *testing.T) {
	app := NewAppBuilder().Build()

	require.Panics(t, func() {
		app.callSystem(func(r *MockResource2) {})
	})
}

func TestApp_RunStopsOnQuit(t *testing.T) {
	app := NewAppBuilder().Build()

	frames := 0
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 3 {
			cmd.Quit()
		}
	}).InStage(Update))

	app.Run()

	assert.Equal(t, 3, frames)
}

type countingReleaser struct {
	released int
}

func (r *countingReleaser) release() { r.released++ }

func TestApp_RunReleasesResourcesOnShutdown(t *testing.T) {
	app := NewAppBuilder().Build()
	res := &countingReleaser{}
	app.addResources(res)

	app.UseSystem(System(func(cmd *Commands) {
		cmd.Quit()
	}).InStage(Update))

	app.Run()

	assert.Equal(t, 1, res.released)
}

func TestApp_StageOrdering(t *testing.T) {
	app := NewAppBuilder().Build()

	var order []string
	record := func(name string) systemFn {
		return func(cmd *Commands) {
			order = append(order, name)
			if name == "render" {
				cmd.Quit()
			}
		}
	}

	// Registered out of order on purpose; stages decide execution order.
	app.UseSystem(System(record("render")).InStage(Render))
	app.UseSystem(System(record("pre-update")).InStage(PreUpdate))
	app.UseSystem(System(record("pre-render")).InStage(PreRender))
	app.UseSystem(System(record("update")).InStage(Update))

	app.Run()

	assert.Equal(t, []string{"pre-update", "update", "pre-render", "render"}, order)
}

func TestApp_UseSystemUnknownStage(t *testing.T) {
	app := NewAppBuilder().Build()

	require.Panics(t, func() {
		app.UseSystem(System(func(cmd *Commands) {}).InStage(Stage{Name: "bogus"}))
	})
}
