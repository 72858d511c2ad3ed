package galacto

import "testing"

type MockModule struct {
	installed bool
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, cmd *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	if len(builder.modules) != 1 {
		t.Errorf("Expected modules to contain 1 module, got %v", len(builder.modules))
	}
	if mockModule.installed {
		t.Error("UseModule must not install; only Build does")
	}
}

func TestAppBuilder_BuildInstallsInOrder(t *testing.T) {
	var order []string
	first := &MockModule{order: &order, name: "first"}
	second := &MockModule{order: &order, name: "second"}

	NewAppBuilder().
		UseModule(first).
		UseModule(second).
		Build()

	if !first.installed || !second.installed {
		t.Fatal("Build should install every registered module")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Modules installed out of registration order: %v", order)
	}
}

func TestAppBuilder_StagesRegistered(t *testing.T) {
	app := NewAppBuilder().Build()

	for _, stage := range []Stage{PreUpdate, Update, PreRender, Render} {
		if _, ok := app.systems[stage.Name]; !ok {
			t.Errorf("Stage %s not registered", stage.Name)
		}
	}
}
