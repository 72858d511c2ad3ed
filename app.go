package galacto

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App owns the shared resource table and the staged frame loop. Systems are
// plain functions; their pointer parameters are resolved against the resource
// table on every call, so modules stay decoupled from each other.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	running   bool
}

// releaser lets GPU-backed resources free device objects on shutdown.
type releaser interface {
	release()
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// Run executes the frame loop until a system calls Commands.Quit (window
// close, Escape). One loop iteration is one displayed frame.
func (app *App) Run() {
	app.running = true
	for app.running {
		for _, stage := range app.stages {
			for _, system := range app.systems[stage.Name] {
				app.callSystem(system)
			}
		}
	}
	app.shutdown()
}

func (app *App) quit() {
	app.running = false
}

func (app *App) shutdown() {
	for _, resource := range app.resources {
		if r, ok := resource.(releaser); ok {
			r.release()
		}
	}
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	systems, ok := app.systems[system.inStage.Name]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	app.systems[system.inStage.Name] = append(systems, system.system)
	return app
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// ResourceOf returns the installed resource of type T, panicking if a module
// requests it before its provider has been installed.
func ResourceOf[T any](app *App) *T {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if resource, ok := app.resources[t]; ok {
		return resource.(*T)
	}
	panic(fmt.Sprintf("resource %s is not installed", t))
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
