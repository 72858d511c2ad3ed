package galacto

// Stages run in a fixed order once per displayed frame. Input is drained in
// PreUpdate, simulation state advances in Update, and PreRender/Render issue
// the GPU command stream for the frame.
type Stage struct {
	Name string
}

var (
	PreUpdate = Stage{Name: "PreUpdate"}
	Update    = Stage{Name: "Update"}
	PreRender = Stage{Name: "PreRender"}
	Render    = Stage{Name: "Render"}
)

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}
