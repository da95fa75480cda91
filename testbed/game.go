package testbed

import (
	"github.com/spaghettifunk/ossa/engine"
	"github.com/spaghettifunk/ossa/engine/animation"
	"github.com/spaghettifunk/ossa/engine/core"
	"github.com/spaghettifunk/ossa/engine/math"
	"github.com/spaghettifunk/ossa/engine/skeleton"
)

// TestGame drives a small demo: a three-bone biped skeleton cycling
// through idle, walk and run with crossfades, ending in a one-shot
// death clip.
type TestGame struct {
	*engine.Game
}

type gameState struct {
	skeleton *skeleton.Skeleton
	animator *animation.Animator

	elapsed     float64
	metricTimer float64
	sequence    []scriptStep
	nextStep    int
}

type scriptStep struct {
	at   float64
	clip string
	fade bool
}

func NewTestGame() *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:                "Ossa Testbed",
				LogLevel:            "debug",
				AssetsDir:           "assets",
				TargetFrameSeconds:  1.0 / 60.0,
				DefaultFadeDuration: 0.4,
				PlaybackSpeed:       1.0,
			},
			State: &gameState{
				sequence: []scriptStep{
					{at: 0.0, clip: "Idle", fade: false},
					{at: 3.0, clip: "Walk", fade: true},
					{at: 6.0, clip: "Run", fade: true},
					{at: 9.0, clip: "Walk", fade: true},
					{at: 12.0, clip: "Death", fade: true},
				},
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")

	state := g.State.(*gameState)

	bones, err := skeleton.New([]skeleton.Bone{
		{Name: "root", ParentIndex: -1},
		{Name: "spine", ParentIndex: 0, Rest: animation.BoneTransform{
			Position: math.NewVec3(0, 1, 0),
			Rotation: math.NewQuatIdentity(),
			Scale:    math.NewVec3One(),
		}},
		{Name: "head", ParentIndex: 1, Rest: animation.BoneTransform{
			Position: math.NewVec3(0, 0.5, 0),
			Rotation: math.NewQuatIdentity(),
			Scale:    math.NewVec3One(),
		}},
	})
	if err != nil {
		return err
	}
	state.skeleton = bones

	// Pick up a hot-reloadable collection when the assets directory has
	// one, otherwise fall back to the built-in demo clips.
	collection, ok := g.AssetManager.Collection("biped")
	if !ok {
		core.LogInfo("no biped.anim asset found, synthesizing demo clips")
		collection, err = demoCollection()
		if err != nil {
			return err
		}
	}

	state.animator = animation.NewAnimator(&animation.AnimatorConfig{
		Collection:   collection,
		Consumer:     bones,
		Speed:        g.ApplicationConfig.PlaybackSpeed,
		FadeDuration: g.ApplicationConfig.DefaultFadeDuration,
		// The death clip should park the state machine so Update can
		// tell the script has finished.
		EndPolicy: animation.EndPolicyAutoStop,
	})

	core.EventRegister(core.EVENT_CODE_ANIMATION_FINISHED, onAnimationEvent("finished"))
	core.EventRegister(core.EVENT_CODE_ANIMATION_FADE_COMPLETED, onAnimationEvent("fade completed"))
	core.EventRegister(core.EVENT_CODE_ASSET_RELOADED, func(context core.EventContext) {
		name, _ := context.Data.(string)
		if name != "biped" {
			return
		}
		if reloaded, ok := g.AssetManager.Collection(name); ok {
			core.LogInfo("hot-swapping collection %q", name)
			state.animator.SetCollection(reloaded)
			state.nextStep = 0
			state.elapsed = 0
		}
	})

	return nil
}

func onAnimationEvent(what string) core.FnOnEvent {
	return func(context core.EventContext) {
		if payload, ok := context.Data.(*core.AnimationEvent); ok {
			core.LogInfo("animator %s: clip %q %s", payload.AnimatorID, payload.ClipName, what)
		}
	}
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime

	for state.nextStep < len(state.sequence) && state.elapsed >= state.sequence[state.nextStep].at {
		step := state.sequence[state.nextStep]
		state.animator.Play(step.clip, step.fade)
		state.nextStep++
	}

	state.animator.Update(float32(deltaTime))

	state.metricTimer += deltaTime
	if state.metricTimer >= 1.0 {
		state.metricTimer = 0
		fps, msavg := core.MetricsFrame()
		head, _ := state.skeleton.Find("head")
		world, _ := state.skeleton.WorldTransform(head)
		core.LogDebug("fps=%.0f avg=%.2fms clip=%s head=[%.2f, %.2f, %.2f]",
			fps, msavg, currentClipName(state.animator),
			world.Data[12], world.Data[13], world.Data[14])
	}

	// The script is done once the death clip finished; ask for shutdown.
	if state.nextStep >= len(state.sequence) && state.animator.State() == animation.PlayStateStopped {
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}

	return nil
}

func currentClipName(a *animation.Animator) string {
	if clip := a.CurrentClip(); clip != nil {
		return clip.Name
	}
	return "<none>"
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("testbed shutting down")
	return nil
}

// demoCollection synthesizes the demo clips so the testbed runs with
// no assets on disk.
func demoCollection() (*animation.Collection, error) {
	idle, err := bobClip("Idle", 2.0, 0.05, true)
	if err != nil {
		return nil, err
	}
	walk, err := strideClip("Walk", 1.0, 1.0, true)
	if err != nil {
		return nil, err
	}
	run, err := strideClip("Run", 0.6, 2.5, true)
	if err != nil {
		return nil, err
	}
	death, err := collapseClip("Death", 1.5)
	if err != nil {
		return nil, err
	}
	return animation.NewCollection("demo", []*animation.Clip{idle, walk, run, death}), nil
}

// bobClip moves the spine gently up and down in place.
func bobClip(name string, duration, amplitude float32, looping bool) (*animation.Clip, error) {
	spine, err := animation.NewChannel("spine", []animation.Keyframe{
		restKey(0, math.NewVec3(0, 1, 0)),
		restKey(duration/2, math.NewVec3(0, 1+amplitude, 0)),
		restKey(duration, math.NewVec3(0, 1, 0)),
	})
	if err != nil {
		return nil, err
	}
	return animation.NewClip(name, duration, []*animation.Channel{spine}, looping)
}

// strideClip slides the root forward over one stride and swings the head.
func strideClip(name string, duration, strideLength float32, looping bool) (*animation.Clip, error) {
	root, err := animation.NewChannel("root", []animation.Keyframe{
		restKey(0, math.NewVec3Zero()),
		restKey(duration, math.NewVec3(strideLength, 0, 0)),
	})
	if err != nil {
		return nil, err
	}
	sway := math.NewQuatFromAxisAngle(math.NewVec3(0, 0, 1), math.DegToRad(8), true)
	head, err := animation.NewChannel("head", []animation.Keyframe{
		{Time: 0, Position: math.NewVec3(0, 0.5, 0), Rotation: math.NewQuatIdentity(), Scale: math.NewVec3One()},
		{Time: duration / 2, Position: math.NewVec3(0, 0.5, 0), Rotation: sway, Scale: math.NewVec3One()},
		{Time: duration, Position: math.NewVec3(0, 0.5, 0), Rotation: math.NewQuatIdentity(), Scale: math.NewVec3One()},
	})
	if err != nil {
		return nil, err
	}
	return animation.NewClip(name, duration, []*animation.Channel{root, head}, looping)
}

// collapseClip is the one-shot death: the spine folds to the ground.
func collapseClip(name string, duration float32) (*animation.Clip, error) {
	fold := math.NewQuatFromAxisAngle(math.NewVec3(1, 0, 0), math.DegToRad(85), true)
	spine, err := animation.NewChannel("spine", []animation.Keyframe{
		{Time: 0, Position: math.NewVec3(0, 1, 0), Rotation: math.NewQuatIdentity(), Scale: math.NewVec3One()},
		{Time: duration, Position: math.NewVec3(0, 0.2, 0), Rotation: fold, Scale: math.NewVec3One()},
	})
	if err != nil {
		return nil, err
	}
	return animation.NewClip(name, duration, []*animation.Channel{spine}, false)
}

func restKey(time float32, position math.Vec3) animation.Keyframe {
	return animation.Keyframe{
		Time:     time,
		Position: position,
		Rotation: math.NewQuatIdentity(),
		Scale:    math.NewVec3One(),
	}
}
