package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/arena"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/config"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/system"
	"github.com/milk9111/skirmish/telemetry"
	"github.com/rs/zerolog"
)

const (
	defaultGoalRadius = 2.0
	targetingRange    = 20.0
)

type enemyEntry struct {
	prefab string
	script string
	ctrl   *system.EnemyController
}

// Game wires a scenario into an arena and drives it headless.
type Game struct {
	cfg     *config.Config
	log     zerolog.Logger
	metrics *telemetry.Metrics

	world       *arena.World
	sim         *system.Simulation
	resolver    *component.CombatResolver
	scores      *component.Scoreboard
	projectiles *system.Projectiles
	input       *system.ScriptedInput

	playerPrefab string
	player       *system.PlayerController
	enemies      []*enemyEntry
	zones        []*component.GoalZone

	stamps map[string]time.Time
}

func NewGame(cfg *config.Config, log zerolog.Logger, metrics *telemetry.Metrics) (*Game, error) {
	scenario, err := prefabs.LoadScenarioSpec(cfg.Sim.Scenario)
	if err != nil {
		return nil, fmt.Errorf("game: load scenario %s: %w", cfg.Sim.Scenario, err)
	}

	if metrics == nil {
		metrics = telemetry.Noop()
	}
	g := &Game{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		world:   arena.NewWorld(log),
		scores:  component.NewScoreboard(),
		stamps:  make(map[string]time.Time),
	}
	g.resolver = component.NewCombatResolver(rand.New(rand.NewSource(cfg.Sim.Seed)))
	g.resolver.Emitter.Handlers = append(g.resolver.Emitter.Handlers, metrics.RecordHit)
	g.scores.OnScore = func(team component.Team, points, total int) {
		g.log.Info().Str("team", team.String()).Int("points", points).Int("total", total).Msg("team scored")
	}

	g.sim = system.NewSimulation(cfg.Sim.PhysicsInterval(), cfg.Sim.MaxSubsteps, log)
	g.sim.SetPhysics(g.world)
	g.sim.OnRemove = func(a system.Actor) {
		g.world.Remove(a.Character())
	}

	for _, spawn := range scenario.Goals {
		if err := g.spawnGoal(spawn); err != nil {
			return nil, err
		}
	}
	for _, r := range scenario.Rocks {
		g.world.AddRock(cp.Vector{X: r.X, Y: r.Z}, r.Radius)
	}
	for _, r := range scenario.Grass {
		g.world.AddGrass(cp.Vector{X: r.X, Y: r.Z}, r.Radius)
	}
	for _, c := range scenario.Coins {
		g.world.AddCoin(cp.Vector{X: c.X, Y: c.Z}, c.Value)
	}
	if err := g.spawnPlayer(scenario.Player, scenario.Inputs); err != nil {
		return nil, err
	}
	for _, spawn := range scenario.Enemies {
		if err := g.spawnEnemy(spawn); err != nil {
			return nil, err
		}
	}

	g.log.Info().Str("scenario", scenario.Name).Int("enemies", len(g.enemies)).
		Int("goals", len(g.zones)).Msg("arena ready")
	return g, nil
}

func teamOr(override *component.Team, fallback component.Team) component.Team {
	if override != nil {
		return *override
	}
	return fallback
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func (g *Game) spawnGoal(spawn prefabs.SpawnSpec) error {
	spec, err := prefabs.LoadGoalSpec(spawn.Prefab)
	if err != nil {
		return fmt.Errorf("game: goal %s: %w", spawn.Name, err)
	}
	capacity := spec.Capacity
	if capacity <= 0 {
		capacity = component.DefaultGoalCapacity
	}
	zone := component.NewGoalZone(nameOr(spawn.Name, spec.Name), teamOr(spawn.Team, spec.Team), capacity)
	if spec.TimePerPoint > 0 {
		zone.TimePerPoint = spec.TimePerPoint
	}
	if spec.HealPerSecond > 0 {
		zone.HealPerSec = spec.HealPerSecond
	}
	radius := spec.Radius
	if radius <= 0 {
		radius = defaultGoalRadius
	}
	g.world.AddGoal(zone, cp.Vector{X: spawn.X, Y: spawn.Z}, radius)
	g.sim.AddZone(zone)
	g.zones = append(g.zones, zone)
	return nil
}

func (g *Game) spawnPlayer(spawn prefabs.SpawnSpec, inputs []prefabs.InputEventSpec) error {
	spec, err := prefabs.LoadPlayerSpec(spawn.Prefab)
	if err != nil {
		return fmt.Errorf("game: player %s: %w", spawn.Name, err)
	}
	char := system.CharacterFromSpec(nameOr(spawn.Name, spec.Name), teamOr(spawn.Team, spec.Team), spec.Stats, spec.Growth)
	body := g.world.AddBody(char, cp.Vector{X: spawn.X, Y: spawn.Z}, spec.Radius)

	g.projectiles = system.NewProjectiles(system.ProjectileTuningFromSpec(spec.Projectile), g.world, g.resolver, g.log)
	g.sim.SetProjectiles(g.projectiles)

	deps := system.PlayerDeps{
		Motion:    body,
		Area:      g.world,
		Targeting: g.world.Targeter(char, targetingRange),
		Feedback:  body.Appearance(),
		Scores:    g.scores,
		Resolver:  g.resolver,
		Metrics:   g.metrics,
		Log:       g.log,
	}
	if spec.Projectile != nil {
		deps.Launcher = g.projectiles
	}
	g.player = system.NewPlayerController(char, system.PlayerTuningFromSpec(spec), deps)
	g.player.SetCoins(spawn.Coins)
	body.Listen(g.player)
	body.Collect(g.player)
	g.playerPrefab = spawn.Prefab

	g.input = system.NewScriptedInput(inputs)
	g.sim.AddActor(g.player)
	g.sim.BindInput(g.input, g.player)
	return nil
}

func (g *Game) spawnEnemy(spawn prefabs.SpawnSpec) error {
	spec, err := prefabs.LoadEnemySpec(spawn.Prefab)
	if err != nil {
		return fmt.Errorf("game: enemy %s: %w", spawn.Name, err)
	}
	char := system.CharacterFromSpec(nameOr(spawn.Name, spec.Name), teamOr(spawn.Team, spec.Team), spec.Stats, spec.Growth)
	body := g.world.AddBody(char, cp.Vector{X: spawn.X, Y: spawn.Z}, spec.Radius)

	ctrl := system.NewEnemyController(char, system.EnemyTuningFromSpec(spec), system.EnemyDeps{
		Nav:      body,
		Area:     g.world,
		Feedback: body.Appearance(),
		Loot:     g.world,
		Resolver: g.resolver,
		Chase:    g.loadChase(spec.ChaseScript),
		Metrics:  g.metrics,
		Log:      g.log,
	})
	if g.player != nil && char.Team != component.TeamNeutral && char.Team.Opposes(g.player.Character().Team) {
		ctrl.SetTarget(g.player.Character())
	}
	g.enemies = append(g.enemies, &enemyEntry{prefab: spawn.Prefab, script: spec.ChaseScript, ctrl: ctrl})
	g.sim.AddActor(ctrl)
	return nil
}

// loadChase compiles a chase script, falling back to the built-in rule.
func (g *Game) loadChase(script string) system.ChaseRule {
	if script == "" {
		return system.DefaultChase{}
	}
	rule, err := system.LoadScriptedChase(script, g.log)
	if err != nil {
		g.log.Warn().Err(err).Str("script", script).Msg("using default chase rule")
		return system.DefaultChase{}
	}
	return rule
}

// Update advances the arena by one tick.
func (g *Game) Update(dt float64) {
	g.sim.Advance(dt)
}

// Run plays the scenario for the configured duration. With a watcher the
// run follows the wall clock and applies prefab edits between ticks.
func (g *Game) Run(ctx context.Context, watcher *prefabs.Watcher) error {
	between := func() {}
	if watcher != nil {
		between = func() { g.drainWatcher(watcher) }
	}
	return g.sim.Run(ctx, g.cfg.Sim.TickInterval(), g.cfg.Sim.Duration.Seconds(), watcher != nil, between)
}

func (g *Game) drainWatcher(w *prefabs.Watcher) {
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			g.Reload(name)
		case err, ok := <-w.Errors:
			if ok && err != nil {
				g.log.Warn().Err(err).Msg("prefab watcher")
			}
			return
		default:
			return
		}
	}
}

// Reload re-reads an edited prefab or script and retunes the entities that
// use it. A file whose modification time has not moved since the last reload
// is skipped; it reports whether anything was reloaded.
func (g *Game) Reload(name string) bool {
	log := g.log.With().Str("prefab", name).Logger()
	if mod, ok := prefabs.ModTime(name); ok {
		if prev, seen := g.stamps[name]; seen && prev.Equal(mod) {
			log.Debug().Msg("prefab unchanged")
			return false
		}
		g.stamps[name] = mod
	}
	if strings.HasPrefix(name, "scripts/") {
		script := strings.TrimPrefix(name, "scripts/")
		for _, e := range g.enemies {
			if e.script == script {
				e.ctrl.SetChase(g.loadChase(script))
			}
		}
		log.Info().Msg("chase script reloaded")
		return true
	}

	reloaded := false
	if name == g.playerPrefab {
		spec, err := prefabs.LoadPlayerSpec(name)
		if err != nil {
			log.Warn().Err(err).Msg("reload failed")
			return false
		}
		g.player.SetTuning(system.PlayerTuningFromSpec(spec))
		log.Info().Msg("player tuning reloaded")
		reloaded = true
	}
	for _, e := range g.enemies {
		if e.prefab != name {
			continue
		}
		spec, err := prefabs.LoadEnemySpec(name)
		if err != nil {
			log.Warn().Err(err).Msg("reload failed")
			return false
		}
		e.ctrl.SetTuning(system.EnemyTuningFromSpec(spec))
		log.Info().Str("entity", e.ctrl.Character().Name).Msg("enemy tuning reloaded")
		reloaded = true
	}
	return reloaded
}

// Summary logs the end-of-run state.
func (g *Game) Summary(totals map[string]int64) {
	for _, team := range []component.Team{component.TeamHome, component.TeamAway} {
		g.log.Info().Str("team", team.String()).Int("score", g.scores.Total(team)).Msg("final score")
	}

	p := g.player.Character()
	look := ""
	if body := g.world.BodyOf(p); body != nil {
		look = body.Appearance().ColorName()
	}
	g.log.Info().Str("entity", p.Name).Str("state", g.player.State()).Int("level", p.Level).
		Int("xp", p.XP).Int("health", p.Health).Int("coins", g.player.Coins()).
		Str("color", look).Msg("player summary")

	for _, e := range g.enemies {
		c := e.ctrl.Character()
		g.log.Info().Str("entity", c.Name).Str("state", e.ctrl.State()).Bool("alive", c.IsAlive()).
			Bool("despawned", e.ctrl.Done()).Int("level", c.Level).Int("health", c.Health).Msg("enemy summary")
	}
	for _, z := range g.zones {
		g.log.Info().Str("goal", z.Name).Str("team", z.Team.String()).Int("capacity", z.Capacity).
			Bool("broken", z.Broken()).Msg("goal summary")
	}

	ev := g.log.Info().Int("ticks", g.sim.Ticks()).Int("physics_steps", g.sim.PhysicsSteps()).
		Int("coins_on_field", len(g.world.Coins()))
	for name, v := range totals {
		ev = ev.Int64(name, v)
	}
	ev.Msg("run complete")
}
