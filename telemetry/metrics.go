package telemetry

import (
	"context"
	"fmt"

	"github.com/milk9111/skirmish/component"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/milk9111/skirmish/telemetry"

const (
	MetricDamage      = "skirmish.combat.damage"
	MetricHits        = "skirmish.combat.hits"
	MetricKills       = "skirmish.combat.kills"
	MetricPoints      = "skirmish.score.points"
	MetricLevelUps    = "skirmish.progression.level_ups"
	MetricTransitions = "skirmish.fsm.transitions"
)

// Metrics records simulation counters. A nil *Metrics records nothing.
type Metrics struct {
	damage      metric.Int64Counter
	hits        metric.Int64Counter
	kills       metric.Int64Counter
	points      metric.Int64Counter
	levelUps    metric.Int64Counter
	transitions metric.Int64Counter
}

// Global builds Metrics on the process-wide meter provider.
func Global() (*Metrics, error) {
	return New(otel.Meter(instrumentationName))
}

// Noop returns Metrics backed by a no-op meter.
func Noop() *Metrics {
	m, _ := New(noop.Meter{})
	return m
}

func New(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = noop.Meter{}
	}
	out := &Metrics{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&out.damage, MetricDamage, "Total damage dealt", "{hp}"},
		{&out.hits, MetricHits, "Resolved basic attacks", "{hit}"},
		{&out.kills, MetricKills, "Killing blows", "{kill}"},
		{&out.points, MetricPoints, "Points accepted by goal zones", "{point}"},
		{&out.levelUps, MetricLevelUps, "Level-ups reached", "{level}"},
		{&out.transitions, MetricTransitions, "State machine transitions", "{transition}"},
	}
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("telemetry: creating %s counter: %w", c.name, err)
		}
	}
	return out, nil
}

func (m *Metrics) RecordHit(evt component.CombatEvent) {
	if m == nil || evt.Attacker == nil {
		return
	}
	ctx := context.Background()
	team := attribute.String("team", evt.Attacker.Team.String())
	m.damage.Add(ctx, int64(evt.Damage), metric.WithAttributes(team))
	m.hits.Add(ctx, 1, metric.WithAttributes(
		team,
		attribute.Bool("crit", evt.Crit),
		attribute.Bool("empowered", evt.Empowered),
	))
	if evt.Killed {
		m.kills.Add(ctx, 1, metric.WithAttributes(team))
	}
}

func (m *Metrics) RecordScore(team component.Team, points int) {
	if m == nil || points <= 0 {
		return
	}
	m.points.Add(context.Background(), int64(points), metric.WithAttributes(attribute.String("team", team.String())))
}

func (m *Metrics) RecordLevelUp(team component.Team) {
	if m == nil {
		return
	}
	m.levelUps.Add(context.Background(), 1, metric.WithAttributes(attribute.String("team", team.String())))
}

func (m *Metrics) RecordTransition(kind, from, to string) {
	if m == nil {
		return
	}
	m.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
