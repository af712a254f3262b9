package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/experiment"
)

// Setters maps sweepable parameter names to the config field they set.
var Setters = map[string]func(*config.Config, float64){
	"tau":     func(c *config.Config, v float64) { c.TauMultiplier = v },
	"speed":   func(c *config.Config, v float64) { c.Lattice.InitialSpeedScale = v },
	"spacing": func(c *config.Config, v float64) { c.Lattice.Spacing = v },
	"padding": func(c *config.Config, v float64) { c.Lattice.Padding = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Setters))
	for k := range Setters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Trial is one grid point. Err is set when the run diverged or the
// parameters did not validate; Value is then +Inf.
type Trial struct {
	Params     map[string]float64
	Value      float64
	Iterations int
	Err        error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := Setters[p]; !ok {
			return nil, fmt.Errorf("unknown sweep parameter: %s (available: %v)", p, ParamNames())
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Apply returns a copy of base with params set.
func Apply(base *config.Config, params map[string]float64) *config.Config {
	cfg := *base
	for name, v := range params {
		if set, ok := Setters[name]; ok {
			set(&cfg, v)
		}
	}
	return &cfg
}

// Search runs every grid point built from base and returns the trial that
// minimizes metricName, along with all trials in grid order. Diverged runs
// never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*Trial, []Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &trials); err != nil {
		return nil, trials, err
	}

	var best *Trial
	for i := range trials {
		t := &trials[i]
		if t.Err != nil {
			continue
		}
		if best == nil || t.Value < best.Value {
			best = t
		}
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		*trials = append(*trials, runTrial(ctx, base, current, metricName))
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

func runTrial(ctx context.Context, base *config.Config, params map[string]float64, metricName string) Trial {
	trial := Trial{Params: params, Value: math.Inf(1)}

	exp, err := experiment.New(Apply(base, params))
	if err != nil {
		trial.Err = err
		return trial
	}

	result, err := exp.Run(ctx)
	trial.Iterations = result.Iterations
	if err != nil {
		trial.Err = err
		return trial
	}

	v, ok := result.Metrics[metricName]
	if !ok {
		trial.Err = fmt.Errorf("unknown metric: %s", metricName)
		return trial
	}
	trial.Value = v
	return trial
}
