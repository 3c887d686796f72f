// Package replay drives a scripted play session against the simulated engine:
// it builds the world objects, then enters levels and raises engine calls in
// order, collecting every drop that materialized.
package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/lootrandomizer/internal/engine"
	"github.com/udisondev/lootrandomizer/internal/engine/sim"
	"github.com/udisondev/lootrandomizer/internal/loot"
)

var (
	ErrUnknownObject = errors.New("unknown object")
	ErrBadStep       = errors.New("step must set exactly one of enter, exit, fire")
)

// ObjectSpec describes one world object. Refs and Lists name objects
// declared earlier in the script.
type ObjectSpec struct {
	Class string              `yaml:"class"`
	Path  string              `yaml:"path"`
	Pawn  bool                `yaml:"pawn"`
	Ints  map[string]int      `yaml:"ints"`
	Refs  map[string]string   `yaml:"refs"`
	Lists map[string][]string `yaml:"lists"`
	Pools map[string][]string `yaml:"pools"` // field → pool definition paths, certain drops
}

// Fire raises an engine function with hooks.
type Fire struct {
	Function string            `yaml:"function"`
	Caller   string            `yaml:"caller"`
	Params   map[string]string `yaml:"params"` // param → object path
}

// Step is one scripted event.
type Step struct {
	Enter string `yaml:"enter"`
	Exit  string `yaml:"exit"`
	Fire  *Fire  `yaml:"fire"`
}

// Script is a replay document.
type Script struct {
	Objects []ObjectSpec `yaml:"objects"`
	Steps   []Step       `yaml:"steps"`
}

// Load reads a script from path.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("reading replay %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("replay %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and checks a script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing replay: %w", err)
	}
	for i, st := range s.Steps {
		n := 0
		if st.Enter != "" {
			n++
		}
		if st.Exit != "" {
			n++
		}
		if st.Fire != nil {
			n++
		}
		if n != 1 {
			return s, fmt.Errorf("step %d: %w", i, ErrBadStep)
		}
	}
	return s, nil
}

// Populate creates the script's objects in eng, in declaration order.
func (s Script) Populate(eng *sim.Engine) error {
	for _, spec := range s.Objects {
		fields := make(map[string]any, len(spec.Ints)+len(spec.Refs)+len(spec.Lists)+len(spec.Pools))
		for k, v := range spec.Ints {
			fields[k] = v
		}
		for k, path := range spec.Refs {
			o := eng.FindObject("", path)
			if o == nil {
				return fmt.Errorf("object %s field %s: %s: %w", spec.Path, k, path, ErrUnknownObject)
			}
			fields[k] = o
		}
		for k, paths := range spec.Lists {
			list := make([]engine.Object, 0, len(paths))
			for _, path := range paths {
				o := eng.FindObject("", path)
				if o == nil {
					return fmt.Errorf("object %s field %s: %s: %w", spec.Path, k, path, ErrUnknownObject)
				}
				list = append(list, o)
			}
			fields[k] = list
		}
		for k, paths := range spec.Pools {
			entries := make([]engine.PoolEntry, 0, len(paths))
			for _, path := range paths {
				def := eng.FindObject(engine.ClassItemPoolDefinition, path)
				if def == nil {
					return fmt.Errorf("object %s field %s: %s: %w", spec.Path, k, path, ErrUnknownObject)
				}
				entries = append(entries, engine.PoolEntry{Pool: def, Probability: 1})
			}
			fields[k] = entries
		}

		if spec.Pawn {
			eng.AddPawn(spec.Class, spec.Path, fields)
		} else {
			eng.AddObject(spec.Class, spec.Path, fields)
		}
	}
	slog.Debug("replay world populated", "objects", len(s.Objects))
	return nil
}

// Report summarizes a replay.
type Report struct {
	Steps int
	Drops []sim.Drop
}

// Run executes the steps against mgr and eng. The level still loaded at
// the end is left loaded.
func (s Script) Run(ctx context.Context, eng *sim.Engine, mgr *loot.SessionManager) (Report, error) {
	eng.ResetDrops()

	var rep Report
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		switch {
		case st.Enter != "":
			mgr.NotifyLevelEntered(st.Enter)
		case st.Exit != "":
			mgr.NotifyLevelExited(st.Exit)
			eng.ClearWorld()
		case st.Fire != nil:
			if err := fire(eng, st.Fire); err != nil {
				return rep, fmt.Errorf("step %d: %w", i, err)
			}
		}
		rep.Steps++
	}

	rep.Drops = eng.Drops()
	return rep, nil
}

func fire(eng *sim.Engine, f *Fire) error {
	caller := eng.FindObject("", f.Caller)
	if caller == nil {
		return fmt.Errorf("fire %s caller %s: %w", f.Function, f.Caller, ErrUnknownObject)
	}

	params := make(engine.Params, len(f.Params))
	for k, path := range f.Params {
		o := eng.FindObject("", path)
		if o == nil {
			return fmt.Errorf("fire %s param %s: %s: %w", f.Function, k, path, ErrUnknownObject)
		}
		params[k] = o
	}

	if err := eng.Dispatch(f.Function, caller, params); err != nil {
		return fmt.Errorf("fire %s: %w", f.Function, err)
	}
	return nil
}
