package system

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-json"
	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
)

// EntityDump is the JSON form of one live entity. Absent components are omitted.
type EntityDump struct {
	ID         uint32      `json:"id"`
	Generation uint32      `json:"gen"`
	Position   *[3]float32 `json:"position,omitempty"`
	Velocity   *[3]float32 `json:"velocity,omitempty"`
	Sprite     string      `json:"sprite,omitempty"`
	Lifetime   *int        `json:"lifetime,omitempty"`
}

// WorldDump is a point-in-time view of the world, written at shutdown.
type WorldDump struct {
	Run        string       `json:"run"`
	Tick       uint64       `json:"tick"`
	Live       int          `json:"live"`
	Archetypes int          `json:"archetypes"`
	Entities   []EntityDump `json:"entities"`
}

// DumpWorld collects every live entity, ordered by id.
func DumpWorld(w *ecs.World, run string, tick uint64) WorldDump {
	live := w.Entities()
	slices.SortFunc(live, func(a, b ecs.Entity) int { return cmp.Compare(a.ID, b.ID) })

	d := WorldDump{
		Run:        run,
		Tick:       tick,
		Live:       w.Len(),
		Archetypes: w.ArchetypeCount(),
		Entities:   make([]EntityDump, 0, len(live)),
	}
	for _, e := range live {
		ed := EntityDump{ID: e.ID, Generation: e.Generation}
		if p, err := ecs.Read[component.Position](w, e); err == nil {
			ed.Position = &[3]float32{p.X, p.Y, p.Z}
		}
		if v, err := ecs.Read[component.Velocity](w, e); err == nil {
			ed.Velocity = &[3]float32{v.X, v.Y, v.Z}
		}
		if s, err := ecs.Read[component.Sprite](w, e); err == nil {
			ed.Sprite = s.TextureName
		}
		if l, err := ecs.Read[component.Lifetime](w, e); err == nil {
			ed.Lifetime = &l.Ticks
		}
		d.Entities = append(d.Entities, ed)
	}
	return d
}

// WriteDump writes d as indented JSON to path.
func WriteDump(path string, d WorldDump) error {
	bz, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode world dump: %w", err)
	}
	if err := os.WriteFile(path, bz, 0o644); err != nil {
		return fmt.Errorf("write world dump %s: %w", path, err)
	}
	return nil
}
