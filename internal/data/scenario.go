package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vec3 is a YAML mapping {x: , y: , z: }.
type Vec3 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// EntityTemplate describes a group of identical entities to spawn. Nil
// fields mean the component is not attached.
type EntityTemplate struct {
	Name     string  `yaml:"name"`
	Count    int     `yaml:"count"` // defaults to 1
	Position *Vec3   `yaml:"position"`
	Velocity *Vec3   `yaml:"velocity"`
	Sprite   string  `yaml:"sprite"`   // texture name, empty for none
	Lifetime int     `yaml:"lifetime"` // ticks, 0 for unlimited
	Spread   float32 `yaml:"spread"`   // random +/- offset on each position axis
}

type scenarioFile struct {
	Entities []EntityTemplate `yaml:"entities"`
}

// Scenario is the ordered list of templates spawned at startup.
type Scenario struct {
	templates []EntityTemplate
}

// LoadScenario loads a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario parses scenario YAML.
func ParseScenario(raw []byte) (*Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i := range f.Entities {
		t := &f.Entities[i]
		if t.Count == 0 {
			t.Count = 1
		}
		if t.Count < 0 {
			return nil, fmt.Errorf("scenario entry %d (%s): negative count %d", i, t.Name, t.Count)
		}
		if t.Lifetime < 0 {
			return nil, fmt.Errorf("scenario entry %d (%s): negative lifetime %d", i, t.Name, t.Lifetime)
		}
		if t.Spread < 0 {
			return nil, fmt.Errorf("scenario entry %d (%s): negative spread %g", i, t.Name, t.Spread)
		}
	}
	return &Scenario{templates: f.Entities}, nil
}

// Templates returns the templates in file order.
func (s *Scenario) Templates() []EntityTemplate {
	return s.templates
}

// Count returns the total number of entities the scenario spawns.
func (s *Scenario) Count() int {
	n := 0
	for _, t := range s.templates {
		n += t.Count
	}
	return n
}
