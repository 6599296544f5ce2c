package catalog

import (
	"reservas-service/internal/models"
	"reservas-service/pkg/response"
	"fmt"
)

type FieldKind string

const (
	FieldString FieldKind = "string"
	FieldBool   FieldKind = "bool"
	FieldList   FieldKind = "list"
)

// FieldSpec names an optional attribute a client should collect for a
// resource type. Advisory only: the engine stores the attribute bag
// verbatim and never validates its content.
type FieldSpec struct {
	Name string
	Kind FieldKind
}

// Catalog is the source of truth for which (type, instance) pairs exist.
// Loaded once at start and read-only afterwards.
type Catalog struct {
	instances  map[models.ResourceType][]string
	attributes map[models.ResourceType][]FieldSpec
}

// Default describes the school's bookable resources: four named stations in
// the computer lab, one instance of everything else.
func Default() *Catalog {
	return &Catalog{
		instances: map[models.ResourceType][]string{
			models.StationPool: {"Station 1", "Station 2", "Station 3", "Station 4"},
			models.ScienceLab:  {"SCIENCE_LAB"},
			models.MakerLab:    {"MAKER_LAB"},
			models.Kitchen:     {"KITCHEN"},
			models.LibraryRoom: {"LIBRARY_ROOM"},
			models.Auditorium:  {"AUDITORIUM"},
		},
		attributes: map[models.ResourceType][]FieldSpec{
			models.StationPool: {
				{Name: "software", Kind: FieldString},
			},
			models.ScienceLab: {
				{Name: "experiment", Kind: FieldString},
				{Name: "materials", Kind: FieldList},
			},
			models.MakerLab: {
				{Name: "project_name", Kind: FieldString},
				{Name: "equipment", Kind: FieldList},
			},
			models.Kitchen: {
				{Name: "recipe", Kind: FieldString},
				{Name: "ingredients", Kind: FieldList},
			},
			models.LibraryRoom: {
				{Name: "activity", Kind: FieldString},
			},
			models.Auditorium: {
				{Name: "event_title", Kind: FieldString},
				{Name: "event_type", Kind: FieldString},
				{Name: "needs_sound", Kind: FieldBool},
				{Name: "needs_projection", Kind: FieldBool},
			},
		},
	}
}

func (c *Catalog) Instances(rt models.ResourceType) ([]string, error) {
	const op = "catalog.Instances"

	instances, ok := c.instances[rt]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, rt, response.ErrUnknownResource)
	}

	out := make([]string, len(instances))
	copy(out, instances)
	return out, nil
}

func (c *Catalog) Attributes(rt models.ResourceType) ([]FieldSpec, error) {
	const op = "catalog.Attributes"

	specs, ok := c.attributes[rt]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, rt, response.ErrUnknownResource)
	}

	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out, nil
}

// HasInstance reports whether the instance id is a bookable unit of the
// given type. Unknown types report false.
func (c *Catalog) HasInstance(rt models.ResourceType, instanceID string) bool {
	for _, id := range c.instances[rt] {
		if id == instanceID {
			return true
		}
	}
	return false
}
