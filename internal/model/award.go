package model

import "encoding/json"

// CriterionKind is the closed set of award rules the engine knows how to evaluate.
type CriterionKind int

const (
	// CriterionUnknown is any tag this build does not understand.
	CriterionUnknown CriterionKind = iota
	// CriterionItems counts every item.
	CriterionItems
	// CriterionComplete counts completed items.
	CriterionComplete
)

// Criterion is a tagged award rule. The raw tag is kept so unknown
// criteria round-trip through the catalog unchanged.
type Criterion struct {
	Kind CriterionKind
	Tag  string
}

// ParseCriterion maps a catalog tag to a Criterion. Tags match exactly;
// any other spelling is unknown. It never fails.
func ParseCriterion(tag string) Criterion {
	switch tag {
	case "items":
		return Criterion{Kind: CriterionItems, Tag: "items"}
	case "complete":
		return Criterion{Kind: CriterionComplete, Tag: "complete"}
	default:
		return Criterion{Kind: CriterionUnknown, Tag: tag}
	}
}

func (c Criterion) String() string { return c.Tag }

// MarshalJSON writes the raw tag.
func (c Criterion) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Tag)
}

// UnmarshalJSON reads a tag string.
func (c *Criterion) UnmarshalJSON(b []byte) error {
	var tag string
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}
	*c = ParseCriterion(tag)
	return nil
}

// UnmarshalYAML reads a tag string from a YAML scalar.
func (c *Criterion) UnmarshalYAML(unmarshal func(any) error) error {
	var tag string
	if err := unmarshal(&tag); err != nil {
		return err
	}
	*c = ParseCriterion(tag)
	return nil
}

// Award is a static achievement definition from the award catalog.
type Award struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Color       string    `json:"color" yaml:"color"`
	Image       string    `json:"image" yaml:"image"`
	Criterion   Criterion `json:"criterion" yaml:"criterion"`
	Value       int       `json:"value" yaml:"value"`
}

// ExampleAward is the first-item award, used as a selection placeholder.
func ExampleAward() Award {
	return Award{
		ID:          "First Steps",
		Name:        "First Steps",
		Description: "Add your first item.",
		Color:       "Light Blue",
		Image:       "pencil",
		Criterion:   ParseCriterion("items"),
		Value:       1,
	}
}
