/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlProperty struct {
	Type       string `yaml:"type"`
	Shape      string `yaml:"shape"`
	Nullable   bool   `yaml:"nullable"`
	PrimaryKey bool   `yaml:"primaryKey"`
	Target     string `yaml:"target"`
	Origin     string `yaml:"origin"`
}

type yamlClass struct {
	Properties yaml.Node `yaml:"properties"`
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

var shapesByName = map[string]Shape{
	"":           ShapeNone,
	"single":     ShapeNone,
	"list":       ShapeList,
	"set":        ShapeSet,
	"dictionary": ShapeDictionary,
}

// LoadYAML compiles a declarative YAML schema document into a Registry.
// Class and property keys are assigned in declaration order, so a given
// document always compiles to the same stable keys.
func LoadYAML(data []byte) (*Registry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schema: failed to parse document: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, fmt.Errorf("schema: empty document")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: document root must be a mapping of class names")
	}

	reg := NewRegistry()
	classKey := int64(1)
	for i := 0; i < len(doc.Content); i += 2 {
		nameNode, bodyNode := doc.Content[i], doc.Content[i+1]
		className := nameNode.Value

		var body yamlClass
		if err := bodyNode.Decode(&body); err != nil {
			return nil, fmt.Errorf("schema: class %q: %w", className, err)
		}
		if body.Properties.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("schema: class %q declares no properties", className)
		}

		props := make([]*Property, 0, len(body.Properties.Content)/2)
		propKey := int64(1)
		for j := 0; j < len(body.Properties.Content); j += 2 {
			propName := body.Properties.Content[j].Value
			var yp yamlProperty
			if err := body.Properties.Content[j+1].Decode(&yp); err != nil {
				return nil, fmt.Errorf("schema: property %s.%s: %w", className, propName, err)
			}
			prop, err := compileProperty(className, propName, propKey, yp)
			if err != nil {
				return nil, err
			}
			props = append(props, prop)
			propKey++
		}

		class, err := NewClass(classKey, className, props)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(class); err != nil {
			return nil, err
		}
		classKey++
	}

	if err := checkLinkTargets(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func compileProperty(className, propName string, key int64, yp yamlProperty) (*Property, error) {
	kind, ok := kindsByName[yp.Type]
	if !ok {
		return nil, fmt.Errorf("schema: property %s.%s has unknown type %q", className, propName, yp.Type)
	}
	shape, ok := shapesByName[yp.Shape]
	if !ok {
		return nil, fmt.Errorf("schema: property %s.%s has unknown shape %q", className, propName, yp.Shape)
	}
	if kind.IsLink() && yp.Target == "" {
		return nil, fmt.Errorf("schema: property %s.%s requires a target class", className, propName)
	}
	if kind == KindBacklink && (yp.Target == "" || yp.Origin == "") {
		return nil, fmt.Errorf("schema: backlink property %s.%s requires target and origin", className, propName)
	}
	return &Property{
		Key:  key,
		Name: propName,
		Kind: kind,
		// Single regular links are always nullable: a row may reference
		// nothing.
		Nullable:    yp.Nullable || (kind.IsLink() && shape == ShapeNone),
		Shape:       shape,
		PrimaryKey:  yp.PrimaryKey,
		Computed:    kind == KindBacklink,
		UserDefined: true,
		Target:      yp.Target,
		Origin:      yp.Origin,
	}, nil
}

func checkLinkTargets(reg *Registry) error {
	for _, class := range reg.Classes() {
		for _, prop := range class.Properties() {
			if prop.Target == "" {
				continue
			}
			target, err := reg.Class(prop.Target)
			if err != nil {
				return fmt.Errorf("schema: property %s.%s targets unknown class %q", class.Name(), prop.Name, prop.Target)
			}
			if prop.Kind == KindBacklink {
				origin, ok := target.Property(prop.Origin)
				if !ok {
					return fmt.Errorf("schema: backlink %s.%s inverts unknown property %s.%s",
						class.Name(), prop.Name, prop.Target, prop.Origin)
				}
				if !origin.Kind.IsLink() || origin.Target != class.Name() {
					return fmt.Errorf("schema: backlink %s.%s inverts %s.%s, which does not link back to %s",
						class.Name(), prop.Name, prop.Target, prop.Origin, class.Name())
				}
			}
		}
	}
	return nil
}
