// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prefabs

import (
	"fmt"
	"io"
	"os"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/xyz"
	"gopkg.in/yaml.v3"
)

// Definition is a data-driven prefab: an object subtree described in
// YAML. Components are referenced by their registered type name and
// their fields are decoded from the With mapping.
type Definition struct {
	Name string `yaml:"name"`

	// Mesh and Material are asset names; an empty Mesh means no drawable.
	Mesh     string `yaml:"mesh"`
	Material string `yaml:"material"`

	// Position, Rotation (Euler degrees) and Scale are [x, y, z].
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"`
	Scale    []float32 `yaml:"scale"`

	Props map[string]any `yaml:"props"`

	Components []ComponentDef `yaml:"components"`

	Children []*Definition `yaml:"children"`
}

// ComponentDef is a component of a [Definition].
type ComponentDef struct {
	Type string    `yaml:"type"`
	With yaml.Node `yaml:"with"`
}

type definitionFile struct {
	Prefabs []*Definition `yaml:"prefabs"`
}

// LoadDefinitions decodes a YAML document with a top level
// prefabs list.
func LoadDefinitions(r io.Reader) ([]*Definition, error) {
	var df definitionFile
	if err := yaml.NewDecoder(r).Decode(&df); err != nil {
		return nil, fmt.Errorf("prefabs.LoadDefinitions: %w", err)
	}
	for i, d := range df.Prefabs {
		if d.Name == "" {
			return nil, fmt.Errorf("prefabs.LoadDefinitions: prefab %d has no name", i)
		}
	}
	return df.Prefabs, nil
}

// LoadDefinitionsFile loads definitions from a YAML file.
func LoadDefinitionsFile(path string) ([]*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDefinitions(f)
}

// AddDefinitions adds the definitions to the library.
func AddDefinitions(lib *xyz.Library, defs []*Definition) {
	for _, d := range defs {
		lib.Add(d)
	}
}

func (d *Definition) PrefabName() string { return d.Name }

// Build creates the subtree. Missing assets and unknown component
// types are errors; the partial subtree is deleted.
func (d *Definition) Build(w *xyz.World) (xyz.ObjectID, error) {
	id, err := d.build(w)
	if err != nil {
		return xyz.ObjectID{}, fmt.Errorf("prefab %q: %w", d.Name, err)
	}
	return id, nil
}

func (d *Definition) build(w *xyz.World) (xyz.ObjectID, error) {
	id := w.NewObject(d.Name)
	o, _ := w.Object(id)
	fail := func(err error) (xyz.ObjectID, error) {
		w.DeleteObject(id)
		return xyz.ObjectID{}, err
	}
	if p, err := vec3(d.Position, math32.Vector3{}); err != nil {
		return fail(fmt.Errorf("position: %w", err))
	} else {
		o.Transform.SetPosition(p)
	}
	if r, err := vec3(d.Rotation, math32.Vector3{}); err != nil {
		return fail(fmt.Errorf("rotation: %w", err))
	} else {
		o.Transform.SetEulerRotation(r.X, r.Y, r.Z)
	}
	if s, err := vec3(d.Scale, math32.Vec3(1, 1, 1)); err != nil {
		return fail(fmt.Errorf("scale: %w", err))
	} else {
		o.Transform.SetScale(s)
	}
	for k, v := range d.Props {
		o.SetProp(k, v)
	}
	if d.Mesh != "" {
		mesh, ok := w.Assets().Meshes.FindByName(d.Mesh)
		if !ok {
			return fail(fmt.Errorf("mesh %q: %w", d.Mesh, assets.ErrNotFound))
		}
		mat := assets.MaterialDefault
		if d.Material != "" {
			if mat, ok = w.Assets().Materials.FindByName(d.Material); !ok {
				return fail(fmt.Errorf("material %q: %w", d.Material, assets.ErrNotFound))
			}
		}
		o.SetDrawable(mesh, mat)
	}
	for _, cd := range d.Components {
		_, err := w.NewComponentByName(id, cd.Type, func(c xyz.Component) error {
			if cd.With.Kind == 0 {
				return nil
			}
			return cd.With.Decode(c)
		})
		if err != nil {
			return fail(fmt.Errorf("component %s: %w", cd.Type, err))
		}
	}
	for _, cd := range d.Children {
		cid, err := cd.build(w)
		if err != nil {
			return fail(fmt.Errorf("child %q: %w", cd.Name, err))
		}
		if err := w.AddChildTo(id, cid); err != nil {
			return fail(err)
		}
	}
	return id, nil
}

func vec3(v []float32, def math32.Vector3) (math32.Vector3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 1:
		return math32.Vector3Scalar(v[0]), nil
	case 3:
		return math32.Vec3(v[0], v[1], v[2]), nil
	}
	return def, fmt.Errorf("want 1 or 3 values, got %d", len(v))
}
