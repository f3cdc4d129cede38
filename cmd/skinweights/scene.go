package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/skinweights/internal/geom"
	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/monitoring"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// sceneFile is the JSON interchange format for import and export.
type sceneFile struct {
	Objects []sceneObject `json:"objects"`
}

type sceneObject struct {
	Name        string          `json:"name"`
	World       *geom.Transform `json:"world,omitempty"` // row-major 4x4, identity when omitted
	Vertices    [][3]float64    `json:"vertices"`
	Edges       [][2]int        `json:"edges,omitempty"`
	Groups      []sceneGroup    `json:"groups,omitempty"`
	ActiveGroup string          `json:"active_group,omitempty"`
}

type sceneGroup struct {
	Name    string          `json:"name"`
	Weights map[int]float64 `json:"weights"`
}

func readScene(path string) (*sceneFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var s sceneFile
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &s, nil
}

func (so sceneObject) toObject() (*mesh.Object, error) {
	verts := make([]r3.Vec, len(so.Vertices))
	for i, v := range so.Vertices {
		verts[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	edges := make([]mesh.Edge, len(so.Edges))
	for i, e := range so.Edges {
		edges[i] = mesh.Edge(e)
	}
	obj := mesh.NewObject(so.Name, verts, edges)
	if so.World != nil {
		obj.World = *so.World
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	for _, sg := range so.Groups {
		g, err := obj.Groups.CreateGroup(sg.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", so.Name, err)
		}
		for v, w := range sg.Weights {
			if v < 0 || v >= len(verts) {
				return nil, fmt.Errorf("%s: group %q weights vertex %d out of range", so.Name, sg.Name, v)
			}
			obj.Groups.SetWeight(vgroup.VertexID(v), g, w)
		}
	}
	if so.ActiveGroup != "" {
		g, ok := obj.Groups.GroupByName(so.ActiveGroup)
		if !ok {
			return nil, fmt.Errorf("%s: active group %q: %w", so.Name, so.ActiveGroup, vgroup.ErrGroupNotFound)
		}
		if err := obj.Groups.SetActiveGroup(g); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func fromObject(obj *mesh.Object) sceneObject {
	world := obj.World
	so := sceneObject{
		Name:     obj.Name,
		World:    &world,
		Vertices: make([][3]float64, len(obj.Vertices)),
		Edges:    make([][2]int, len(obj.Edges)),
	}
	for i, v := range obj.Vertices {
		so.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i, e := range obj.Edges {
		so.Edges[i] = e
	}
	for _, g := range obj.Groups.Groups() {
		sg := sceneGroup{Name: g.Name, Weights: map[int]float64{}}
		for _, v := range obj.Groups.Members(g.ID) {
			sg.Weights[int(v)], _ = obj.Groups.Weight(v, g.ID)
		}
		so.Groups = append(so.Groups, sg)
	}
	if id, ok := obj.Groups.ActiveGroup(); ok {
		g, _ := obj.Groups.Group(id)
		so.ActiveGroup = g.Name
	}
	return so
}

func (a *app) importScenes(paths []string) error {
	for _, path := range paths {
		s, err := readScene(path)
		if err != nil {
			return err
		}
		for _, so := range s.Objects {
			obj, err := so.toObject()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := a.db.PutObject(obj); err != nil {
				return err
			}
			monitoring.Logf("imported %s: %d vertices, %d groups", obj.Name, len(obj.Vertices), len(so.Groups))
			fmt.Fprintf(a.out, "imported %s\n", obj.Name)
		}
	}
	return nil
}

func (a *app) export(name, path string) error {
	obj, err := a.db.LoadObject(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sceneFile{Objects: []sceneObject{fromObject(obj)}}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
