package meshdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/skinweights/internal/geom"
	"github.com/banshee-data/skinweights/internal/mesh"
	"github.com/banshee-data/skinweights/internal/vgroup"
)

// PutObject stores obj, replacing any object with the same name together
// with its geometry and groups.
func (db *DB) PutObject(obj *mesh.Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	world, err := json.Marshal(obj.World)
	if err != nil {
		return fmt.Errorf("failed to encode world transform: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if id, err := objectID(tx, obj.Name); err == nil {
		if err := deleteObjectRows(tx, id, "vertices", "edges", "vertex_groups", "vertex_weights", "objects"); err != nil {
			return err
		}
	} else if !errors.Is(err, ErrObjectNotFound) {
		return err
	}

	res, err := tx.Exec(`INSERT INTO objects (name, world_transform) VALUES (?, ?)`, obj.Name, string(world))
	if err != nil {
		return fmt.Errorf("failed to insert object %q: %w", obj.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	vstmt, err := tx.Prepare(`INSERT INTO vertices (object_id, vertex_index, x, y, z) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer vstmt.Close()
	for i, v := range obj.Vertices {
		if _, err := vstmt.Exec(id, i, v.X, v.Y, v.Z); err != nil {
			return fmt.Errorf("failed to insert vertex %d: %w", i, err)
		}
	}

	estmt, err := tx.Prepare(`INSERT INTO edges (object_id, edge_index, v1, v2) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer estmt.Close()
	for i, e := range obj.Edges {
		if _, err := estmt.Exec(id, i, e[0], e[1]); err != nil {
			return fmt.Errorf("failed to insert edge %d: %w", i, err)
		}
	}

	if err := writeGroups(tx, id, obj.Groups); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveGroups replaces the stored groups, weights and active group of an
// existing object in one transaction, so readers see either the old or the
// new weights.
func (db *DB) SaveGroups(obj *mesh.Object) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := objectID(tx, obj.Name)
	if err != nil {
		return err
	}
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM vertices WHERE object_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count != obj.Groups.VertexCount() {
		return fmt.Errorf("%s: stored %d vertices, groups cover %d: %w", obj.Name, count, obj.Groups.VertexCount(), mesh.ErrStoreMismatch)
	}

	if err := deleteObjectRows(tx, id, "vertex_groups", "vertex_weights"); err != nil {
		return err
	}
	if err := writeGroups(tx, id, obj.Groups); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadObject reads the named object into a fresh in-memory object.
func (db *DB) LoadObject(name string) (*mesh.Object, error) {
	var (
		id          int64
		worldJSON   string
		activeIndex int
	)
	err := db.QueryRow(`SELECT object_id, world_transform, active_group FROM objects WHERE name = ?`, name).
		Scan(&id, &worldJSON, &activeIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, ErrObjectNotFound)
	}
	if err != nil {
		return nil, err
	}

	var world geom.Transform
	if err := json.Unmarshal([]byte(worldJSON), &world); err != nil {
		return nil, fmt.Errorf("%q: failed to decode world transform: %w", name, err)
	}

	verts, err := loadVertices(db.DB, id)
	if err != nil {
		return nil, err
	}
	edges, err := loadEdges(db.DB, id)
	if err != nil {
		return nil, err
	}

	obj := mesh.NewObject(name, verts, edges)
	obj.World = world
	if err := loadGroups(db.DB, id, obj.Groups, activeIndex); err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	return obj, nil
}

// ObjectNames lists the stored objects by name.
func (db *DB) ObjectNames() ([]string, error) {
	rows, err := db.Query(`SELECT name FROM objects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func objectID(q queryer, name string) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT object_id FROM objects WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%q: %w", name, ErrObjectNotFound)
	}
	return id, err
}

func deleteObjectRows(tx *sql.Tx, id int64, tables ...string) error {
	for _, table := range tables {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE object_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func writeGroups(tx *sql.Tx, id int64, store vgroup.Store) error {
	groups := store.Groups()
	names := make(map[vgroup.GroupID]string, len(groups))

	gstmt, err := tx.Prepare(`INSERT INTO vertex_groups (object_id, group_index, name) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer gstmt.Close()
	for _, g := range groups {
		names[g.ID] = g.Name
		if _, err := gstmt.Exec(id, g.Index, g.Name); err != nil {
			return fmt.Errorf("failed to insert group %q: %w", g.Name, err)
		}
	}

	wstmt, err := tx.Prepare(`INSERT INTO vertex_weights (object_id, vertex_index, group_name, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer wstmt.Close()
	for v := 0; v < store.VertexCount(); v++ {
		for g, w := range store.Weights(vgroup.VertexID(v)) {
			if _, err := wstmt.Exec(id, v, names[g], w); err != nil {
				return fmt.Errorf("failed to insert weight %d/%s: %w", v, names[g], err)
			}
		}
	}

	active := -1
	if a, ok := store.ActiveGroup(); ok {
		if g, ok := store.Group(a); ok {
			active = g.Index
		}
	}
	_, err = tx.Exec(`UPDATE objects SET active_group = ? WHERE object_id = ?`, active, id)
	return err
}

func loadVertices(q queryer, id int64) ([]r3.Vec, error) {
	rows, err := q.Query(`SELECT x, y, z FROM vertices WHERE object_id = ? ORDER BY vertex_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var verts []r3.Vec
	for rows.Next() {
		var v r3.Vec
		if err := rows.Scan(&v.X, &v.Y, &v.Z); err != nil {
			return nil, err
		}
		verts = append(verts, v)
	}
	return verts, rows.Err()
}

func loadEdges(q queryer, id int64) ([]mesh.Edge, error) {
	rows, err := q.Query(`SELECT v1, v2 FROM edges WHERE object_id = ? ORDER BY edge_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []mesh.Edge
	for rows.Next() {
		var e mesh.Edge
		if err := rows.Scan(&e[0], &e[1]); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func loadGroups(q queryer, id int64, store vgroup.Store, activeIndex int) error {
	rows, err := q.Query(`SELECT name FROM vertex_groups WHERE object_id = ? ORDER BY group_index`, id)
	if err != nil {
		return err
	}
	var ordered []vgroup.GroupID
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		g, err := store.CreateGroup(name)
		if err != nil {
			rows.Close()
			return err
		}
		ordered = append(ordered, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	wrows, err := q.Query(`SELECT vertex_index, group_name, weight FROM vertex_weights WHERE object_id = ?`, id)
	if err != nil {
		return err
	}
	defer wrows.Close()
	for wrows.Next() {
		var (
			v    int
			name string
			w    float64
		)
		if err := wrows.Scan(&v, &name, &w); err != nil {
			return err
		}
		g, ok := store.GroupByName(name)
		if !ok {
			return fmt.Errorf("weight for unknown group %q: %w", name, vgroup.ErrGroupNotFound)
		}
		if v < 0 || v >= store.VertexCount() {
			return fmt.Errorf("weight for vertex %d out of range", v)
		}
		store.SetWeight(vgroup.VertexID(v), g, w)
	}
	if err := wrows.Err(); err != nil {
		return err
	}

	if activeIndex >= 0 && activeIndex < len(ordered) {
		return store.SetActiveGroup(ordered[activeIndex])
	}
	return nil
}
