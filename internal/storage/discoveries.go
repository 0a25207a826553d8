package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SeamusWaldron/bitcube/internal/cube"
	"github.com/SeamusWaldron/bitcube/internal/search"
)

// StoredDiscovery is a discovery row read back from the database.
type StoredDiscovery struct {
	RunID       string
	DiscoveryID int64
	Cube        cube.Cube
	Perfect     bool
	Report      cube.Report
	OrbitBases  []byte
	LayerIdx    []int
	CreatedAt   time.Time
}

// DiscoveryRepository provides operations for discoveries.
type DiscoveryRepository struct {
	db *DB
}

// NewDiscoveryRepository creates a new discovery repository.
func NewDiscoveryRepository(db *DB) *DiscoveryRepository {
	return &DiscoveryRepository{db: db}
}

// Create stores a discovery under runID.
func (r *DiscoveryRepository) Create(runID string, d search.Discovery) error {
	failures, err := json.Marshal(nonNil(d.Report.Failures))
	if err != nil {
		return fmt.Errorf("failed to encode failures: %w", err)
	}
	duplicates, err := json.Marshal(nonNil(d.Report.Duplicates))
	if err != nil {
		return fmt.Errorf("failed to encode duplicates: %w", err)
	}

	var bases, indices *string
	if len(d.Orbits) > 0 {
		parts := make([]string, len(d.Orbits))
		for i, o := range d.Orbits {
			parts[i] = strconv.Itoa(int(o.Base))
		}
		s := strings.Join(parts, ",")
		bases = &s
	}
	if len(d.Layers) > 0 {
		parts := make([]string, len(d.Layers))
		for i, idx := range d.Layers {
			parts[i] = strconv.Itoa(idx)
		}
		s := strings.Join(parts, ",")
		indices = &s
	}

	rep := d.Report
	_, err = r.db.Exec(`
		INSERT INTO discoveries (
			run_id, discovery_id, cube_hex, perfect, ones,
			x_ok, y_ok, z_ok, unique_ok, failures_json, duplicates_json,
			orbit_bases, layer_indices, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, d.ID, d.Cube.Hex(), boolToInt(rep.Perfect()), rep.Ones,
		boolToInt(rep.XBalanced), boolToInt(rep.YBalanced), boolToInt(rep.ZBalanced), boolToInt(rep.UniqueRows),
		string(failures), string(duplicates), bases, indices, time.Now().UTC().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("failed to create discovery: %w", err)
	}
	return nil
}

// List retrieves discoveries for a run ordered by ID. A limit of 0 returns
// all of them.
func (r *DiscoveryRepository) List(runID string, limit int) ([]StoredDiscovery, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(`
		SELECT run_id, discovery_id, cube_hex, perfect, ones,
			x_ok, y_ok, z_ok, unique_ok, failures_json, duplicates_json,
			orbit_bases, layer_indices, created_at
		FROM discoveries
		WHERE run_id = ?
		ORDER BY discovery_id
		LIMIT ?
	`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list discoveries: %w", err)
	}
	defer rows.Close()

	var out []StoredDiscovery
	for rows.Next() {
		var (
			d                           StoredDiscovery
			hexCube, failures, dups     string
			createdAt                   string
			perfect, xOK, yOK, zOK, uOK int
			bases, indices              sql.NullString
		)
		err := rows.Scan(&d.RunID, &d.DiscoveryID, &hexCube, &perfect, &d.Report.Ones,
			&xOK, &yOK, &zOK, &uOK, &failures, &dups, &bases, &indices, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discovery: %w", err)
		}

		d.Cube, err = cube.Decode(hexCube)
		if err != nil {
			return nil, fmt.Errorf("discovery %d: %w", d.DiscoveryID, err)
		}
		d.Perfect = perfect == 1
		d.Report.Zeros = 512 - d.Report.Ones
		d.Report.XBalanced = xOK == 1
		d.Report.YBalanced = yOK == 1
		d.Report.ZBalanced = zOK == 1
		d.Report.UniqueRows = uOK == 1
		if err := json.Unmarshal([]byte(failures), &d.Report.Failures); err != nil {
			return nil, fmt.Errorf("failed to decode failures: %w", err)
		}
		if err := json.Unmarshal([]byte(dups), &d.Report.Duplicates); err != nil {
			return nil, fmt.Errorf("failed to decode duplicates: %w", err)
		}
		if bases.Valid {
			for _, s := range strings.Split(bases.String, ",") {
				n, err := strconv.Atoi(s)
				if err != nil {
					return nil, fmt.Errorf("bad orbit base %q: %w", s, err)
				}
				d.OrbitBases = append(d.OrbitBases, byte(n))
			}
		}
		if indices.Valid {
			for _, s := range strings.Split(indices.String, ",") {
				n, err := strconv.Atoi(s)
				if err != nil {
					return nil, fmt.Errorf("bad layer index %q: %w", s, err)
				}
				d.LayerIdx = append(d.LayerIdx, n)
			}
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, d)
	}

	return out, rows.Err()
}

// Count returns the total and perfect discovery counts of a run.
func (r *DiscoveryRepository) Count(runID string) (total, perfect int, err error) {
	err = r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(perfect), 0)
		FROM discoveries WHERE run_id = ?
	`, runID).Scan(&total, &perfect)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count discoveries: %w", err)
	}
	return total, perfect, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
