package sqlstore

import (
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

type resolutionRow struct {
	Kind       string `db:"kind"`
	ConflictID string `db:"conflict_id"`
	Choice     string `db:"choice"`
}

var resolutionKinds = []models.ResolutionKind{
	models.ResolutionAuto,
	models.ResolutionTimeOverlap,
	models.ResolutionOutlier,
}

func (s *Store) GetResolutions() (models.Resolutions, error) {
	var rows []resolutionRow
	if err := s.db.Select(&rows, "SELECT kind, conflict_id, choice FROM conflict_resolutions"); err != nil {
		return models.Resolutions{}, err
	}
	res := models.NewResolutions()
	for _, r := range rows {
		if m := res.Map(models.ResolutionKind(r.Kind)); m != nil {
			m[r.ConflictID] = models.Choice(r.Choice)
		}
	}
	return res, nil
}

func (s *Store) SaveResolutions(res models.Resolutions) error {
	updatedAt := now()
	return s.inTx(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec("DELETE FROM conflict_resolutions"); err != nil {
			return err
		}
		insert := tx.Rebind(`INSERT INTO conflict_resolutions (kind, conflict_id, choice, updated_at)
			VALUES (?, ?, ?, ?)`)
		for _, kind := range resolutionKinds {
			m := res.Map(kind)
			ids := make([]string, 0, len(m))
			for id := range m {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				if _, err := tx.Exec(insert, string(kind), id, string(m[id]), updatedAt); err != nil {
					return fmt.Errorf("failed to save resolution %s: %w", id, err)
				}
			}
		}
		return nil
	})
}
