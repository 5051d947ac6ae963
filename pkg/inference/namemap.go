package inference

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// NameMapping emits a relationship for every pair of distinct tables that
// share an identically-named column, without any value-overlap check. It is
// a looser fallback source of candidate relationships, not a replacement
// for value-match inference: emitted relationships carry no meaningful
// confidence and both directions are produced for each shared name.
func (e *Engine) NameMapping(st *store.Store) models.RelationshipSet {
	var rels []models.Relationship
	names := st.Names()
	for _, fromName := range names {
		from, err := st.Table(fromName)
		if err != nil {
			continue
		}
		for _, toName := range names {
			if toName == fromName {
				continue
			}
			to, err := st.Table(toName)
			if err != nil {
				continue
			}
			for _, col := range from.Columns {
				if _, ok := to.Column(col.Name); !ok {
					continue
				}
				rels = append(rels, models.Relationship{
					ID:         uuid.New(),
					FromTable:  fromName,
					FromColumn: col.Name,
					ToTable:    toName,
					ToColumn:   col.Name,
					Confidence: 1.0,
					Method:     models.DetectionNameMatch,
				})
			}
		}
	}

	e.logger.Info("name-based mapping complete",
		zap.Int("tables", st.Len()),
		zap.Int("relationships", len(rels)))

	return models.NewRelationshipSet(rels)
}
