package scheduling

import (
	"errors"
	"fmt"

	"github.com/acro-planner/acro-planner-api/internal/models"
	"gorm.io/gorm"
)

// CapabilityGraph maintains the prerequisite DAG. Nodes are capability
// rows; edges are the id lists in ParentCapabilityIDs. All traversal
// goes through visited sets so a cycle already present in storage can
// never hang a request.
type CapabilityGraph struct {
	db *gorm.DB
}

func NewCapabilityGraph(db *gorm.DB) *CapabilityGraph {
	return &CapabilityGraph{db: db}
}

// AddParent appends parentID to childID's prerequisite list. Adding a
// parent that can already reach the child through existing edges would
// close a loop, so the edge is checked before it is written. Re-adding
// an existing parent is a no-op.
func (g *CapabilityGraph) AddParent(childID, parentID string) (*models.Capability, error) {
	if childID == parentID {
		return nil, fmt.Errorf("%w: %s", ErrSelfReference, childID)
	}

	var child models.Capability
	err := g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&child, "id = ?", childID).Error; err != nil {
			return wrapNotFound(err, "capability", childID)
		}
		if err := tx.First(&models.Capability{}, "id = ?", parentID).Error; err != nil {
			return wrapNotFound(err, "capability", parentID)
		}

		reachable, err := canReach(tx, parentID, childID)
		if err != nil {
			return err
		}
		if reachable {
			return fmt.Errorf("%w: %s already depends on %s", ErrCycleDetected, parentID, childID)
		}

		for _, id := range child.ParentCapabilityIDs {
			if id == parentID {
				return nil
			}
		}
		child.ParentCapabilityIDs = append(child.ParentCapabilityIDs, parentID)
		return tx.Save(&child).Error
	})
	if err != nil {
		return nil, err
	}
	return &child, nil
}

// TransitiveClosure returns every ancestor reachable from id by
// following parent edges, deduplicated, in first-discovery order.
func (g *CapabilityGraph) TransitiveClosure(id string) ([]models.Capability, error) {
	if err := g.db.First(&models.Capability{}, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err, "capability", id)
	}

	// visited guards the traversal; inClosure dedups the result. They
	// must stay separate: with a cycle stored under the start node, an
	// ancestor can be the start node itself and still belongs in the
	// closure even though traversal already passed through it.
	visited := map[string]bool{}
	inClosure := map[string]bool{}
	var closure []models.Capability

	var collect func(capID string) error
	collect = func(capID string) error {
		if visited[capID] {
			return nil
		}
		visited[capID] = true

		var capability models.Capability
		if err := g.db.First(&capability, "id = ?", capID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // dangling edge; skip rather than fail the whole closure
			}
			return err
		}
		for _, parentID := range capability.ParentCapabilityIDs {
			if !inClosure[parentID] {
				var parent models.Capability
				if err := g.db.First(&parent, "id = ?", parentID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						continue
					}
					return err
				}
				closure = append(closure, parent)
				inClosure[parentID] = true
			}
			if err := collect(parentID); err != nil {
				return err
			}
		}
		return nil
	}

	if err := collect(id); err != nil {
		return nil, err
	}
	return closure, nil
}

// Delete removes a capability. It refuses while any other capability
// still lists the id among its parents.
func (g *CapabilityGraph) Delete(id string) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var capability models.Capability
		if err := tx.First(&capability, "id = ?", id).Error; err != nil {
			return wrapNotFound(err, "capability", id)
		}

		// Capability graphs are small; scanning the table inside the
		// transaction is the set-containment query here.
		var all []models.Capability
		if err := tx.Find(&all).Error; err != nil {
			return err
		}
		for _, other := range all {
			if other.ID == id {
				continue
			}
			for _, parentID := range other.ParentCapabilityIDs {
				if parentID == id {
					return fmt.Errorf("%w: %s depends on %s", ErrHasDependents, other.ID, id)
				}
			}
		}

		return tx.Delete(&capability).Error
	})
}

// canReach reports whether toID is reachable from fromID through the
// existing parent edges.
func canReach(tx *gorm.DB, fromID, toID string) (bool, error) {
	visited := map[string]bool{}

	var walk func(id string) (bool, error)
	walk = func(id string) (bool, error) {
		if id == toID {
			return true, nil
		}
		if visited[id] {
			return false, nil
		}
		visited[id] = true

		var capability models.Capability
		if err := tx.First(&capability, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		for _, parentID := range capability.ParentCapabilityIDs {
			found, err := walk(parentID)
			if err != nil || found {
				return found, err
			}
		}
		return false, nil
	}

	return walk(fromID)
}

func wrapNotFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return err
}
