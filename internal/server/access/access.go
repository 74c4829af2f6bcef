// Package access implements the permission evaluator. It combines rank
// checks against the level table with resource-defined capability hooks, so
// per-resource rules live on the resource types themselves and the evaluator
// stays resource-agnostic.
//
// Hooks are explicit interfaces rather than reflective method probing:
// a resource opts into AttributeGuarded for per-attribute decisions, or
// Guarded for a generic one. Resources that opt into neither get the
// default (allow for authenticated actors, deny for the anonymous actor).
package access

import (
	"github.com/dmitrijs2005/boardkeeper/internal/server/levels"
	"github.com/dmitrijs2005/boardkeeper/internal/server/models"
)

// Owned is implemented by resources that belong to an account. The field
// argument names the foreign-key field being asked about (e.g. "user_id"),
// so one resource can expose several ownership relations. The second return
// reports whether the resource has such a field at all.
type Owned interface {
	OwnerAccountID(field string) (int64, bool)
}

// AttributeGuarded is the attribute-specific capability hook. handled=false
// means the resource has no opinion on this attribute and resolution falls
// through to the next step.
type AttributeGuarded interface {
	CanChangeAttribute(actor *models.Account, attribute string) (allowed, handled bool)
}

// Guarded is the generic capability hook, consulted when no
// attribute-specific decision was made.
type Guarded interface {
	CanBeChangedBy(actor *models.Account, attribute string) bool
}

// Evaluator answers permission queries. Denials are plain booleans; the
// evaluator never reports why a check failed.
type Evaluator struct {
	table   *levels.Table
	modRank int
}

// NewEvaluator resolves the ranks the evaluator needs up front, failing fast
// if the level table lacks them.
func NewEvaluator(table *levels.Table) (*Evaluator, error) {
	modRank, err := table.RankOf(levels.Mod)
	if err != nil {
		return nil, err
	}
	return &Evaluator{table: table, modRank: modRank}, nil
}

// Anonymous returns the degenerate unauthenticated actor: id 0, lowest rank.
func (e *Evaluator) Anonymous() *models.Account {
	return &models.Account{ID: 0, Name: "Anonymous", Level: e.table.LowestRank()}
}

// isAnonymous treats both nil and the id-0 account as unauthenticated.
func isAnonymous(actor *models.Account) bool {
	return actor == nil || actor.ID == 0
}

// CanAct reports whether the actor may operate on the resource. Moderators
// and above always may. Anyone else may only when the resource exposes the
// named foreign-key field and it matches the actor's id. The anonymous actor
// may never act.
func (e *Evaluator) CanAct(actor *models.Account, resource any, foreignKeyField string) bool {
	if isAnonymous(actor) {
		return false
	}
	if actor.Level >= e.modRank {
		return true
	}
	owned, ok := resource.(Owned)
	if !ok {
		return false
	}
	owner, ok := owned.OwnerAccountID(foreignKeyField)
	return ok && owner == actor.ID
}

// CanChange reports whether the actor may change the named attribute of the
// resource. It also works in "class mode": passing a zero value of a
// resource type answers whether any instance could ever allow the change,
// which is how edit affordances are decided without a concrete instance.
//
// Resolution order: moderator-or-higher always may; then the resource's
// attribute-specific hook; then its generic hook; then the default, which is
// allow for authenticated actors and deny for the anonymous actor.
func (e *Evaluator) CanChange(actor *models.Account, resource any, attribute string) bool {
	if !isAnonymous(actor) && actor.Level >= e.modRank {
		return true
	}
	if ag, ok := resource.(AttributeGuarded); ok {
		if allowed, handled := ag.CanChangeAttribute(actor, attribute); handled {
			return allowed
		}
	}
	if g, ok := resource.(Guarded); ok {
		return g.CanBeChangedBy(actor, attribute)
	}
	return !isAnonymous(actor)
}
