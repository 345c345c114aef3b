package canvas

import (
	"encoding/json"
	"fmt"
)

// Change types carried on node-change / node-remote-change events.
const (
	ChangeCreate = "create"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// ApplyRemoteChange folds a peer's node mutation into local state. Same
// code path as a local edit minus the history push (remote changes are
// not locally undoable) and minus re-broadcast. Last writer wins; a
// delete for an unknown node and a replayed create are tolerated so the
// handler stays idempotent under transport redelivery.
func (d *Document) ApplyRemoteChange(changeType string, payload json.RawMessage) error {
	switch changeType {
	case ChangeCreate, ChangeUpdate:
		var node Node
		if err := json.Unmarshal(payload, &node); err != nil {
			return fmt.Errorf("remote %s: decode node: %w", changeType, err)
		}
		if node.ID == "" {
			return fmt.Errorf("remote %s: node id missing", changeType)
		}
		d.nodes[node.ID] = &node
	case ChangeDelete:
		var node struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(payload, &node); err != nil {
			return fmt.Errorf("remote delete: decode node: %w", err)
		}
		if _, ok := d.nodes[node.ID]; !ok {
			return nil
		}
		d.removeClosure(node.ID)
	default:
		return fmt.Errorf("remote change: unknown type %q", changeType)
	}
	return nil
}
