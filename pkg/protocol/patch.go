package protocol

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// PatchOp is the type of live-tree mutation.
type PatchOp uint8

const (
	PatchCreateNode  PatchOp = 0x01 // realize a detached node
	PatchSetText     PatchOp = 0x02 // update text content
	PatchSetAttr     PatchOp = 0x03 // set attribute
	PatchRemoveAttr  PatchOp = 0x04 // remove attribute
	PatchInsertNode  PatchOp = 0x05 // attach node under parent at index
	PatchMoveNode    PatchOp = 0x06 // reposition node among siblings
	PatchRemoveNode  PatchOp = 0x07 // detach node and subtree
	PatchReplaceNode PatchOp = 0x08 // swap node for another in place
)

// String returns the operation name.
func (op PatchOp) String() string {
	switch op {
	case PatchCreateNode:
		return "CreateNode"
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(op))
	}
}

// NodeWire describes a freshly created node: an element with its initial
// attributes, or a text node.
type NodeWire struct {
	ID     uint32            `msgpack:"id"`
	Tag    string            `msgpack:"tag,omitempty"`
	IsText bool              `msgpack:"istext,omitempty"`
	Text   string            `msgpack:"text,omitempty"`
	Attrs  map[string]string `msgpack:"attrs,omitempty"`
}

// Patch is a single live-tree mutation. Which fields are meaningful depends
// on Op; unused fields stay zero and are omitted on the wire.
type Patch struct {
	Op       PatchOp   `msgpack:"op"`
	ID       uint32    `msgpack:"id,omitempty"`     // target node
	ParentID uint32    `msgpack:"parent,omitempty"` // Insert/Move parent
	NewID    uint32    `msgpack:"newid,omitempty"`  // Replace successor
	Index    int       `msgpack:"index,omitempty"`  // Insert/Move position, -1 appends
	Key      string    `msgpack:"key,omitempty"`    // attribute name
	Value    string    `msgpack:"value,omitempty"`  // text or attribute value
	Node     *NodeWire `msgpack:"node,omitempty"`   // Create payload
}

// PatchFrame is a batch of patches produced by one rendering pass, tagged
// with the session sequence number.
type PatchFrame struct {
	Seq     uint64  `msgpack:"seq"`
	Patches []Patch `msgpack:"patches"`
}

// EncodePatches serializes a patch frame.
func EncodePatches(pf *PatchFrame) ([]byte, error) {
	if len(pf.Patches) > MaxPatchesPerFrame {
		return nil, ErrTooManyPatches
	}
	return msgpack.Marshal(pf)
}

// DecodePatches deserializes a patch frame, enforcing the patch count
// limit.
func DecodePatches(data []byte) (*PatchFrame, error) {
	var pf PatchFrame
	if err := msgpack.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	if len(pf.Patches) > MaxPatchesPerFrame {
		return nil, ErrTooManyPatches
	}
	return &pf, nil
}

// NewCreateNodePatch creates a CreateNode patch.
func NewCreateNodePatch(node *NodeWire) Patch {
	return Patch{Op: PatchCreateNode, ID: node.ID, Node: node}
}

// NewSetTextPatch creates a SetText patch.
func NewSetTextPatch(id uint32, text string) Patch {
	return Patch{Op: PatchSetText, ID: id, Value: text}
}

// NewSetAttrPatch creates a SetAttr patch.
func NewSetAttrPatch(id uint32, key, value string) Patch {
	return Patch{Op: PatchSetAttr, ID: id, Key: key, Value: value}
}

// NewRemoveAttrPatch creates a RemoveAttr patch.
func NewRemoveAttrPatch(id uint32, key string) Patch {
	return Patch{Op: PatchRemoveAttr, ID: id, Key: key}
}

// NewInsertNodePatch creates an InsertNode patch.
func NewInsertNodePatch(parentID, id uint32, index int) Patch {
	return Patch{Op: PatchInsertNode, ID: id, ParentID: parentID, Index: index}
}

// NewMoveNodePatch creates a MoveNode patch.
func NewMoveNodePatch(parentID, id uint32, index int) Patch {
	return Patch{Op: PatchMoveNode, ID: id, ParentID: parentID, Index: index}
}

// NewRemoveNodePatch creates a RemoveNode patch.
func NewRemoveNodePatch(id uint32) Patch {
	return Patch{Op: PatchRemoveNode, ID: id}
}

// NewReplaceNodePatch creates a ReplaceNode patch.
func NewReplaceNodePatch(oldID, newID uint32) Patch {
	return Patch{Op: PatchReplaceNode, ID: oldID, NewID: newID}
}
