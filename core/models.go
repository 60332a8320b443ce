package core

import "time"

// NodeType distinguishes folders from files in a document tree.
type NodeType string

const (
	// NodeTypeFile is a leaf node carrying textual content.
	NodeTypeFile NodeType = "file"
	// NodeTypeFolder is an interior node grouping child nodes.
	NodeTypeFolder NodeType = "folder"
)

// MediaType identifies the top-level category of a stored media blob.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
)

// KnowledgeBase is a named container owning one document tree.
type KnowledgeBase struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DocumentNode is a single node of a knowledge base's document tree.
// ParentID is empty for root nodes. Order is 1-based and dense within a
// sibling group; zero means the node has not been assigned a position
// yet (repaired on load by the tree manager).
type DocumentNode struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            NodeType  `json:"type"`
	Content         string    `json:"content,omitempty"` // files only
	ParentID        string    `json:"parentId,omitempty"`
	KnowledgeBaseID string    `json:"knowledgeBaseId"`
	Order           int       `json:"order,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsFolder reports whether the node can hold children.
func (n *DocumentNode) IsFolder() bool {
	return n.Type == NodeTypeFolder
}

// IsRoot reports whether the node sits at the top of its tree.
func (n *DocumentNode) IsRoot() bool {
	return n.ParentID == ""
}
