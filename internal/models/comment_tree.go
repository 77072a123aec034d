package models

import "sort"

// BuildCommentTree nests a flat list of comments into a forest. Comments with a
// nil ParentID become roots; every other comment is appended to its parent's
// Replies list. A comment whose ParentID does not resolve within the batch is
// promoted to a root rather than dropped, so the tree always contains exactly
// as many nodes as the input. Roots and siblings are sorted by CreatedAt with
// ID as tiebreak, so the forest shape does not depend on input order.
func BuildCommentTree(comments []Comment) []*Comment {
	nodes := make(map[uint]*Comment, len(comments))
	ordered := make([]*Comment, len(comments))
	for i := range comments {
		node := comments[i]
		node.Replies = []*Comment{}
		nodes[node.ID] = &node
		ordered[i] = &node
	}

	roots := make([]*Comment, 0, len(comments))
	for _, node := range ordered {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok || parent.ID == node.ID {
			// Orphaned reply, keep it visible as a root.
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	sortSiblings(roots)
	for _, node := range ordered {
		sortSiblings(node.Replies)
	}
	return roots
}

// sortSiblings orders a sibling list by creation time, oldest first, with ID
// breaking ties between comments created in the same instant.
func sortSiblings(siblings []*Comment) {
	sort.SliceStable(siblings, func(i, j int) bool {
		if !siblings[i].CreatedAt.Equal(siblings[j].CreatedAt) {
			return siblings[i].CreatedAt.Before(siblings[j].CreatedAt)
		}
		return siblings[i].ID < siblings[j].ID
	})
}

// CountCommentTree returns the total number of nodes in a forest produced by
// BuildCommentTree.
func CountCommentTree(roots []*Comment) int {
	total := 0
	for _, root := range roots {
		total += 1 + CountCommentTree(root.Replies)
	}
	return total
}
