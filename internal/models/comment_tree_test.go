package models

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func flatComments(t time.Time) []Comment {
	// post thread:
	//   1
	//   ├── 2
	//   │   └── 4
	//   └── 5
	//   3
	return []Comment{
		{ID: 1, PostID: "p1", Content: "root one", CreatedAt: t},
		{ID: 2, PostID: "p1", ParentID: uintPtr(1), Content: "reply to one", CreatedAt: t.Add(1 * time.Minute)},
		{ID: 3, PostID: "p1", Content: "root two", CreatedAt: t.Add(2 * time.Minute)},
		{ID: 4, PostID: "p1", ParentID: uintPtr(2), Content: "nested reply", CreatedAt: t.Add(3 * time.Minute)},
		{ID: 5, PostID: "p1", ParentID: uintPtr(1), Content: "second reply to one", CreatedAt: t.Add(4 * time.Minute)},
	}
}

func TestBuildCommentTree(t *testing.T) {
	comments := flatComments(time.Now())
	roots := BuildCommentTree(comments)

	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(3), roots[1].ID)

	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, uint(2), roots[0].Replies[0].ID)
	assert.Equal(t, uint(5), roots[0].Replies[1].ID)

	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(4), roots[0].Replies[0].Replies[0].ID)

	assert.Empty(t, roots[1].Replies)
}

func TestBuildCommentTree_CountPreservation(t *testing.T) {
	comments := flatComments(time.Now())
	roots := BuildCommentTree(comments)
	assert.Equal(t, len(comments), CountCommentTree(roots))
}

func TestBuildCommentTree_ParentLinks(t *testing.T) {
	roots := BuildCommentTree(flatComments(time.Now()))

	var walk func(parent *Comment, nodes []*Comment)
	walk = func(parent *Comment, nodes []*Comment) {
		for _, node := range nodes {
			if parent != nil {
				require.NotNil(t, node.ParentID)
				assert.Equal(t, parent.ID, *node.ParentID)
			}
			walk(node, node.Replies)
		}
	}
	walk(nil, roots)
}

func TestBuildCommentTree_OrphanBecomesRoot(t *testing.T) {
	now := time.Now()
	comments := []Comment{
		{ID: 1, PostID: "p1", Content: "root", CreatedAt: now},
		{ID: 2, PostID: "p1", ParentID: uintPtr(99), Content: "orphaned reply", CreatedAt: now.Add(time.Minute)},
	}

	roots := BuildCommentTree(comments)
	require.Len(t, roots, 2)
	assert.Equal(t, uint(2), roots[1].ID)
	assert.Equal(t, len(comments), CountCommentTree(roots))
}

func TestBuildCommentTree_SelfParentBecomesRoot(t *testing.T) {
	comments := []Comment{
		{ID: 7, PostID: "p1", ParentID: uintPtr(7), Content: "points at itself", CreatedAt: time.Now()},
	}

	roots := BuildCommentTree(comments)
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Replies)
}

func TestBuildCommentTree_SiblingOrderIsStable(t *testing.T) {
	now := time.Now()
	comments := []Comment{
		{ID: 1, PostID: "p1", Content: "root", CreatedAt: now},
		{ID: 2, PostID: "p1", ParentID: uintPtr(1), CreatedAt: now.Add(1 * time.Minute)},
		{ID: 3, PostID: "p1", ParentID: uintPtr(1), CreatedAt: now.Add(2 * time.Minute)},
		{ID: 4, PostID: "p1", ParentID: uintPtr(1), CreatedAt: now.Add(3 * time.Minute)},
	}

	// Sibling order keys on creation time, not on the order the store hands
	// the rows over.
	roots := BuildCommentTree(comments)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 3)
	for i, want := range []uint{2, 3, 4} {
		assert.Equal(t, want, roots[0].Replies[i].ID)
	}
}

func TestBuildCommentTree_SiblingOrderSurvivesShuffledInput(t *testing.T) {
	now := time.Now()
	comments := []Comment{
		{ID: 1, PostID: "p1", Content: "root", CreatedAt: now},
		// Siblings arrive newest first and out of ID order on purpose.
		{ID: 4, PostID: "p1", ParentID: uintPtr(1), CreatedAt: now.Add(3 * time.Minute)},
		{ID: 2, PostID: "p1", ParentID: uintPtr(1), CreatedAt: now.Add(1 * time.Minute)},
		{ID: 3, PostID: "p1", ParentID: uintPtr(1), CreatedAt: now.Add(2 * time.Minute)},
	}

	roots := BuildCommentTree(comments)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 3)
	for i, want := range []uint{2, 3, 4} {
		assert.Equal(t, want, roots[0].Replies[i].ID)
	}
}

func TestBuildCommentTree_ShuffledInputKeepsShape(t *testing.T) {
	comments := flatComments(time.Now())
	rng := rand.New(rand.NewSource(1))

	treeIDs := func(roots []*Comment) []uint {
		var out []uint
		var walk func(nodes []*Comment)
		walk = func(nodes []*Comment) {
			for _, node := range nodes {
				out = append(out, node.ID)
				walk(node.Replies)
			}
		}
		walk(roots)
		return out
	}
	want := treeIDs(BuildCommentTree(comments))
	require.Len(t, want, len(comments))

	for i := 0; i < 20; i++ {
		shuffled := make([]Comment, len(comments))
		copy(shuffled, comments)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		roots := BuildCommentTree(shuffled)
		assert.Equal(t, len(comments), CountCommentTree(roots))
		assert.Equal(t, want, treeIDs(roots))
	}
}

func TestBuildCommentTree_Empty(t *testing.T) {
	assert.Empty(t, BuildCommentTree(nil))
	assert.Empty(t, BuildCommentTree([]Comment{}))
}
