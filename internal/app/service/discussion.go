package service

import (
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/pkg/util"
)

// TallyReactions counts likes/dislikes per content id and picks out the viewer's own vote.
// viewerID 0 means anonymous.
func TallyReactions(votes []model.ReactionVote, viewerID uint) map[uint]model.ReactionSummary {
	tallies := make(map[uint]model.ReactionSummary)
	for _, v := range votes {
		s := tallies[v.ContentID]
		s.ContentID = v.ContentID
		switch v.Value {
		case model.ReactionLike:
			s.Likes++
		case model.ReactionDislike:
			s.Dislikes++
		}
		if viewerID != 0 && v.UserID == viewerID {
			s.MyReaction = v.Value
			s.MyType = v.Value.Type()
		}
		tallies[v.ContentID] = s
	}
	return tallies
}

func summaryFor(tallies map[uint]model.ReactionSummary, id uint) model.ReactionSummary {
	s := tallies[id]
	s.ContentID = id
	return s
}

// toCommentNode 삭제된 댓글은 작성자/본문 마스킹
func toCommentNode(c model.ChapterComment, tally model.ReactionSummary) model.CommentNode {
	node := model.CommentNode{
		ID:         c.ID,
		ChapterID:  c.ChapterID,
		ParentID:   c.ParentID,
		UserID:     c.UserID,
		Content:    c.Content,
		IsDeleted:  c.IsDeleted,
		Likes:      tally.Likes,
		Dislikes:   tally.Dislikes,
		MyReaction: tally.MyReaction,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Replies:    []model.CommentNode{},
	}
	if c.User != nil {
		node.UserName = c.User.DisplayName
	}
	if c.IsDeleted {
		node.UserID = 0
		node.UserName = model.DeletedCommentAuthor
		node.Content = model.DeletedCommentContent
	}
	return node
}

type commentArena struct {
	nodes    map[uint]model.CommentNode
	children map[uint][]uint
	visited  map[uint]bool
}

func (a *commentArena) materialize(id uint) model.CommentNode {
	a.visited[id] = true
	node := a.nodes[id]
	node.Replies = []model.CommentNode{}
	for _, child := range a.children[id] {
		if a.visited[child] {
			continue
		}
		node.Replies = append(node.Replies, a.materialize(child))
	}
	return node
}

// BuildCommentTree turns flat rows (in creation order) into root nodes with nested replies.
// Rows whose parent is missing become roots. Rows caught in a parent cycle are not reachable
// from any root; they are emitted as extra roots so no comment is lost.
func BuildCommentTree(comments []model.ChapterComment, tallies map[uint]model.ReactionSummary) []model.CommentNode {
	arena := &commentArena{
		nodes:    make(map[uint]model.CommentNode, len(comments)),
		children: make(map[uint][]uint, len(comments)),
		visited:  make(map[uint]bool, len(comments)),
	}
	order := make([]uint, 0, len(comments))
	for _, c := range comments {
		if _, dup := arena.nodes[c.ID]; dup {
			continue
		}
		arena.nodes[c.ID] = toCommentNode(c, summaryFor(tallies, c.ID))
		order = append(order, c.ID)
	}

	var rootIDs []uint
	for _, id := range order {
		parentID := arena.nodes[id].ParentID
		if parentID == nil || *parentID == id {
			rootIDs = append(rootIDs, id)
			continue
		}
		if _, ok := arena.nodes[*parentID]; !ok {
			rootIDs = append(rootIDs, id)
			continue
		}
		arena.children[*parentID] = append(arena.children[*parentID], id)
	}

	roots := make([]model.CommentNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, arena.materialize(id))
	}
	for _, id := range order {
		if !arena.visited[id] {
			roots = append(roots, arena.materialize(id))
		}
	}
	return roots
}

// CalculateOverallRating averages the four positive categories (clamped to 0..5) with the
// inverted emotional damage (clamped to 1..5, scored as 6-v), rounded to one decimal.
func CalculateOverallRating(characterAccuracy, chemistryRelationships, plotCreativity, canonIntegration, emotionalDamage int) float64 {
	sum := util.ClampInt(characterAccuracy, 0, 5) +
		util.ClampInt(chemistryRelationships, 0, 5) +
		util.ClampInt(plotCreativity, 0, 5) +
		util.ClampInt(canonIntegration, 0, 5) +
		(6 - util.ClampInt(emotionalDamage, 1, 5))
	return util.RoundTo(float64(sum)/5.0, 1)
}
