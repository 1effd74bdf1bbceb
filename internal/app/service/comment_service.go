package service

import (
	"errors"
	"strings"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCommentAccessDenied = errors.New("comment access denied")
	ErrCommentDeleted      = errors.New("comment has been deleted")
	ErrInvalidParent       = errors.New("parent comment does not belong to this chapter")
	ErrEmptyContent        = errors.New("content must not be empty")
	ErrInvalidReaction     = errors.New("invalid reaction")
)

// CommentPublisher fans comment events out to live listeners
type CommentPublisher interface {
	Publish(event model.CommentEvent)
}

type CommentService interface {
	ListTree(chapterID, viewerID uint) ([]model.CommentNode, error)
	Create(caller model.Caller, chapterID uint, input model.CommentInput) (*model.CommentNode, error)
	Update(caller model.Caller, id uint, input model.CommentUpdateInput) (*model.CommentNode, error)
	Delete(caller model.Caller, id uint) (int, error)
	React(caller model.Caller, id uint, value model.ReactionValue) (*model.ReactionSummary, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	chapters    ChapterService
	bookRepo    repository.BookRepository
	publisher   CommentPublisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	chapters ChapterService,
	bookRepo repository.BookRepository,
	publisher CommentPublisher,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		chapters:    chapters,
		bookRepo:    bookRepo,
		publisher:   publisher,
	}
}

func (s *commentService) publish(event model.CommentEvent) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

func (s *commentService) ListTree(chapterID, viewerID uint) ([]model.CommentNode, error) {
	if _, err := s.chapters.Get(chapterID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByChapter(chapterID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	votes, err := s.commentRepo.ListReactions(ids)
	if err != nil {
		return nil, err
	}

	return BuildCommentTree(comments, TallyReactions(votes, viewerID)), nil
}

func (s *commentService) findComment(id uint) (*model.ChapterComment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// singleNode 단일 댓글을 반응 집계와 함께 노드로 변환
func (s *commentService) singleNode(comment *model.ChapterComment, viewerID uint) (*model.CommentNode, error) {
	votes, err := s.commentRepo.ListReactions([]uint{comment.ID})
	if err != nil {
		return nil, err
	}
	node := toCommentNode(*comment, summaryFor(TallyReactions(votes, viewerID), comment.ID))
	return &node, nil
}

func (s *commentService) Create(caller model.Caller, chapterID uint, input model.CommentInput) (*model.CommentNode, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.chapters.Get(chapterID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.findComment(*input.ParentID)
		if err != nil {
			if errors.Is(err, ErrCommentNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if parent.ChapterID != chapterID {
			return nil, ErrInvalidParent
		}
		if parent.IsDeleted {
			return nil, ErrCommentDeleted
		}
	}

	comment := &model.ChapterComment{
		ChapterID: chapterID,
		UserID:    caller.UserID,
		Content:   content,
		ParentID:  input.ParentID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	stored, err := s.findComment(comment.ID)
	if err != nil {
		return nil, err
	}
	node := toCommentNode(*stored, model.ReactionSummary{ContentID: stored.ID})

	logger.Info("Chapter comment created", map[string]interface{}{
		"comment_id": node.ID,
		"chapter_id": chapterID,
		"user_id":    caller.UserID,
		"parent_id":  input.ParentID,
	})
	s.publish(model.CommentEvent{Type: model.CommentEventCreated, ChapterID: chapterID, Comment: &node})
	return &node, nil
}

func (s *commentService) Update(caller model.Caller, id uint, input model.CommentUpdateInput) (*model.CommentNode, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != caller.UserID {
		return nil, ErrCommentAccessDenied
	}
	if comment.IsDeleted {
		return nil, ErrCommentDeleted
	}

	if err := s.commentRepo.UpdateContent(id, content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentDeleted
		}
		return nil, err
	}

	updated, err := s.findComment(id)
	if err != nil {
		return nil, err
	}
	node, err := s.singleNode(updated, caller.UserID)
	if err != nil {
		return nil, err
	}
	s.publish(model.CommentEvent{Type: model.CommentEventUpdated, ChapterID: updated.ChapterID, Comment: node})
	return node, nil
}

// canDeleteComment 작성자, 관리자, 작품 작가
func (s *commentService) canDeleteComment(caller model.Caller, comment *model.ChapterComment) (bool, error) {
	if caller.IsAdmin() || (caller.UserID != 0 && comment.UserID == caller.UserID) {
		return true, nil
	}
	chapter, err := s.chapters.Get(comment.ChapterID)
	if err != nil {
		return false, err
	}
	book, err := s.bookRepo.FindByID(chapter.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return canManageBook(caller, book), nil
}

// Delete 하위 댓글까지 삭제 표시, 표시된 댓글 수 반환
func (s *commentService) Delete(caller model.Caller, id uint) (int, error) {
	comment, err := s.findComment(id)
	if err != nil {
		return 0, err
	}
	allowed, err := s.canDeleteComment(caller, comment)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return 0, ErrCommentAccessDenied
	}

	marked, err := s.commentRepo.SoftDeleteCascade(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCommentNotFound
		}
		return 0, err
	}
	commentsDeleted.Add(float64(len(marked)))

	logger.Info("Chapter comment deleted", map[string]interface{}{
		"comment_id": id,
		"user_id":    caller.UserID,
		"affected":   len(marked),
	})
	s.publish(model.CommentEvent{Type: model.CommentEventDeleted, ChapterID: comment.ChapterID, CommentIDs: marked})
	return len(marked), nil
}

func (s *commentService) React(caller model.Caller, id uint, value model.ReactionValue) (*model.ReactionSummary, error) {
	if !value.Valid() {
		return nil, ErrInvalidReaction
	}
	comment, err := s.findComment(id)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, ErrCommentDeleted
	}

	result, err := s.commentRepo.ToggleReaction(id, caller.UserID, value)
	if err != nil {
		return nil, err
	}
	reactionToggles.WithLabelValues("comment", reactionResultLabel(int8(result))).Inc()

	votes, err := s.commentRepo.ListReactions([]uint{id})
	if err != nil {
		return nil, err
	}
	summary := summaryFor(TallyReactions(votes, caller.UserID), id)
	summary.MyReaction = result
	summary.MyType = result.Type()
	return &summary, nil
}
