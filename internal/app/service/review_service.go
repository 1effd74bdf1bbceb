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
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewAccessDenied = errors.New("review access denied")
	ErrInvalidScore       = errors.New("review scores out of range")
	ErrReplyNotFound      = errors.New("reply not found")
	ErrReplyAccessDenied  = errors.New("reply access denied")
)

type ReviewService interface {
	ListByBook(bookID, viewerID uint) ([]model.ReviewView, error)
	Upsert(caller model.Caller, bookID uint, input model.ReviewInput) (*model.ReviewView, bool, error)
	Delete(caller model.Caller, id uint) error
	React(caller model.Caller, reviewID uint, value model.ReactionValue) (*model.ReactionSummary, error)
	CreateReply(caller model.Caller, reviewID uint, input model.ReplyInput) (*model.ReplyView, error)
	UpdateReply(caller model.Caller, replyID uint, input model.ReplyInput) (*model.ReplyView, error)
	DeleteReply(caller model.Caller, replyID uint) error
	ReactToReply(caller model.Caller, replyID uint, value model.ReactionValue) (*model.ReactionSummary, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

func displayName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}

func toReplyView(r model.ReviewReply, tally model.ReactionSummary) model.ReplyView {
	return model.ReplyView{
		ID:         r.ID,
		ReviewID:   r.ReviewID,
		UserID:     r.UserID,
		UserName:   displayName(r.User),
		Content:    r.Content,
		Likes:      tally.Likes,
		Dislikes:   tally.Dislikes,
		MyReaction: tally.MyType,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toReviewView(r model.Review, tally model.ReactionSummary, replies []model.ReplyView) model.ReviewView {
	if replies == nil {
		replies = []model.ReplyView{}
	}
	return model.ReviewView{
		ID:                     r.ID,
		BookID:                 r.BookID,
		UserID:                 r.UserID,
		UserName:               displayName(r.User),
		CharacterAccuracy:      r.CharacterAccuracy,
		ChemistryRelationships: r.ChemistryRelationships,
		PlotCreativity:         r.PlotCreativity,
		CanonIntegration:       r.CanonIntegration,
		EmotionalDamage:        r.EmotionalDamage,
		Rating:                 r.Rating,
		Content:                r.Content,
		Likes:                  tally.Likes,
		Dislikes:               tally.Dislikes,
		MyReaction:             tally.MyType,
		Replies:                replies,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func (s *reviewService) ensureBook(bookID uint) error {
	if _, err := s.bookRepo.FindByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}

// assemble 리뷰 목록에 답글과 반응 집계를 붙임
func (s *reviewService) assemble(reviews []model.Review, viewerID uint) ([]model.ReviewView, error) {
	reviewIDs := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		reviewIDs = append(reviewIDs, r.ID)
	}

	reviewVotes, err := s.reviewRepo.ListReviewReactions(reviewIDs)
	if err != nil {
		return nil, err
	}
	replies, err := s.reviewRepo.ListReplies(reviewIDs)
	if err != nil {
		return nil, err
	}
	replyIDs := make([]uint, 0, len(replies))
	for _, r := range replies {
		replyIDs = append(replyIDs, r.ID)
	}
	replyVotes, err := s.reviewRepo.ListReplyReactions(replyIDs)
	if err != nil {
		return nil, err
	}

	reviewTallies := TallyReactions(reviewVotes, viewerID)
	replyTallies := TallyReactions(replyVotes, viewerID)

	byReview := make(map[uint][]model.ReplyView, len(reviews))
	for _, r := range replies {
		byReview[r.ReviewID] = append(byReview[r.ReviewID], toReplyView(r, summaryFor(replyTallies, r.ID)))
	}

	views := make([]model.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, toReviewView(r, summaryFor(reviewTallies, r.ID), byReview[r.ID]))
	}
	return views, nil
}

func (s *reviewService) ListByBook(bookID, viewerID uint) ([]model.ReviewView, error) {
	if err := s.ensureBook(bookID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByBook(bookID)
	if err != nil {
		return nil, err
	}
	return s.assemble(reviews, viewerID)
}

func validScores(in model.ReviewInput) bool {
	for _, v := range []int{in.CharacterAccuracy, in.ChemistryRelationships, in.PlotCreativity, in.CanonIntegration} {
		if v < 0 || v > 5 {
			return false
		}
	}
	return in.EmotionalDamage >= 1 && in.EmotionalDamage <= 5
}

// Upsert 사용자당 작품별 리뷰 하나, 두 번째 반환값은 신규 생성 여부
func (s *reviewService) Upsert(caller model.Caller, bookID uint, input model.ReviewInput) (*model.ReviewView, bool, error) {
	if !validScores(input) {
		return nil, false, ErrInvalidScore
	}
	if err := s.ensureBook(bookID); err != nil {
		return nil, false, err
	}

	review := &model.Review{
		BookID:                 bookID,
		UserID:                 caller.UserID,
		CharacterAccuracy:      input.CharacterAccuracy,
		ChemistryRelationships: input.ChemistryRelationships,
		PlotCreativity:         input.PlotCreativity,
		CanonIntegration:       input.CanonIntegration,
		EmotionalDamage:        input.EmotionalDamage,
		Content:                strings.TrimSpace(input.Content),
	}
	review.Rating = CalculateOverallRating(
		review.CharacterAccuracy,
		review.ChemistryRelationships,
		review.PlotCreativity,
		review.CanonIntegration,
		review.EmotionalDamage,
	)

	created, err := s.reviewRepo.Upsert(review)
	if err != nil {
		return nil, false, err
	}

	logger.Info("Review saved", map[string]interface{}{
		"review_id": review.ID,
		"book_id":   bookID,
		"user_id":   caller.UserID,
		"rating":    review.Rating,
		"created":   created,
	})

	stored, err := s.reviewRepo.FindByID(review.ID)
	if err != nil {
		return nil, false, err
	}
	views, err := s.assemble([]model.Review{*stored}, caller.UserID)
	if err != nil {
		return nil, false, err
	}
	return &views[0], created, nil
}

func (s *reviewService) findReview(id uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Delete 작성자 또는 관리자
func (s *reviewService) Delete(caller model.Caller, id uint) error {
	review, err := s.findReview(id)
	if err != nil {
		return err
	}
	if review.UserID != caller.UserID && !caller.IsAdmin() {
		return ErrReviewAccessDenied
	}

	if err := s.reviewRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func reactionSummary(votes []model.ReactionVote, contentID, viewerID uint, result model.ReactionValue) *model.ReactionSummary {
	summary := summaryFor(TallyReactions(votes, viewerID), contentID)
	summary.MyReaction = result
	summary.MyType = result.Type()
	return &summary
}

func (s *reviewService) React(caller model.Caller, reviewID uint, value model.ReactionValue) (*model.ReactionSummary, error) {
	if !value.Valid() {
		return nil, ErrInvalidReaction
	}
	if _, err := s.findReview(reviewID); err != nil {
		return nil, err
	}

	result, err := s.reviewRepo.ToggleReviewReaction(reviewID, caller.UserID, value)
	if err != nil {
		return nil, err
	}
	reactionToggles.WithLabelValues("review", reactionResultLabel(int8(result))).Inc()

	votes, err := s.reviewRepo.ListReviewReactions([]uint{reviewID})
	if err != nil {
		return nil, err
	}
	return reactionSummary(votes, reviewID, caller.UserID, result), nil
}

func (s *reviewService) findReply(id uint) (*model.ReviewReply, error) {
	reply, err := s.reviewRepo.FindReplyByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReplyNotFound
		}
		return nil, err
	}
	return reply, nil
}

func (s *reviewService) CreateReply(caller model.Caller, reviewID uint, input model.ReplyInput) (*model.ReplyView, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.findReview(reviewID); err != nil {
		return nil, err
	}

	reply := &model.ReviewReply{ReviewID: reviewID, UserID: caller.UserID, Content: content}
	if err := s.reviewRepo.CreateReply(reply); err != nil {
		return nil, err
	}

	stored, err := s.findReply(reply.ID)
	if err != nil {
		return nil, err
	}
	view := toReplyView(*stored, model.ReactionSummary{ContentID: stored.ID})
	return &view, nil
}

func (s *reviewService) UpdateReply(caller model.Caller, replyID uint, input model.ReplyInput) (*model.ReplyView, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	reply, err := s.findReply(replyID)
	if err != nil {
		return nil, err
	}
	if reply.UserID != caller.UserID {
		return nil, ErrReplyAccessDenied
	}

	if err := s.reviewRepo.UpdateReply(replyID, content); err != nil {
		return nil, err
	}
	updated, err := s.findReply(replyID)
	if err != nil {
		return nil, err
	}
	votes, err := s.reviewRepo.ListReplyReactions([]uint{replyID})
	if err != nil {
		return nil, err
	}
	view := toReplyView(*updated, summaryFor(TallyReactions(votes, caller.UserID), replyID))
	return &view, nil
}

func (s *reviewService) DeleteReply(caller model.Caller, replyID uint) error {
	reply, err := s.findReply(replyID)
	if err != nil {
		return err
	}
	if reply.UserID != caller.UserID && !caller.IsAdmin() {
		return ErrReplyAccessDenied
	}
	if err := s.reviewRepo.DeleteReply(replyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReplyNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) ReactToReply(caller model.Caller, replyID uint, value model.ReactionValue) (*model.ReactionSummary, error) {
	if !value.Valid() {
		return nil, ErrInvalidReaction
	}
	if _, err := s.findReply(replyID); err != nil {
		return nil, err
	}

	result, err := s.reviewRepo.ToggleReplyReaction(replyID, caller.UserID, value)
	if err != nil {
		return nil, err
	}
	reactionToggles.WithLabelValues("reply", reactionResultLabel(int8(result))).Inc()

	votes, err := s.reviewRepo.ListReplyReactions([]uint{replyID})
	if err != nil {
		return nil, err
	}
	return reactionSummary(votes, replyID, caller.UserID, result), nil
}
