package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post dates are stamped in Korean Standard Time.
var kst = time.FixedZone("KST", 9*60*60)

func now() time.Time {
	return time.Now().In(kst)
}

// IntegrityService keeps the denormalized Post/Category/User/Comment
// reference graph consistent. Every multi-entity change goes through here:
// each sub-step is a targeted, idempotent store update ($addToSet, $pull,
// DeleteMany), so a sequence that fails halfway can be re-run and converges
// to the same end state instead of needing a transaction.
type IntegrityService struct {
	postRepository     repositories.PostRepository
	categoryRepository repositories.CategoryRepository
	userRepository     repositories.UserRepository
	commentRepository  repositories.CommentRepository
}

// NewIntegrityService creates a new IntegrityService
func NewIntegrityService(
	postRepo repositories.PostRepository,
	categoryRepo repositories.CategoryRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
) *IntegrityService {
	return &IntegrityService{
		postRepository:     postRepo,
		categoryRepository: categoryRepo,
		userRepository:     userRepo,
		commentRepository:  commentRepo,
	}
}

// AttachCategory links a freshly created post to its category, creating the
// category on first use of the name, and records the post on its creator.
// Name matching is case-sensitive exact match. Any store failure aborts the
// remaining steps.
func (s *IntegrityService) AttachCategory(ctx context.Context, post *models.Post, categoryName string) error {
	category, err := s.categoryRepository.FindByName(ctx, categoryName)
	if errors.Is(err, repositories.ErrNotFound) {
		category = &models.Category{Name: categoryName}
		if err := s.categoryRepository.Create(ctx, category); err != nil {
			return fmt.Errorf("create category %q: %w", categoryName, err)
		}
	} else if err != nil {
		return fmt.Errorf("find category %q: %w", categoryName, err)
	}

	if err := s.categoryRepository.AddPost(ctx, category.ID.Hex(), post.ID.Hex()); err != nil {
		return fmt.Errorf("add post to category: %w", err)
	}
	if err := s.postRepository.SetCategory(ctx, post.ID.Hex(), category.ID.Hex()); err != nil {
		return fmt.Errorf("set post category: %w", err)
	}
	if err := s.userRepository.AddPost(ctx, post.Creator.Hex(), post.ID.Hex()); err != nil {
		return fmt.Errorf("add post to user: %w", err)
	}
	catID := category.ID
	post.Category = &catID
	return nil
}

// DetachCategory removes the post from its category's list and deletes the
// category if that left it empty. Emptiness is judged on the list returned
// by the removal write itself, never on a previously loaded copy. Safe to
// call on a post with no category.
func (s *IntegrityService) DetachCategory(ctx context.Context, post *models.Post) error {
	if post.Category == nil {
		return nil
	}

	category, err := s.categoryRepository.RemovePost(ctx, post.ID.Hex())
	if errors.Is(err, repositories.ErrNotFound) {
		// already detached
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove post from category: %w", err)
	}

	if len(category.Posts) == 0 {
		if err := s.categoryRepository.Delete(ctx, category.ID.Hex()); err != nil {
			return fmt.Errorf("delete empty category %q: %w", category.Name, err)
		}
	}
	return nil
}

// CascadeDeletePost removes a post together with everything that refers to
// it: its comments, the back-references on its creator, its category slot
// (garbage-collecting the category if it empties), and finally the post
// record itself. A failure aborts the remaining steps; the completed ones
// are idempotent, so the cascade can be retried.
func (s *IntegrityService) CascadeDeletePost(ctx context.Context, post *models.Post) error {
	postID := post.ID.Hex()

	if _, err := s.commentRepository.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("delete comments of post: %w", err)
	}
	if err := s.userRepository.RemovePostRefs(ctx, post.Creator.Hex(), postID); err != nil {
		return fmt.Errorf("remove user references: %w", err)
	}
	if err := s.DetachCategory(ctx, post); err != nil {
		return err
	}
	if err := s.postRepository.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// AddComment creates a comment and makes it visible from both sides: the
// post's comment list and the author's {post, comment} pairs.
func (s *IntegrityService) AddComment(ctx context.Context, post *models.Post, authorID, authorName, contents string) (*models.Comment, error) {
	creator, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, authorID)
	}

	comment := &models.Comment{
		Contents:    contents,
		Creator:     creator,
		CreatorName: authorName,
		PostID:      post.ID,
		Date:        now(),
	}
	if err := s.commentRepository.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if err := s.postRepository.AddComment(ctx, post.ID.Hex(), comment.ID.Hex()); err != nil {
		return nil, fmt.Errorf("add comment to post: %w", err)
	}
	if err := s.userRepository.AddCommentRef(ctx, authorID, post.ID.Hex(), comment.ID.Hex()); err != nil {
		return nil, fmt.Errorf("add comment to user: %w", err)
	}
	return comment, nil
}

// ToggleLike flips the user's like on the post. Calling it twice with the
// same user restores the original like set and count. The flip happens as a
// single atomic set-mutation at the store.
func (s *IntegrityService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.postRepository.ToggleLike(ctx, postID, userID)
}
