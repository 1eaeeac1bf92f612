package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryAll is the sentinel list selector meaning "every post".
const CategoryAll = "all"

// ErrUnauthorized is returned when an operation that needs an acting user
// is called without one.
var ErrUnauthorized = errors.New("authentication required")

// PostService drives the post lifecycle: publish, view, edit, like, delete.
// Every created post is immediately visible; there is no draft state.
// Cross-entity bookkeeping is delegated to the IntegrityService.
type PostService struct {
	postRepository     repositories.PostRepository
	categoryRepository repositories.CategoryRepository
	userRepository     repositories.UserRepository
	commentRepository  repositories.CommentRepository
	visitorRepository  repositories.VisitorRepository
	integrity          *IntegrityService
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.PostRepository,
	categoryRepo repositories.CategoryRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	visitorRepo repositories.VisitorRepository,
	integrity *IntegrityService,
) *PostService {
	return &PostService{
		postRepository:     postRepo,
		categoryRepository: categoryRepo,
		userRepository:     userRepo,
		commentRepository:  commentRepo,
		visitorRepository:  visitorRepo,
		integrity:          integrity,
	}
}

// CreatePost persists a new post and wires it into its category and creator.
func (s *PostService) CreatePost(ctx context.Context, creatorID string, req *models.CreatePostRequest) (*models.Post, error) {
	creator, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, creatorID)
	}

	post := &models.Post{
		Title:           req.Title,
		Contents:        req.Contents,
		PreviewContents: req.PreviewContents,
		FileURL:         req.FileURL,
		Creator:         creator,
		Date:            now(),
	}
	if err := s.postRepository.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if err := s.integrity.AttachCategory(ctx, post, req.Category); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPostDetail returns a post with creator and category names resolved.
// Every successful read counts as a view: the stored counter is bumped by
// exactly one via an atomic increment before the post is loaded.
func (s *PostService) GetPostDetail(ctx context.Context, postID string) (*models.PostDetail, error) {
	if err := s.postRepository.IncrementViews(ctx, postID); err != nil {
		return nil, err
	}

	post, err := s.postRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	detail := &models.PostDetail{Post: *post}
	if creator, err := s.userRepository.FindByID(ctx, post.Creator.Hex()); err == nil {
		detail.CreatorName = creator.Name
	}
	if post.Category != nil {
		if category, err := s.categoryRepository.FindByID(ctx, post.Category.Hex()); err == nil {
			detail.CategoryName = category.Name
		}
	}
	return detail, nil
}

// EditPost updates the content fields and the timestamp of a post. Category
// and creator are never touched by an edit.
func (s *PostService) EditPost(ctx context.Context, postID string, req *models.EditPostRequest) (*models.Post, error) {
	post := &models.Post{
		Title:           req.Title,
		Contents:        req.Contents,
		PreviewContents: req.PreviewContents,
		FileURL:         req.FileURL,
		Date:            now(),
	}
	if err := s.postRepository.Update(ctx, postID, post); err != nil {
		return nil, err
	}
	return s.postRepository.FindByID(ctx, postID)
}

// DeletePost cascade-deletes a post. The acting user only needs to be
// authenticated; ownership is not checked.
func (s *PostService) DeletePost(ctx context.Context, postID, actingUserID string) error {
	if actingUserID == "" {
		return ErrUnauthorized
	}
	post, err := s.postRepository.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	return s.integrity.CascadeDeletePost(ctx, post)
}

// ToggleLike likes or unlikes a post for the given user and returns the
// updated post.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.integrity.ToggleLike(ctx, postID, userID)
}

// ListPosts returns the posts of one category, or all posts when the "all"
// sentinel is given, newest first, together with every category and the
// visit counter for the sidebar.
func (s *PostService) ListPosts(ctx context.Context, categoryID string) (*models.PostList, error) {
	var posts []models.Post
	var err error

	if categoryID == CategoryAll {
		posts, err = s.postRepository.FindAll(ctx)
	} else {
		if _, err := s.categoryRepository.FindByID(ctx, categoryID); err != nil {
			return nil, err
		}
		posts, err = s.postRepository.FindByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	visitor, err := s.visitorRepository.Find(ctx)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	return &models.PostList{
		Posts:      posts,
		Categories: categories,
		PostCount:  len(posts),
		Visitors:   visitor,
		Selected:   categoryID,
	}, nil
}

// AddComment records a comment on a post after verifying the post exists.
func (s *PostService) AddComment(ctx context.Context, postID string, req *models.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.postRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.integrity.AddComment(ctx, post, req.UserID, req.UserName, req.Contents)
}

// ListComments returns the comments of a post in posting order.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.postRepository.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepository.FindByPost(ctx, postID)
}
