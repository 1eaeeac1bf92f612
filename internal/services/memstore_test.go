package services

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/kjiyu/devlog/backend/internal/models"
	"github.com/kjiyu/devlog/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the Mongo repositories. They emulate the same
// targeted mutations the real implementations issue ($addToSet, $pull,
// $inc, the like-set toggle) so the services can be exercised without a
// database.

type fakePostRepo struct {
	posts map[string]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]models.Post)}
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	r.posts[post.ID.Hex()] = *post
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, id)
	}
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := post
	return &copied, nil
}

func (r *fakePostRepo) FindAll(_ context.Context) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	return posts, nil
}

func (r *fakePostRepo) FindByCategory(_ context.Context, categoryID string) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range r.posts {
		if p.Category != nil && p.Category.Hex() == categoryID {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	return posts, nil
}

func (r *fakePostRepo) Update(_ context.Context, id string, post *models.Post) error {
	existing, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	existing.Title = post.Title
	existing.Contents = post.Contents
	existing.PreviewContents = post.PreviewContents
	existing.FileURL = post.FileURL
	existing.Date = post.Date
	r.posts[id] = existing
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) IncrementViews(_ context.Context, id string) error {
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	post.Views++
	r.posts[id] = post
	return nil
}

func (r *fakePostRepo) ToggleLike(_ context.Context, postID, userID string) (*models.Post, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, userID)
	}
	post, ok := r.posts[postID]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	likes := post.Likes[:0:0]
	found := false
	for _, id := range post.Likes {
		if id == userObjID {
			found = true
			continue
		}
		likes = append(likes, id)
	}
	if !found {
		likes = append(likes, userObjID)
	}
	post.Likes = likes
	post.LikesCount = len(likes)
	r.posts[postID] = post
	copied := post
	return &copied, nil
}

func (r *fakePostRepo) SetCategory(_ context.Context, postID, categoryID string) error {
	catObjID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, categoryID)
	}
	post, ok := r.posts[postID]
	if !ok {
		return nil
	}
	post.Category = &catObjID
	r.posts[postID] = post
	return nil
}

func (r *fakePostRepo) AddComment(_ context.Context, postID, commentID string) error {
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, commentID)
	}
	post, ok := r.posts[postID]
	if !ok {
		return nil
	}
	post.Comments = append(post.Comments, commentObjID)
	r.posts[postID] = post
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]models.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	if category.Posts == nil {
		category.Posts = []primitive.ObjectID{}
	}
	r.categories[category.ID.Hex()] = *category
	return nil
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			copied := c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id string) (*models.Category, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, id)
	}
	category, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := category
	return &copied, nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) AddPost(_ context.Context, categoryID, postID string) error {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, postID)
	}
	category, ok := r.categories[categoryID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, id := range category.Posts {
		if id == postObjID {
			return nil
		}
	}
	category.Posts = append(category.Posts, postObjID)
	r.categories[categoryID] = category
	return nil
}

func (r *fakeCategoryRepo) RemovePost(_ context.Context, postID string) (*models.Category, error) {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, postID)
	}
	for key, category := range r.categories {
		for i, id := range category.Posts {
			if id == postObjID {
				category.Posts = append(category.Posts[:i:i], category.Posts[i+1:]...)
				r.categories[key] = category
				copied := category
				return &copied, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	if user.Comments == nil {
		user.Comments = []models.UserCommentRef{}
	}
	r.users[user.ID.Hex()] = *user
	return nil
}

func (r *fakeUserRepo) FindByLogin(_ context.Context, login string) (*models.User, error) {
	for _, u := range r.users {
		if u.Login == login {
			copied := u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) AddPost(_ context.Context, userID, postID string) error {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, postID)
	}
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	for _, id := range user.Posts {
		if id == postObjID {
			return nil
		}
	}
	user.Posts = append(user.Posts, postObjID)
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) AddCommentRef(_ context.Context, userID, postID, commentID string) error {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, postID)
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, commentID)
	}
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	user.Comments = append(user.Comments, models.UserCommentRef{PostID: postObjID, CommentID: commentObjID})
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) RemovePostRefs(_ context.Context, userID, postID string) error {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, postID)
	}
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	posts := user.Posts[:0:0]
	for _, id := range user.Posts {
		if id != postObjID {
			posts = append(posts, id)
		}
	}
	comments := user.Comments[:0:0]
	for _, ref := range user.Comments {
		if ref.PostID != postObjID {
			comments = append(comments, ref)
		}
	}
	user.Posts = posts
	user.Comments = comments
	r.users[userID] = user
	return nil
}

type fakeCommentRepo struct {
	comments map[string]models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]models.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	r.comments[comment.ID.Hex()] = *comment
	return nil
}

func (r *fakeCommentRepo) FindByPost(_ context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range r.comments {
		if c.PostID.Hex() == postID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].Date.Before(comments[j].Date) })
	return comments, nil
}

func (r *fakeCommentRepo) DeleteByPost(_ context.Context, postID string) (int64, error) {
	var deleted int64
	for key, c := range r.comments {
		if c.PostID.Hex() == postID {
			delete(r.comments, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeVisitorRepo struct {
	visitor *models.Visitor
}

func (r *fakeVisitorRepo) Find(_ context.Context) (*models.Visitor, error) {
	if r.visitor == nil {
		return nil, repositories.ErrNotFound
	}
	copied := *r.visitor
	return &copied, nil
}

func (r *fakeVisitorRepo) IncrementViews(_ context.Context) (*models.Visitor, error) {
	if r.visitor == nil {
		return nil, repositories.ErrNotFound
	}
	r.visitor.Views++
	copied := *r.visitor
	return &copied, nil
}

func (r *fakeVisitorRepo) EnsureSeed(_ context.Context) error {
	if r.visitor == nil {
		r.visitor = &models.Visitor{ID: primitive.NewObjectID()}
	}
	return nil
}

// testEnv wires the services over the fakes the way the router wires them
// over Mongo.
type testEnv struct {
	posts      *fakePostRepo
	categories *fakeCategoryRepo
	users      *fakeUserRepo
	comments   *fakeCommentRepo
	visitors   *fakeVisitorRepo

	integrity *IntegrityService
	postSvc   *PostService
	counter   *CounterService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		posts:      newFakePostRepo(),
		categories: newFakeCategoryRepo(),
		users:      newFakeUserRepo(),
		comments:   newFakeCommentRepo(),
		visitors:   &fakeVisitorRepo{},
	}
	env.integrity = NewIntegrityService(env.posts, env.categories, env.users, env.comments)
	env.postSvc = NewPostService(env.posts, env.categories, env.users, env.comments, env.visitors, env.integrity)
	env.counter = NewCounterService(env.visitors)
	return env
}

func (e *testEnv) createUser(t *testing.T, login string) *models.User {
	t.Helper()
	user := &models.User{Login: login, Name: login, RegisterDate: time.Now()}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) createPost(t *testing.T, creator *models.User, title, category string) *models.Post {
	t.Helper()
	post, err := e.postSvc.CreatePost(context.Background(), creator.ID.Hex(), &models.CreatePostRequest{
		Title:    title,
		Contents: "contents of " + title,
		Category: category,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

// setDate pins a stored post's date so ordering tests don't depend on
// clock resolution.
func (e *testEnv) setDate(t *testing.T, postID string, date time.Time) {
	t.Helper()
	post, ok := e.posts.posts[postID]
	if !ok {
		t.Fatalf("post %s not stored", postID)
	}
	post.Date = date
	e.posts.posts[postID] = post
}
