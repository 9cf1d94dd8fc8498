package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kmsblog/blogapi/modules/posts"
)

// PostStore persists posts in the "posts" collection.
type PostStore struct {
	col *mongo.Collection
}

// NewPostStore creates the post store over db.
func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection("posts")}
}

type postDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Title     string        `bson:"title"`
	Summary   string        `bson:"summary"`
	Content   string        `bson:"content"`
	Cover     string        `bson:"cover,omitempty"`
	Author    string        `bson:"author"`
	AuthorID  string        `bson:"authorId"`
	Likes     []string      `bson:"likes"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d postDoc) toDomain() posts.Post {
	likes := d.Likes
	if likes == nil {
		likes = []string{}
	}
	return posts.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Summary:   d.Summary,
		Content:   d.Content,
		Cover:     d.Cover,
		Author:    d.Author,
		AuthorID:  d.AuthorID,
		Likes:     likes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CreatePost inserts the post and fills in its generated id.
func (s *PostStore) CreatePost(ctx context.Context, post *posts.Post) error {
	doc := postDoc{
		Title:     post.Title,
		Summary:   post.Summary,
		Content:   post.Content,
		Cover:     post.Cover,
		Author:    post.Author,
		AuthorID:  post.AuthorID,
		Likes:     post.Likes,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if doc.Likes == nil {
		doc.Likes = []string{}
	}

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("insert post: unexpected id type %T", res.InsertedID)
	}
	post.ID = id.Hex()
	return nil
}

// GetPost loads one post by its hex id.
func (s *PostStore) GetPost(ctx context.Context, id string) (*posts.Post, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, posts.ErrPostNotFound
	}

	var doc postDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, posts.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	post := doc.toDomain()
	return &post, nil
}

func (s *PostStore) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]posts.Post, error) {
	cur, err := s.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]posts.Post, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// ListPosts returns one page ordered newest first plus the total count.
func (s *PostStore) ListPosts(ctx context.Context, skip, limit int64) ([]posts.Post, int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	items, err := s.find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdatePost applies the non-nil fields.
func (s *PostStore) UpdatePost(ctx context.Context, id string, update posts.Update) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return posts.ErrPostNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Summary != nil {
		set["summary"] = *update.Summary
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Cover != nil {
		set["cover"] = *update.Cover
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return posts.ErrPostNotFound
	}
	return nil
}

// DeletePost removes one post.
func (s *PostStore) DeletePost(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return posts.ErrPostNotFound
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return posts.ErrPostNotFound
	}
	return nil
}

// ToggleLike flips userID's membership in the likes array. Each branch is
// a single atomic array update; the pull matches only when the user is
// already in the array, so two racing toggles cannot double-add.
func (s *PostStore) ToggleLike(ctx context.Context, postID, userID string) (bool, int64, error) {
	oid, err := bson.ObjectIDFromHex(postID)
	if err != nil {
		return false, 0, posts.ErrPostNotFound
	}

	liked := false
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}})
	if err != nil {
		return false, 0, fmt.Errorf("unlike post: %w", err)
	}
	if res.MatchedCount == 0 {
		res, err = s.col.UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$addToSet": bson.M{"likes": userID}})
		if err != nil {
			return false, 0, fmt.Errorf("like post: %w", err)
		}
		if res.MatchedCount == 0 {
			return false, 0, posts.ErrPostNotFound
		}
		liked = true
	}

	var doc struct {
		Likes []string `bson:"likes"`
	}
	err = s.col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"likes": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, posts.ErrPostNotFound
		}
		return false, 0, fmt.Errorf("read like count: %w", err)
	}
	return liked, int64(len(doc.Likes)), nil
}

// SearchPosts matches titles case-insensitively, newest first.
func (s *PostStore) SearchPosts(ctx context.Context, query string) ([]posts.Post, error) {
	filter := bson.M{"title": bson.M{
		"$regex":   regexp.QuoteMeta(query),
		"$options": "i",
	}}
	return s.find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// ListByAuthorID returns the author's posts, newest first.
func (s *PostStore) ListByAuthorID(ctx context.Context, authorID string) ([]posts.Post, error) {
	return s.find(ctx, bson.M{"authorId": authorID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// ListLikedBy returns the posts the user currently likes, newest first.
func (s *PostStore) ListLikedBy(ctx context.Context, userID string) ([]posts.Post, error) {
	return s.find(ctx, bson.M{"likes": userID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// UpdateAuthorNickname renames the denormalized author field on every post
// by the author.
func (s *PostStore) UpdateAuthorNickname(ctx context.Context, authorID, nickname string) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"authorId": authorID},
		bson.M{"$set": bson.M{"author": nickname}})
	if err != nil {
		return fmt.Errorf("rename post author: %w", err)
	}
	return nil
}

// PostAuthorID returns the author id of one post.
func (s *PostStore) PostAuthorID(ctx context.Context, postID string) (string, error) {
	oid, err := bson.ObjectIDFromHex(postID)
	if err != nil {
		return "", posts.ErrPostNotFound
	}

	var doc struct {
		AuthorID string `bson:"authorId"`
	}
	err = s.col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"authorId": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", posts.ErrPostNotFound
		}
		return "", fmt.Errorf("find post author: %w", err)
	}
	return doc.AuthorID, nil
}

var _ posts.Storage = (*PostStore)(nil)
