package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kmsblog/blogapi/modules/comments"
)

// CommentStore persists comments in the "comments" collection.
type CommentStore struct {
	col *mongo.Collection
}

// NewCommentStore creates the comment store over db.
func NewCommentStore(db *mongo.Database) *CommentStore {
	return &CommentStore{col: db.Collection("comments")}
}

type commentDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	PostID    string        `bson:"postId"`
	Content   string        `bson:"content"`
	Author    string        `bson:"author"`
	AuthorID  string        `bson:"authorId"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d commentDoc) toDomain() comments.Comment {
	return comments.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.PostID,
		Content:   d.Content,
		Author:    d.Author,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CreateComment inserts the comment and fills in its generated id.
func (s *CommentStore) CreateComment(ctx context.Context, comment *comments.Comment) error {
	doc := commentDoc{
		PostID:    comment.PostID,
		Content:   comment.Content,
		Author:    comment.Author,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("insert comment: unexpected id type %T", res.InsertedID)
	}
	comment.ID = id.Hex()
	return nil
}

// GetComment loads one comment by its hex id.
func (s *CommentStore) GetComment(ctx context.Context, id string) (*comments.Comment, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, comments.ErrCommentNotFound
	}

	var doc commentDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, comments.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	comment := doc.toDomain()
	return &comment, nil
}

func (s *CommentStore) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]comments.Comment, error) {
	cur, err := s.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	out := make([]comments.Comment, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// ListByPostID returns the post's comments, oldest first.
func (s *CommentStore) ListByPostID(ctx context.Context, postID string) ([]comments.Comment, error) {
	return s.find(ctx, bson.M{"postId": postID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

// ListByAuthorID returns the author's comments, newest first.
func (s *CommentStore) ListByAuthorID(ctx context.Context, authorID string) ([]comments.Comment, error) {
	return s.find(ctx, bson.M{"authorId": authorID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// UpdateComment replaces the comment's content.
func (s *CommentStore) UpdateComment(ctx context.Context, id, content string, updatedAt time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return comments.ErrCommentNotFound
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"content": content, "updatedAt": updatedAt}})
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return comments.ErrCommentNotFound
	}
	return nil
}

// DeleteComment removes one comment.
func (s *CommentStore) DeleteComment(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return comments.ErrCommentNotFound
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return comments.ErrCommentNotFound
	}
	return nil
}

// DeleteByPostID removes every comment on the post.
func (s *CommentStore) DeleteByPostID(ctx context.Context, postID string) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	return nil
}

// CountByPostIDs groups comment counts per post in one aggregation.
// Posts without comments are absent from the result map.
func (s *CommentStore) CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"postId": bson.M{"$in": postIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$postId", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	var rows []struct {
		PostID string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode comment counts: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.PostID] = row.Count
	}
	return out, nil
}

// UpdateAuthorNickname renames the denormalized author field on every
// comment by the author.
func (s *CommentStore) UpdateAuthorNickname(ctx context.Context, authorID, nickname string) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"authorId": authorID},
		bson.M{"$set": bson.M{"author": nickname}})
	if err != nil {
		return fmt.Errorf("rename comment author: %w", err)
	}
	return nil
}

var _ comments.Storage = (*CommentStore)(nil)
