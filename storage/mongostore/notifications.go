package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kmsblog/blogapi/modules/notifications"
)

// NotificationStore persists notifications in the "notifications" collection.
type NotificationStore struct {
	col *mongo.Collection
}

// NewNotificationStore creates the notification store over db.
func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{col: db.Collection("notifications")}
}

type notificationDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	RecipientID string        `bson:"recipientId"`
	SenderID    string        `bson:"senderId"`
	Type        string        `bson:"type"`
	PostID      string        `bson:"postId"`
	CommentText string        `bson:"commentText,omitempty"`
	IsRead      bool          `bson:"isRead"`
	CreatedAt   time.Time     `bson:"createdAt"`
}

func (d notificationDoc) toDomain() notifications.Notification {
	return notifications.Notification{
		ID:          d.ID.Hex(),
		RecipientID: d.RecipientID,
		SenderID:    d.SenderID,
		Type:        d.Type,
		PostID:      d.PostID,
		CommentText: d.CommentText,
		IsRead:      d.IsRead,
		CreatedAt:   d.CreatedAt,
	}
}

// CreateNotification inserts the notification and fills in its generated id.
func (s *NotificationStore) CreateNotification(ctx context.Context, n *notifications.Notification) error {
	doc := notificationDoc{
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Type:        n.Type,
		PostID:      n.PostID,
		CommentText: n.CommentText,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("insert notification: unexpected id type %T", res.InsertedID)
	}
	n.ID = id.Hex()
	return nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (s *NotificationStore) ListByRecipient(ctx context.Context, recipientID string) ([]notifications.Notification, error) {
	cur, err := s.col.Find(ctx, bson.M{"recipientId": recipientID}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	out := make([]notifications.Notification, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// GetNotification loads one notification by its hex id.
func (s *NotificationStore) GetNotification(ctx context.Context, id string) (*notifications.Notification, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, notifications.ErrNotificationNotFound
	}

	var doc notificationDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notifications.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	n := doc.toDomain()
	return &n, nil
}

// MarkRead flags one notification as read.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return notifications.ErrNotificationNotFound
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return notifications.ErrNotificationNotFound
	}
	return nil
}

var _ notifications.Storage = (*NotificationStore)(nil)
