package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/modules/users"
)

// UserStore persists accounts in the "users" collection.
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore creates the user store over db.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

type userDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email,omitempty"`
	Nickname     string        `bson:"nickname"`
	PasswordHash string        `bson:"password,omitempty"`
	KakaoID      string        `bson:"kakaoId,omitempty"`
	ProfileImage string        `bson:"profileImage,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

func (d userDoc) toDomain() *auth.User {
	return &auth.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Nickname:     d.Nickname,
		PasswordHash: d.PasswordHash,
		KakaoID:      d.KakaoID,
		ProfileImage: d.ProfileImage,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// userConflict maps a duplicate-key write error onto the field that
// collided. The index name appears in the server's error message.
func userConflict(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "kakao"):
		return auth.ErrKakaoAlreadyLinked
	case strings.Contains(msg, "nickname"):
		return auth.ErrNicknameAlreadyExists
	default:
		return auth.ErrEmailAlreadyExists
	}
}

// CreateUser inserts the account and fills in its generated id.
func (s *UserStore) CreateUser(ctx context.Context, user *auth.User) error {
	doc := userDoc{
		Email:        user.Email,
		Nickname:     user.Nickname,
		PasswordHash: user.PasswordHash,
		KakaoID:      user.KakaoID,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return userConflict(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	user.ID = id.Hex()
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	var doc userDoc
	if err := s.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// GetUserByEmail looks an account up by email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetUserByID looks an account up by its hex id.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*auth.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, auth.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetUserByKakaoID looks an account up by its Kakao account id.
func (s *UserStore) GetUserByKakaoID(ctx context.Context, kakaoID string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"kakaoId": kakaoID})
}

// GetUserByNickname looks an account up by nickname.
func (s *UserStore) GetUserByNickname(ctx context.Context, nickname string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"nickname": nickname})
}

// UpdateUser applies the non-nil profile fields.
func (s *UserStore) UpdateUser(ctx context.Context, id string, update users.Update) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Nickname != nil {
		set["nickname"] = *update.Nickname
	}
	if update.PasswordHash != nil {
		set["password"] = *update.PasswordHash
	}
	if update.ProfileImage != nil {
		set["profileImage"] = *update.ProfileImage
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrNicknameAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

var (
	_ auth.Storage  = (*UserStore)(nil)
	_ users.Storage = (*UserStore)(nil)
)
