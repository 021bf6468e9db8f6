package mongorepo

import (
	"context"
	"time"

	"github.com/jrsteele09/go-account-service/users"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "users"

type userDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password"`
	Verified          bool               `bson:"verified"`
	VerificationToken string             `bson:"verificationToken,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// MongoUserRepo stores users in a single collection with a unique index on email.
type MongoUserRepo struct {
	collection *mongo.Collection
}

var _ users.UserRepo = (*MongoUserRepo)(nil)

// Connect opens a client for uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}
	return client, nil
}

// New ensures the collection's indexes exist and returns the repo.
func New(ctx context.Context, db *mongo.Database) (*MongoUserRepo, error) {
	collection := db.Collection(collectionName)
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verificationToken", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create user indexes")
	}
	return &MongoUserRepo{collection: collection}, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user *users.User) error {
	doc, err := toDocument(user)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapWriteError(err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *MongoUserRepo) Update(ctx context.Context, user *users.User) error {
	doc, err := toDocument(user)
	if err != nil {
		return err
	}
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return users.ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	if res.DeletedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, users.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) GetByVerificationToken(ctx context.Context, token string) (*users.User, error) {
	if token == "" {
		return nil, users.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"verificationToken": token})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*users.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return doc.toUser(), nil
}

func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return users.ErrDuplicateEmail
	}
	return errors.Wrap(err, "write user")
}

func toDocument(user *users.User) (*userDocument, error) {
	doc := &userDocument{
		Name:              user.Name,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		Verified:          user.Verified,
		VerificationToken: user.VerificationToken,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
	if user.ID != "" {
		oid, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			return nil, users.ErrNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d *userDocument) toUser() *users.User {
	return &users.User{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Verified:          d.Verified,
		VerificationToken: d.VerificationToken,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
