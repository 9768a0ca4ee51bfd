package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unlockbot/models"
	"unlockbot/pkg/storage"
)

// Store реализует storage.Store поверх MongoDB.
// Коллекции повторяют документную раскладку: posts, userprofiles, settings, premiumusers.
type Store struct {
	client   *mongo.Client
	posts    *mongo.Collection
	profiles *mongo.Collection
	settings *mongo.Collection
	premium  *mongo.Collection
	sessions *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

// Connect подключается к MongoDB по URI и проверяет соединение.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("подключение к MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	s := New(client.Database(database))
	s.client = client
	return s, nil
}

// New создаёт хранилище поверх уже открытой базы.
func New(db *mongo.Database) *Store {
	return &Store{
		posts:    db.Collection("posts"),
		profiles: db.Collection("userprofiles"),
		settings: db.Collection("settings"),
		premium:  db.Collection("premiumusers"),
		sessions: db.Collection("botsessions"),
	}
}

// EnsureIndexes создаёт уникальные индексы по ключевым полям коллекций.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := []struct {
		coll *mongo.Collection
		key  string
	}{
		{s.posts, "id"},
		{s.profiles, "userId"},
		{s.settings, "key"},
		{s.premium, "userId"},
	}
	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: idx.key, Value: 1}}, Options: unique})
		if err != nil {
			log.Printf("[MONGO ERROR] индекс %s.%s: %v", idx.coll.Name(), idx.key, err)
			return err
		}
	}
	return nil
}

// Close разрывает соединение, если хранилище создано через Connect.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) CreatePost(ctx context.Context, p models.Post) error {
	if p.Channels == nil {
		p.Channels = []models.ChannelLink{}
	}
	_, err := s.posts.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicateID
	}
	if err != nil {
		log.Printf("[MONGO ERROR] не удалось сохранить пост %s: %v", p.ID, err)
	}
	return err
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := s.posts.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CountPosts(ctx context.Context) (int, error) {
	n, err := s.posts.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// GetUserProfile возвращает пустой профиль, если документа нет.
func (s *Store) GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	p := models.UserProfile{UserID: userID}
	err := s.profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) AppendChannel(ctx context.Context, userID int64, ch models.ChannelLink) error {
	_, err := s.profiles.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$push": bson.M{"savedChannels": ch}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) ClearChannels(ctx context.Context, userID int64) error {
	_, err := s.profiles.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"savedChannels": []models.ChannelLink{}}},
	)
	return err
}

func (s *Store) SetUserZone(ctx context.Context, userID int64, zoneID string) error {
	_, err := s.profiles.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"userZoneId": zoneID}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	n, err := s.profiles.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// GetSetting читает значение настройки. Числа, сохранённые в документе как int или double,
// возвращаются в десятичной записи.
func (s *Store) GetSetting(ctx context.Context, key, def string) (string, error) {
	var doc struct {
		Value bson.RawValue `bson:"value"`
	}
	err := s.settings.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return settingValue(doc.Value, def)
}

func settingValue(v bson.RawValue, def string) (string, error) {
	switch v.Type {
	case bsontype.String:
		return v.StringValue(), nil
	case bsontype.Int32:
		return strconv.Itoa(int(v.Int32())), nil
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10), nil
	case bsontype.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64), nil
	case bsontype.Type(0), bsontype.Null, bsontype.Undefined:
		return def, nil
	default:
		return "", fmt.Errorf("mongostore: настройка имеет неподдерживаемый тип %s", v.Type)
	}
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.settings.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": models.Setting{Key: key, Value: value}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) GetPremium(ctx context.Context, userID int64) (*models.PremiumMembership, error) {
	var m models.PremiumMembership
	err := s.premium.FindOne(ctx, bson.M{"userId": userID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) UpsertPremium(ctx context.Context, m models.PremiumMembership) error {
	_, err := s.premium.UpdateOne(ctx,
		bson.M{"userId": m.UserID},
		bson.M{"$set": bson.M{"packageName": m.Plan, "expiryDate": m.ExpiresAt}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) DeletePremium(ctx context.Context, userID int64) (bool, error) {
	res, err := s.premium.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteExpiredPremium удаляет подписку, только если к моменту now её срок истёк.
func (s *Store) DeleteExpiredPremium(ctx context.Context, userID int64, now time.Time) (bool, error) {
	res, err := s.premium.DeleteOne(ctx, bson.M{"userId": userID, "expiryDate": bson.M{"$lte": now}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) CountPremium(ctx context.Context) (int, error) {
	n, err := s.premium.CountDocuments(ctx, bson.M{})
	return int(n), err
}
