package mongostore

import (
	"context"
	"errors"

	"github.com/gotd/td/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionStorage хранит MTProto-сессию бота в коллекции botsessions.
type SessionStorage struct {
	coll *mongo.Collection
	name string
}

// BotSession возвращает хранилище сессии с указанным именем.
func (s *Store) BotSession(name string) *SessionStorage {
	return &SessionStorage{coll: s.sessions, name: name}
}

type sessionDoc struct {
	Name string `bson:"_id"`
	Data string `bson:"data"`
}

func (s *SessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Data), nil
}

func (s *SessionStorage) StoreSession(ctx context.Context, data []byte) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": s.name},
		bson.M{"$set": bson.M{"data": string(data)}},
		options.Update().SetUpsert(true),
	)
	return err
}

var _ session.Storage = (*SessionStorage)(nil)
