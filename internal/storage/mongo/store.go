package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
)

// Store keeps the catalog in a MongoDB database. Meals live in the "meals"
// collection with the field names the web frontend writes, and settings are
// one document per key in "settings".
type Store struct {
	uri    string
	dbName string
	client *mongo.Client
	db     *mongo.Database
}

// New returns a store for uri. The database named in the URI path is used,
// falling back to "mealplanner".
func New(uri string) *Store {
	dbName := constants.DefaultMongoDatabase
	if cs, err := connstring.Parse(uri); err == nil && cs.Database != "" {
		dbName = cs.Database
	}
	return &Store{uri: uri, dbName: dbName}
}

// DatabaseName reports the database the store reads from.
func (s *Store) DatabaseName() string {
	return s.dbName
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.MongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to reach mongodb: %w", err)
	}

	s.client = client
	s.db = client.Database(s.dbName)
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.MongoConnectTimeout)
	defer cancel()
	_, err := s.meals().Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}}})
	if err != nil {
		return fmt.Errorf("failed to create meal index: %w", err)
	}

	settings, err := s.GetSettings()
	if err != nil {
		settings = models.DefaultSettings()
	}
	models.ApplyDefaultSettings(&settings)
	if err := s.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	return s.connect()
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(context.Background())
	s.client = nil
	s.db = nil
	return err
}

func (s *Store) GetConfigPath() string {
	return "mongodb/" + s.dbName
}

func (s *Store) meals() *mongo.Collection {
	return s.db.Collection(constants.MongoMealsCollection)
}

func (s *Store) settings() *mongo.Collection {
	return s.db.Collection(constants.MongoSettingCollection)
}

type settingDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func (s *Store) GetSettings() (models.Settings, error) {
	ctx := context.Background()
	cur, err := s.settings().Find(ctx, bson.D{})
	if err != nil {
		return models.Settings{}, err
	}
	defer cur.Close(ctx)

	data := make(map[string]string)
	for cur.Next(ctx) {
		var doc settingDoc
		if err := cur.Decode(&doc); err != nil {
			return models.Settings{}, err
		}
		data[doc.Key] = doc.Value
	}
	if err := cur.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	ctx := context.Background()
	upsert := options.Replace().SetUpsert(true)
	for key, value := range models.SettingsToMap(settings) {
		doc := settingDoc{Key: key, Value: value}
		if _, err := s.settings().ReplaceOne(ctx, bson.M{"_id": key}, doc, upsert); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}
