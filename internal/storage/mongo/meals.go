package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

// mealDoc mirrors a document in the meals collection. Documents written by
// other tools usually carry an ObjectID, so _id is decoded loosely.
type mealDoc struct {
	ID           interface{} `bson:"_id,omitempty"`
	Name         string      `bson:"name"`
	Calories     float64     `bson:"calories"`
	Protein      float64     `bson:"protein"`
	Carbs        float64     `bson:"carbs"`
	Fat          float64     `bson:"fat"`
	Type         string      `bson:"type"`
	IsVegetarian bool        `bson:"isVegetarian"`
	IsVegan      bool        `bson:"isVegan"`
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// docID converts a meal ID back into the stored _id form.
func docID(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func (d mealDoc) toMeal() models.Meal {
	return models.Meal{
		ID:           idString(d.ID),
		Name:         d.Name,
		Calories:     d.Calories,
		Protein:      d.Protein,
		Carbs:        d.Carbs,
		Fat:          d.Fat,
		Type:         d.Type,
		IsVegetarian: d.IsVegetarian,
		IsVegan:      d.IsVegan,
	}
}

func fromMeal(m models.Meal) mealDoc {
	d := mealDoc{
		Name:         m.Name,
		Calories:     m.Calories,
		Protein:      m.Protein,
		Carbs:        m.Carbs,
		Fat:          m.Fat,
		Type:         m.Type,
		IsVegetarian: m.IsVegetarian,
		IsVegan:      m.IsVegan,
	}
	if m.ID != "" {
		d.ID = docID(m.ID)
	} else {
		d.ID = primitive.NewObjectID()
	}
	return d
}

func decodeMeals(ctx context.Context, cur *mongo.Cursor) ([]models.Meal, error) {
	defer cur.Close(ctx)

	meals := make([]models.Meal, 0)
	for cur.Next(ctx) {
		var doc mealDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode meal: %w", err)
		}
		meals = append(meals, doc.toMeal())
	}
	return meals, cur.Err()
}

func findAllMeals(ctx context.Context, coll *mongo.Collection) ([]models.Meal, error) {
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeMeals(ctx, cur)
}

func (s *Store) AddMeal(meal models.Meal) error {
	if _, err := s.meals().InsertOne(context.Background(), fromMeal(meal)); err != nil {
		return fmt.Errorf("failed to add meal %q: %w", meal.Name, err)
	}
	return nil
}

func (s *Store) GetMeal(id string) (models.Meal, error) {
	var doc mealDoc
	err := s.meals().FindOne(context.Background(), bson.M{"_id": docID(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Meal{}, fmt.Errorf("meal %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Meal{}, err
	}
	return doc.toMeal(), nil
}

func (s *Store) GetAllMeals() ([]models.Meal, error) {
	return findAllMeals(context.Background(), s.meals())
}

func (s *Store) DeleteMeal(id string) error {
	res, err := s.meals().DeleteOne(context.Background(), bson.M{"_id": docID(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("meal %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ReplaceMeals swaps the catalog inside a transaction. Standalone servers do
// not support transactions, so the swap there is not atomic.
func (s *Store) ReplaceMeals(meals []models.Meal) error {
	docs := make([]interface{}, 0, len(meals))
	for _, m := range meals {
		docs = append(docs, fromMeal(m))
	}

	ctx := context.Background()
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, s.swapMeals(sc, docs)
	})
	if err != nil && isTransactionUnsupported(err) {
		return s.swapMeals(ctx, docs)
	}
	return err
}

func (s *Store) swapMeals(ctx context.Context, docs []interface{}) error {
	if _, err := s.meals().DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear meals: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.meals().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert meals: %w", err)
	}
	return nil
}

func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// IllegalOperation: "Transaction numbers are only allowed on a replica set member or mongos"
		return cmdErr.Code == 20
	}
	return false
}

// catalogSession reads through a dedicated client session.
type catalogSession struct {
	sess mongo.Session
	coll *mongo.Collection
}

func (s *Store) OpenCatalog(ctx context.Context) (storage.CatalogSession, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &catalogSession{sess: sess, coll: s.meals()}, nil
}

func (c *catalogSession) FetchAllMeals(ctx context.Context) ([]models.Meal, error) {
	return findAllMeals(mongo.NewSessionContext(ctx, c.sess), c.coll)
}

func (c *catalogSession) Close() error {
	c.sess.EndSession(context.Background())
	return nil
}
