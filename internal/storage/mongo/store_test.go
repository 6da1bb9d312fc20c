package mongo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func TestNew_DatabaseName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uri: "mongodb://localhost:27017", want: "mealplanner"},
		{uri: "mongodb://localhost:27017/", want: "mealplanner"},
		{uri: "mongodb://localhost:27017/recipes", want: "recipes"},
		{uri: "mongodb://a:27017,b:27017/meals?replicaSet=rs0", want: "meals"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.uri).DatabaseName())
		})
	}
}

func TestIDConversion(t *testing.T) {
	oid := primitive.NewObjectID()

	assert.Equal(t, oid.Hex(), idString(oid))
	assert.Equal(t, "custom-id", idString("custom-id"))
	assert.Equal(t, "", idString(nil))
	assert.Equal(t, "42", idString(int32(42)))

	assert.Equal(t, oid, docID(oid.Hex()))
	assert.Equal(t, "custom-id", docID("custom-id"))
}

func TestMealDocDecoding(t *testing.T) {
	oid := primitive.NewObjectID()
	// Integer nutrients, as written by the web frontend's seed script.
	raw, err := bson.Marshal(bson.M{
		"_id":          oid,
		"name":         "Oats",
		"calories":     int32(300),
		"protein":      int64(10),
		"carbs":        50.5,
		"fat":          5,
		"type":         "low-carb",
		"isVegetarian": true,
		"isVegan":      true,
	})
	require.NoError(t, err)

	var doc mealDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))

	meal := doc.toMeal()
	assert.Equal(t, models.Meal{
		ID: oid.Hex(), Name: "Oats", Calories: 300, Protein: 10, Carbs: 50.5, Fat: 5,
		Type: "low-carb", IsVegetarian: true, IsVegan: true,
	}, meal)
}

func TestFromMeal(t *testing.T) {
	withoutID := fromMeal(models.Meal{Name: "Soup"})
	_, isOID := withoutID.ID.(primitive.ObjectID)
	assert.True(t, isOID, "a new meal gets an ObjectID")

	oid := primitive.NewObjectID()
	assert.Equal(t, oid, fromMeal(models.Meal{ID: oid.Hex()}).ID)
	assert.Equal(t, "uuid-like", fromMeal(models.Meal{ID: "uuid-like"}).ID)
}

// TestStore_Integration runs against a real server.
// Example: MEALPLAN_TEST_MONGO="mongodb://localhost:27017/mealplan_test"
func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("MEALPLAN_TEST_MONGO")
	if uri == "" {
		t.Skip("MEALPLAN_TEST_MONGO not set, skipping MongoDB integration test")
	}

	store := New(uri)
	require.NoError(t, store.Init())
	defer store.Close()

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Greater(t, settings.SolveTimeoutSec, 0)

	meals := []models.Meal{
		{Name: "Oats", Calories: 300, Protein: 70, Carbs: 50, Fat: 5, Type: "low-carb", IsVegetarian: true, IsVegan: true},
		{ID: "steak", Name: "Steak", Calories: 600, Protein: 55, Fat: 40, Type: "low-carb"},
	}
	require.NoError(t, store.ReplaceMeals(meals))

	ctx := context.Background()
	session, err := store.OpenCatalog(ctx)
	require.NoError(t, err)
	got, err := session.FetchAllMeals(ctx)
	require.NoError(t, session.Close())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Oats", got[0].Name)
	assert.NotEmpty(t, got[0].ID)

	steak, err := store.GetMeal("steak")
	require.NoError(t, err)
	assert.Equal(t, 600.0, steak.Calories)

	require.NoError(t, store.DeleteMeal("steak"))
	assert.True(t, errors.Is(store.DeleteMeal("steak"), storage.ErrNotFound))
}
