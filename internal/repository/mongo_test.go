package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

func TestEmailFilterEscapesMetacharacters(t *testing.T) {
	filter := emailFilter("a.b+c@example.com")
	cond := filter["email"].(bson.M)
	require.Equal(t, `^a\.b\+c@example\.com$`, cond["$regex"])
	require.Equal(t, "i", cond["$options"])
}

func TestMealFilter(t *testing.T) {
	lo, hi := 5.0, 10.0
	filter := mealFilter(models.MealFilter{Category: "vegan", Search: "bowl", MinPrice: &lo, MaxPrice: &hi, CreatedBy: "u1"})

	require.Equal(t, bson.M{"$gte": 5.0, "$lte": 10.0}, filter["price"])
	require.Equal(t, "u1", filter["created_by"])
	require.Contains(t, filter, "category")
	require.Contains(t, filter, "name")

	require.Empty(t, mealFilter(models.MealFilter{}))
}

func TestObjectIDRejectsGarbage(t *testing.T) {
	_, err := objectID("not-an-id")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestOwnerFilter(t *testing.T) {
	require.Empty(t, ownerFilter(""))
	require.Equal(t, bson.M{"user_id": "u1"}, ownerFilter("u1"))
}
