package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatabaseName(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost:27017/mealmate":                       "mealmate",
		"mongodb://localhost:27017/orders_db?retryWrites=true":     "orders_db",
		"mongodb+srv://u:p@cluster0.example.net/prod?w=majority":   "prod",
		"mongodb://localhost:27017":                                "mealmate",
		"mongodb://localhost:27017/":                               "mealmate",
		"mongodb://localhost:27017/?replicaSet=rs0":                "mealmate",
	}
	for uri, want := range cases {
		require.Equal(t, want, DatabaseName(uri), uri)
	}
}
