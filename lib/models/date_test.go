package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalFormats(t *testing.T) {
	var payload struct {
		Day       Date `json:"day"`
		Timestamp Date `json:"timestamp"`
		Missing   Date `json:"missing"`
	}

	err := json.Unmarshal([]byte(`{"day":"2024-03-05","timestamp":"2024-03-06T18:30:00Z","missing":null}`), &payload)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), payload.Day.Time)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), payload.Timestamp.Time)
	assert.True(t, payload.Missing.IsZero())
}

func TestDate_Marshal(t *testing.T) {
	out, err := json.Marshal(struct {
		Day   Date `json:"day"`
		Empty Date `json:"empty"`
	}{Day: NewDate(time.Date(2024, 12, 1, 23, 0, 0, 0, time.UTC))})

	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-12-01","empty":null}`, string(out))
}

func TestDate_RejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(Expense{ID: 1, Amount: decimal.RequireFromString("1500.50")})

	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 1500.5, decoded["amount"])
}
