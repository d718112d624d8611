package session

import (
	"context"
	"errors"
	"testing"

	"sitedash/lib/constants"
	"sitedash/lib/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TokenClaims_PrefersCachedUser(t *testing.T) {
	//Arrange
	store := newMockStore()
	store.items["abc-123/"+constants.SessionItemUser] = `{"id":12,"username":"crew","email":"crew@example.com","role":"foreman"}`
	provider := NewProvider(store, &MockSignOuter{}, logrus.New())

	//Act
	claims, err := provider.TokenClaims(context.Background(), "abc-123", map[string]string{"custom:user_id": "99", "custom:role": "worker"})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"user_id":  "12",
		"role":     models.RoleForeman,
		"email":    "crew@example.com",
		"username": "crew",
	}, claims.Map())
	assert.Equal(t, []string{models.RoleForeman}, claims.Groups())
}

func Test_TokenClaims_FallsBackToAttributes(t *testing.T) {
	provider := NewProvider(newMockStore(), &MockSignOuter{}, logrus.New())

	claims, err := provider.TokenClaims(context.Background(), "abc-123", map[string]string{
		"custom:user_id": "99",
		"custom:role":    models.RoleWorker,
		"email":          "w@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "99", claims.UserID)
	assert.Equal(t, models.RoleWorker, claims.Role)
	assert.NotContains(t, claims.Map(), "username")
}

func Test_TokenClaims_Failures(t *testing.T) {
	provider := NewProvider(newMockStore(), &MockSignOuter{}, logrus.New())

	_, err := provider.TokenClaims(context.Background(), "abc-123", map[string]string{})
	assert.ErrorIs(t, err, ErrNoIdentity)

	_, err = provider.TokenClaims(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoSubject)

	broken := newMockStore()
	broken.getErr = errors.New("timeout")
	_, err = NewProvider(broken, &MockSignOuter{}, logrus.New()).TokenClaims(context.Background(), "abc-123", nil)
	assert.EqualError(t, err, "failed to read session: timeout")
}

func TestTokenClaims_GroupsWithoutRole(t *testing.T) {
	assert.Equal(t, []string{}, (&TokenClaims{UserID: "1"}).Groups())
}
