package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wireUser = `{
  "id": 1,
  "name": "Leanne Graham",
  "username": "Bret",
  "email": "Sincere@april.biz",
  "address": {
    "street": "Kulas Light",
    "suite": "Apt. 556",
    "city": "Gwenborough",
    "zipcode": "92998-3874",
    "geo": {"lat": "-37.3159", "lng": "81.1496"}
  },
  "phone": "1-770-736-8031 x56442",
  "website": "hildegard.org",
  "company": {
    "name": "Romaguera-Crona",
    "catchPhrase": "Multi-layered client-server neural-net",
    "bs": "harness real-time e-markets"
  }
}`

func TestUserDecodesWireShape(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(wireUser), &u))

	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "Leanne Graham", u.Name)
	assert.Equal(t, "Bret", u.Username)
	require.NotNil(t, u.Company)
	assert.Equal(t, "Multi-layered client-server neural-net", u.Company.CatchPhrase)
	assert.Equal(t, "harness real-time e-markets", u.Company.BS)
	require.NotNil(t, u.Address)
	assert.Equal(t, "92998-3874", u.Address.Zipcode)
	assert.Equal(t, "Kulas Light, Apt. 556, Gwenborough, 92998-3874", u.AddressLine())
}

func TestUserMissingNestedObjects(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "name": "Nobody"}`), &u))

	assert.Nil(t, u.Company)
	assert.Nil(t, u.Address)
	assert.Equal(t, "", u.AddressLine())

	var nilUser *User
	assert.Equal(t, "", nilUser.AddressLine())
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&FetchError{Message: "failed to fetch users", Err: cause})

	assert.True(t, errors.Is(err, ErrFetch))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to fetch users: connection refused", err.Error())

	withStatus := &FetchError{Message: "failed to fetch users", StatusCode: 503}
	assert.Equal(t, "failed to fetch users: HTTP 503", withStatus.Error())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "failed to fetch users", fe.Message)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "unknown(9)", Status(9).String())
}
