package telegram

import (
	"encoding/hex"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botToken = "123456:TEST-token"

func signed(values url.Values) string {
	values.Set("hash", hex.EncodeToString(Sign(values, botToken)))
	return values.Encode()
}

func TestValidate_Valid(t *testing.T) {
	initData := signed(url.Values{
		"auth_date": {"1700000000"},
		"query_id":  {"AAHdF6IQAAAAAN0XohDhrOrc"},
		"user":      {`{"id":279058397,"first_name":"Vlad","last_name":"K","username":"vdkfrost"}`},
	})

	u, err := Validate(initData, botToken)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(279058397), u.ID)
	assert.Equal(t, "Vlad", u.FirstName)
	assert.Equal(t, "K", u.LastName)
	assert.Equal(t, "vdkfrost", u.Username)
}

func TestValidate_NoUser(t *testing.T) {
	u, err := Validate(signed(url.Values{"auth_date": {"1700000000"}}), botToken)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestValidate_Rejects(t *testing.T) {
	good := url.Values{
		"auth_date": {"1700000000"},
		"user":      {`{"id":1,"first_name":"A"}`},
	}
	valid := signed(good)

	tampered, err := url.ParseQuery(valid)
	require.NoError(t, err)
	tampered.Set("user", `{"id":2,"first_name":"A"}`)

	tests := []struct {
		name     string
		initData string
		token    string
	}{
		{"empty", "", botToken},
		{"no hash", "auth_date=1700000000", botToken},
		{"tampered", tampered.Encode(), botToken},
		{"wrong token", valid, "other:token"},
		{"non-hex hash", "auth_date=1&hash=zz", botToken},
		{"no token", valid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.initData, tt.token)
			assert.ErrorIs(t, err, ErrInvalidInitData)
		})
	}
}

func TestValidate_KnownVector(t *testing.T) {
	initData := "auth_date=1700000000&query_id=AAH&user=%7B%22id%22%3A5%2C%22first_name%22%3A%22Ann%22%7D" +
		"&hash=2dbc76193f7f73c810c16d4cf89018c06c284c794cf80904fc0152db80183bc2"

	u, err := Validate(initData, botToken)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, "Ann", u.FirstName)
}
