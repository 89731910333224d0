// Package telegram checks the initData a Telegram Mini App passes to its backend.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var ErrInvalidInitData = errors.New("invalid init data")

// User is the Telegram account that opened the Mini App
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
}

type rawUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// Validate verifies the hash of initData against botToken and returns the
// user it carries. The user is nil when initData has no user field.
func Validate(initData, botToken string) (*User, error) {
	if initData == "" || botToken == "" {
		return nil, ErrInvalidInitData
	}
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}
	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrInvalidInitData
	}
	values.Del("hash")

	got, err := hex.DecodeString(hash)
	if err != nil {
		return nil, ErrInvalidInitData
	}
	if !hmac.Equal(got, Sign(values, botToken)) {
		return nil, ErrInvalidInitData
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, nil
	}
	var u rawUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrInvalidInitData, err)
	}
	return &User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Username: u.Username}, nil
}

// Sign computes the initData hash of values (without the hash field)
func Sign(values url.Values, botToken string) []byte {
	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	return hmacSHA256(secret, []byte(dataCheckString(values)))
}

// dataCheckString joins key=value pairs, sorted by key, with newlines
func dataCheckString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			pairs = append(pairs, k+"="+v)
		}
	}
	return strings.Join(pairs, "\n")
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
