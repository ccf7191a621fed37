package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "ravi@example.com" && body["password"] == "passw0rd" {
			w.Write([]byte(`{"success":true,"token":"jwt-abc","user":{"id":"u1","name":"Ravi","email":"ravi@example.com","isAdmin":false}}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	})
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"token":"jwt-new","user":{"id":"u2","name":"Meena","email":"meena@example.com","isAdmin":false}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginPersistsTokenAndUser(t *testing.T) {
	srv := authServer(t)
	store := NewMemoryStore()
	sess := NewSession(New(srv.URL, store), store)

	assert.False(t, sess.Authenticated())

	user, err := sess.Login(context.Background(), "ravi@example.com", "passw0rd")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", user.Name)
	assert.True(t, sess.Authenticated())

	token, ok := store.Get(StorageKeyToken)
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", token)
	_, ok = store.Get(StorageKeyUser)
	assert.True(t, ok)
}

func TestFailedLoginLeavesStateUntouched(t *testing.T) {
	srv := authServer(t)
	store := NewMemoryStore()
	sess := NewSession(New(srv.URL, store), store)

	_, err := sess.Login(context.Background(), "ravi@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, sess.Authenticated())

	_, hasToken := store.Get(StorageKeyToken)
	assert.False(t, hasToken)
}

func TestRegisterAuthenticates(t *testing.T) {
	srv := authServer(t)
	store := NewMemoryStore()
	sess := NewSession(New(srv.URL, store), store)

	user, err := sess.Register(context.Background(), "Meena", "meena@example.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.True(t, sess.Authenticated())
}

func TestLogoutClearsEverythingWithoutNetwork(t *testing.T) {
	store := NewMemoryStore()
	store.Set(StorageKeyToken, "jwt-abc")
	store.Set(StorageKeyUser, `{"id":"u1","name":"Ravi"}`)

	// Unroutable base URL proves logout never makes a request.
	sess := NewSession(New("http://127.0.0.1:0", store), store)
	require.True(t, sess.Authenticated())

	sess.Logout()
	assert.False(t, sess.Authenticated())
	assert.Nil(t, sess.CurrentUser())
	_, hasToken := store.Get(StorageKeyToken)
	assert.False(t, hasToken)
}

func TestRehydrateFromStore(t *testing.T) {
	store := NewMemoryStore()
	store.Set(StorageKeyToken, "jwt-abc")
	store.Set(StorageKeyUser, `{"id":"u1","name":"Ravi","email":"ravi@example.com"}`)

	sess := NewSession(New("http://127.0.0.1:0", store), store)
	require.True(t, sess.Authenticated())
	user := sess.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ravi", user.Name)
}

func TestCorruptUserRecordLogsOut(t *testing.T) {
	store := NewMemoryStore()
	store.Set(StorageKeyToken, "jwt-abc")
	store.Set(StorageKeyUser, `{not json`)

	sess := NewSession(New("http://127.0.0.1:0", store), store)
	assert.False(t, sess.Authenticated())
	_, hasToken := store.Get(StorageKeyToken)
	assert.False(t, hasToken, "corrupt state is dropped, not kept half-alive")
}

func TestUpdateUserMergesAndRepersists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte(`{"success":true,"data":{"id":"u1","name":"Ravi Kumar","email":"ravi@example.com","phone":"9876543210"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := NewMemoryStore()
	store.Set(StorageKeyToken, "jwt-abc")
	store.Set(StorageKeyUser, `{"id":"u1","name":"Ravi","email":"ravi@example.com"}`)
	sess := NewSession(New(srv.URL, store), store)

	name := "Ravi Kumar"
	phone := "9876543210"
	user, err := sess.UpdateUser(context.Background(), UserPatch{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", user.Name)
	assert.Equal(t, "9876543210", user.Phone)

	raw, ok := store.Get(StorageKeyUser)
	require.True(t, ok)
	var persisted User
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, "Ravi Kumar", persisted.Name)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(StorageKeyToken, "jwt-abc"))
	v, ok := store.Get(StorageKeyToken)
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", v)

	// A second store over the same file sees the value.
	again := NewFileStore(path)
	v, ok = again.Get(StorageKeyToken)
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", v)

	require.NoError(t, again.Delete(StorageKeyToken))
	_, ok = store.Get(StorageKeyToken)
	assert.False(t, ok)
}
