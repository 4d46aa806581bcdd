package controllers_test

import (
	"net/http"
	"testing"

	"campus-events/routes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupLoginProfile(t *testing.T) {
	ts := newTestServer(t, routes.Options{})

	w := ts.do(t, http.MethodPost, "/student/signup", map[string]string{
		"name": "Arun", "email": "Arun@Campus.edu", "password": "hunter22", "dept": "ECE", "rollNo": "21EC042",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "arun@campus.edu", user["email"])
	assert.Equal(t, "21EC042", user["rollNo"])
	assert.NotContains(t, user, "password")
	assert.NotEqual(t, "hunter22", ts.store.accounts[0].Password)

	w = ts.do(t, http.MethodPost, "/student/login", map[string]string{"email": "arun@campus.edu", "password": "hunter22"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	w = ts.do(t, http.MethodGet, "/student/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Arun", decode(t, w)["user"].(map[string]interface{})["name"])

	// a student token does not open the organizer profile
	w = ts.do(t, http.MethodGet, "/organizer/profile", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSignup_Errors(t *testing.T) {
	ts := newTestServer(t, routes.Options{})
	body := map[string]string{"name": "Meera", "email": "meera@campus.edu", "password": "secret1"}

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/organizer/signup", body, "").Code)

	w := ts.do(t, http.MethodPost, "/organizer/signup", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode(t, w)["error"])

	// roles live in separate collections
	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/admin/signup", body, "").Code)

	w = ts.do(t, http.MethodPost, "/organizer/signup", map[string]string{"name": "X", "email": "x@campus.edu", "password": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password must be at least 6 characters", decode(t, w)["error"])

	w = ts.do(t, http.MethodPost, "/organizer/signup", map[string]string{"name": "   ", "email": "blank@campus.edu", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", decode(t, w)["error"])
}

func TestLogin_Rejects(t *testing.T) {
	ts := newTestServer(t, routes.Options{})
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/admin/signup",
		map[string]string{"name": "Dean", "email": "dean@campus.edu", "password": "letmein"}, "").Code)

	w := ts.do(t, http.MethodPost, "/admin/login", map[string]string{"email": "dean@campus.edu", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/admin/login", map[string]string{"email": "nobody@campus.edu", "password": "letmein"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/student/login", map[string]string{"email": "dean@campus.edu", "password": "letmein"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
