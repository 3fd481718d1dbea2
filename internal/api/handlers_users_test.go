// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/models"
)

func TestRegister(t *testing.T) {
	a := newTestAPI(t)

	rec := a.doJSON(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"firstName": "Ada",
		"lastName":  "Obi",
		"email":     "ada@example.com",
		"password":  "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	if !resp.Success || resp.Message != MsgRegistrationSuccessful {
		t.Errorf("envelope = %+v, want success with %q", resp, MsgRegistrationSuccessful)
	}

	var user models.PublicUser
	decodeData(t, resp, &user)
	if user.Email != "ada@example.com" {
		t.Errorf("email = %q, want ada@example.com", user.Email)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("response leaks password material")
	}

	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Error("session cookie must be SameSite=Strict")
	}
}

func TestRegisterMissingFields(t *testing.T) {
	a := newTestAPI(t)

	rec := a.doJSON(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"firstName": "Ada",
		"email":     "ada@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != MsgRegisterFieldsRequired {
		t.Errorf("message = %q, want %q", resp.Message, MsgRegisterFieldsRequired)
	}
}

func TestRegisterDuplicateEmailCleansUpAvatar(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser(t, "Ada", "ada@example.com")

	body, contentType := multipartBody(t, map[string]string{
		"firstName": "Another",
		"lastName":  "User",
		"email":     "ada@example.com",
		"password":  "hunter22",
	}, "thumbnail", "avatar.png", pngHeader())

	rec := a.do(t, http.MethodPost, "/api/v1/users/register", body, func(r *http.Request) {
		r.Header.Set("Content-Type", contentType)
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", rec.Code, rec.Body.String())
	}
	if got := a.uploader.uploadCount(); got != 1 {
		t.Fatalf("uploader called %d times, want 1", got)
	}
	destroyed := a.uploader.destroyedIDs()
	if len(destroyed) != 1 || destroyed[0] != "pub-1" {
		t.Errorf("destroyed assets = %v, want the rejected avatar", destroyed)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser(t, "Ada", "ada@example.com")

	rec := a.doJSON(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"firstName": "Another",
		"lastName":  "User",
		"email":     "ada@example.com",
		"password":  "hunter22",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != MsgUserExists {
		t.Errorf("message = %q, want %q", resp.Message, MsgUserExists)
	}
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser(t, "Ada", "ada@example.com")

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantMsg    string
	}{
		{"valid credentials", "ada@example.com", "hunter22", http.StatusOK, MsgLoginSuccessful},
		{"wrong password", "ada@example.com", "wrong-pass", http.StatusUnauthorized, MsgInvalidCredentials},
		{"unknown email", "ghost@example.com", "hunter22", http.StatusUnauthorized, MsgInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.doJSON(t, http.MethodPost, "/api/v1/users/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMsg)
			}
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.registerUser(t, "Ada", "ada@example.com")

	rec := a.do(t, http.MethodPost, "/api/v1/users/logout", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cleared := sessionCookie(t, rec)
	if cleared.MaxAge >= 0 {
		t.Errorf("cookie MaxAge = %d, want negative (expired)", cleared.MaxAge)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	a := newTestAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/current"},
		{http.MethodGet, "/api/v1/posts/"},
		{http.MethodPost, "/api/v1/posts/like/p1"},
		{http.MethodDelete, "/api/v1/users/delete"},
	}

	for _, p := range paths {
		rec := a.do(t, p.method, p.path, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", p.method, p.path, rec.Code)
			continue
		}
		resp := decodeEnvelope(t, rec)
		if resp.Message != auth.UnauthorizedMessage {
			t.Errorf("%s %s: message = %q, want %q", p.method, p.path, resp.Message, auth.UnauthorizedMessage)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.registerUser(t, "Ada", "ada@example.com")

	rec := a.do(t, http.MethodGet, "/api/v1/users/current", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var user models.PublicUser
	decodeData(t, decodeEnvelope(t, rec), &user)
	if user.FirstName != "Ada" {
		t.Errorf("firstName = %q, want Ada", user.FirstName)
	}
}

func TestUpdateProfile(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.registerUser(t, "Ada", "ada@example.com")

	rec := a.doJSON(t, http.MethodPatch, "/api/v1/users/update", map[string]string{
		"firstName": "Adaeze",
		"userName":  "adaeze",
	}, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	if resp.Message != MsgProfileUpdated {
		t.Errorf("message = %q, want %q", resp.Message, MsgProfileUpdated)
	}

	var user models.PublicUser
	decodeData(t, resp, &user)
	if user.FirstName != "Adaeze" || user.UserName != "adaeze" {
		t.Errorf("profile = %+v, want updated firstName and userName", user)
	}
	// Untouched fields survive partial updates
	if user.LastName != "Tester" {
		t.Errorf("lastName = %q, want Tester", user.LastName)
	}
}

func TestDeleteAccount(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.registerUser(t, "Ada", "ada@example.com")
	post := a.createPost(t, cookie, "traffic", "gridlock")

	rec := a.do(t, http.MethodDelete, "/api/v1/users/delete", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != MsgAccountDeleted {
		t.Errorf("message = %q, want %q", resp.Message, MsgAccountDeleted)
	}

	// The post's media asset goes with the account
	found := false
	for _, id := range a.uploader.destroyedIDs() {
		if id == post.CloudinaryID {
			found = true
		}
	}
	if !found {
		t.Errorf("destroyed assets = %v, want to include %q", a.uploader.destroyedIDs(), post.CloudinaryID)
	}

	// The session is gone with the account
	login := a.doJSON(t, http.MethodPost, "/api/v1/users/login", map[string]string{
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	if login.Code != http.StatusUnauthorized {
		t.Errorf("login after delete: status = %d, want 401", login.Code)
	}
}

func TestSearchUsers(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.registerUser(t, "Ada", "ada@example.com")
	for i := 0; i < 3; i++ {
		a.registerUser(t, "Chidi", fmt.Sprintf("chidi%d@example.com", i))
	}

	t.Run("name required", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/v1/users/search", nil, withCookie(cookie))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if msg := decodeEnvelope(t, rec).Message; msg != MsgSearchNameRequired {
			t.Errorf("message = %q, want %q", msg, MsgSearchNameRequired)
		}
	})

	t.Run("matches", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/v1/users/search?name=Chidi&page=1&limit=2", nil, withCookie(cookie))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
		}

		var page models.UserSearchPage
		decodeData(t, decodeEnvelope(t, rec), &page)
		if page.TotalUsers != 3 || page.TotalPages != 2 {
			t.Errorf("page = %+v, want totalUsers 3 totalPages 2", page)
		}
	})

	t.Run("no users found", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/v1/users/search?name=Zed", nil, withCookie(cookie))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if msg := decodeEnvelope(t, rec).Message; msg != MsgNoUsersFound {
			t.Errorf("message = %q, want %q", msg, MsgNoUsersFound)
		}
	})

	t.Run("page past end", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/v1/users/search?name=Chidi&page=9", nil, withCookie(cookie))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if msg := decodeEnvelope(t, rec).Message; msg != MsgNoMorePages {
			t.Errorf("message = %q, want %q", msg, MsgNoMorePages)
		}
	})
}
