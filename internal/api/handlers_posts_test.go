// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/vericapture/vericapture/internal/models"
)

func TestCreatePost(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")

	post := api.createPost(t, cookie, "traffic", "Gridlock on Third Mainland Bridge")

	if post.ID == "" {
		t.Fatal("expected a post ID")
	}
	if post.Category != "traffic" {
		t.Errorf("category = %q, want traffic", post.Category)
	}
	if post.Caption != "Gridlock on Third Mainland Bridge" {
		t.Errorf("caption = %q", post.Caption)
	}
	if post.MediaURL == "" {
		t.Error("expected a media URL from the upload")
	}
	if post.LikeCount != 0 || post.CommentCount != 0 || post.ShareCount != 0 {
		t.Errorf("counters not zero: %d/%d/%d", post.LikeCount, post.CommentCount, post.ShareCount)
	}
	if got := api.uploader.uploadCount(); got != 1 {
		t.Errorf("uploader called %d times, want 1", got)
	}
}

func TestCreatePostRequiresMedia(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")

	body, contentType := multipartBody(t, map[string]string{
		"category": "crime",
		"caption":  "no file attached",
	}, "", "", nil)

	rec := api.do(t, http.MethodPost, "/api/v1/posts/create", body, func(r *http.Request) {
		r.Header.Set("Content-Type", contentType)
		r.AddCookie(cookie)
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != MsgMediaRequired {
		t.Errorf("message = %q, want %q", resp.Message, MsgMediaRequired)
	}
}

func TestCreatePostRejectsNonMediaContent(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")

	body, contentType := multipartBody(t, map[string]string{
		"category": "general",
	}, "media", "notes.txt", []byte("just some plain text, not a capture"))

	rec := api.do(t, http.MethodPost, "/api/v1/posts/create", body, func(r *http.Request) {
		r.Header.Set("Content-Type", contentType)
		r.AddCookie(cookie)
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != MsgMediaUnsupported {
		t.Errorf("message = %q, want %q", resp.Message, MsgMediaUnsupported)
	}
	if got := api.uploader.uploadCount(); got != 0 {
		t.Errorf("uploader called %d times for rejected content, want 0", got)
	}
}

func TestCreatePostInvalidCategory(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")

	body, contentType := multipartBody(t, map[string]string{
		"category": "gossip",
	}, "media", "clip.png", pngHeader())

	rec := api.do(t, http.MethodPost, "/api/v1/posts/create", body, func(r *http.Request) {
		r.Header.Set("Content-Type", contentType)
		r.AddCookie(cookie)
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")

	first := api.createPost(t, cookie, "general", "first")
	second := api.createPost(t, cookie, "general", "second")

	rec := api.do(t, http.MethodGet, "/api/v1/posts", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page struct {
		Page       int           `json:"page"`
		Total      int           `json:"total"`
		TotalPages int           `json:"totalPages"`
		Data       []models.Post `json:"data"`
	}
	decodeData(t, decodeEnvelope(t, rec), &page)

	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}
	if len(page.Data) != 2 {
		t.Fatalf("got %d posts, want 2", len(page.Data))
	}
	if page.Data[0].ID != second.ID || page.Data[1].ID != first.ID {
		t.Errorf("feed order = [%s %s], want newest first", page.Data[0].ID, page.Data[1].ID)
	}
	for _, p := range page.Data {
		if p.Author == nil || p.Author.FirstName != "Ada" {
			t.Errorf("post %s author = %+v, want Ada", p.ID, p.Author)
		}
	}
}

func TestListPostsPagination(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")

	for i := 0; i < 5; i++ {
		api.createPost(t, cookie, "general", fmt.Sprintf("post %d", i))
	}

	rec := api.do(t, http.MethodGet, "/api/v1/posts?page=2&limit=2", nil, withCookie(cookie))
	var page struct {
		Page       int           `json:"page"`
		Limit      int           `json:"limit"`
		Total      int           `json:"total"`
		TotalPages int           `json:"totalPages"`
		Data       []models.Post `json:"data"`
	}
	decodeData(t, decodeEnvelope(t, rec), &page)

	if page.Page != 2 || page.Limit != 2 {
		t.Errorf("page/limit = %d/%d, want 2/2", page.Page, page.Limit)
	}
	if page.Total != 5 || page.TotalPages != 3 {
		t.Errorf("total/totalPages = %d/%d, want 5/3", page.Total, page.TotalPages)
	}
	if len(page.Data) != 2 {
		t.Errorf("got %d posts on page 2, want 2", len(page.Data))
	}
}

func TestListPostsByCategory(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")

	api.createPost(t, cookie, "crime", "break-in reported")
	api.createPost(t, cookie, "traffic", "slow moving lane")

	rec := api.do(t, http.MethodGet, "/api/v1/posts/category/crime", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page struct {
		Total int           `json:"total"`
		Data  []models.Post `json:"data"`
	}
	decodeData(t, decodeEnvelope(t, rec), &page)
	if page.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("total = %d, len = %d, want 1/1", page.Total, len(page.Data))
	}
	if page.Data[0].Category != "crime" {
		t.Errorf("category = %q, want crime", page.Data[0].Category)
	}

	rec = api.do(t, http.MethodGet, "/api/v1/posts/category/gossip", nil, withCookie(cookie))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d, want 400", rec.Code)
	}
}

func TestListMyPosts(t *testing.T) {
	api := newTestAPI(t)
	ada := api.registerUser(t, "Ada", "ada@example.com")
	zed := api.registerUser(t, "Zed", "zed@example.com")

	api.createPost(t, ada, "general", "ada's post")
	api.createPost(t, zed, "general", "zed's post")

	rec := api.do(t, http.MethodGet, "/api/v1/posts/user", nil, withCookie(ada))
	var page struct {
		Total int           `json:"total"`
		Data  []models.Post `json:"data"`
	}
	decodeData(t, decodeEnvelope(t, rec), &page)
	if page.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Total)
	}
	if page.Data[0].Caption != "ada's post" {
		t.Errorf("caption = %q, want ada's post", page.Data[0].Caption)
	}
}

func TestGetPost(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")
	post := api.createPost(t, cookie, "riot", "crowd forming downtown")

	rec := api.do(t, http.MethodGet, "/api/v1/posts/"+post.ID, nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got models.Post
	decodeData(t, decodeEnvelope(t, rec), &got)
	if got.ID != post.ID {
		t.Errorf("id = %q, want %q", got.ID, post.ID)
	}

	rec = api.do(t, http.MethodGet, "/api/v1/posts/missing", nil, withCookie(cookie))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing post status = %d, want 404", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != MsgPostNotFound {
		t.Errorf("message = %q, want %q", resp.Message, MsgPostNotFound)
	}
}

func TestUpdatePost(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")
	post := api.createPost(t, cookie, "general", "old caption")

	rec := api.doJSON(t, http.MethodPatch, "/api/v1/posts/update/"+post.ID, map[string]string{
		"caption":  "new caption",
		"category": "Traffic",
	}, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got models.Post
	decodeData(t, decodeEnvelope(t, rec), &got)
	if got.Caption != "new caption" {
		t.Errorf("caption = %q", got.Caption)
	}
	if got.Category != "traffic" {
		t.Errorf("category = %q, want lowercased traffic", got.Category)
	}
}

func TestUpdatePostNotOwner(t *testing.T) {
	api := newTestAPI(t)
	ada := api.registerUser(t, "Ada", "ada@example.com")
	zed := api.registerUser(t, "Zed", "zed@example.com")
	post := api.createPost(t, ada, "general", "ada's post")

	rec := api.doJSON(t, http.MethodPatch, "/api/v1/posts/update/"+post.ID, map[string]string{
		"caption": "hijacked",
	}, withCookie(zed))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != MsgNotOwner {
		t.Errorf("message = %q, want %q", resp.Message, MsgNotOwner)
	}
}

func TestDeletePost(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")
	post := api.createPost(t, cookie, "general", "to be removed")

	rec := api.do(t, http.MethodDelete, "/api/v1/posts/delete/"+post.ID, nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	found := false
	for _, id := range api.uploader.destroyedIDs() {
		if id == post.CloudinaryID {
			found = true
		}
	}
	if !found {
		t.Errorf("media asset %q was not destroyed", post.CloudinaryID)
	}

	rec = api.do(t, http.MethodGet, "/api/v1/posts/"+post.ID, nil, withCookie(cookie))
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted post status = %d, want 404", rec.Code)
	}
}

func TestDeletePostNotOwner(t *testing.T) {
	api := newTestAPI(t)
	ada := api.registerUser(t, "Ada", "ada@example.com")
	zed := api.registerUser(t, "Zed", "zed@example.com")
	post := api.createPost(t, ada, "general", "ada's post")

	rec := api.do(t, http.MethodDelete, "/api/v1/posts/delete/"+post.ID, nil, withCookie(zed))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestLikePostToggles(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")
	post := api.createPost(t, cookie, "general", "likeable")

	rec := api.do(t, http.MethodPost, "/api/v1/posts/like/"+post.ID, nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result models.LikeResult
	decodeData(t, decodeEnvelope(t, rec), &result)
	if !result.Liked || result.LikeCount != 1 {
		t.Errorf("first toggle = %+v, want liked with count 1", result)
	}

	rec = api.do(t, http.MethodPost, "/api/v1/posts/like/"+post.ID, nil, withCookie(cookie))
	decodeData(t, decodeEnvelope(t, rec), &result)
	if result.Liked || result.LikeCount != 0 {
		t.Errorf("second toggle = %+v, want unliked with count 0", result)
	}

	rec = api.do(t, http.MethodPost, "/api/v1/posts/like/missing", nil, withCookie(cookie))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing post like status = %d, want 404", rec.Code)
	}
}

func TestSharePost(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.registerUser(t, "Ada", "ada@example.com")
	post := api.createPost(t, cookie, "general", "shareable")

	for want := 1; want <= 2; want++ {
		rec := api.do(t, http.MethodPost, "/api/v1/posts/share/"+post.ID, nil, withCookie(cookie))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var data struct {
			ShareCount int `json:"shareCount"`
		}
		decodeData(t, decodeEnvelope(t, rec), &data)
		if data.ShareCount != want {
			t.Errorf("shareCount = %d, want %d", data.ShareCount, want)
		}
	}
}
