package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"luckycat-cli/internal/model"
)

func staticToken(tok string) TokenSource {
	return TokenFunc(func() string { return tok })
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, staticToken("tok-abc"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestLogin_NoAuthHeaderNeededButCSRFSent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"csrfToken": "csrf-1"})
	})
	var gotCSRF string
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s, want POST", r.Method)
		}
		gotCSRF = r.Header.Get("X-CSRFToken")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ann" || body["password"] != "pw" {
			t.Errorf("unexpected body: %v", body)
		}
		writeJSON(t, w, map[string]string{"access": "acc", "refresh": "ref"})
	})

	c, _ := newTestClient(t, mux)
	pair, err := c.Login(context.Background(), "ann", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.Access != "acc" || pair.Refresh != "ref" {
		t.Fatalf("pair=%+v", pair)
	}
	if gotCSRF != "csrf-1" {
		t.Fatalf("CSRF header=%q, want csrf-1", gotCSRF)
	}
}

func TestGet_CarriesBearerToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/profiles/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Errorf("Authorization=%q", got)
		}
		writeJSON(t, w, model.Profile{ID: 9, Username: "ann"})
	})

	c, _ := newTestClient(t, mux)
	p, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if p.ID != 9 || p.Username != "ann" {
		t.Fatalf("profile=%+v", p)
	}
}

func TestSittingMessages_FollowsCursors(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/posts/sitting-messages/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") == "p2" {
			writeJSON(t, w, model.Page[model.SittingMessage]{
				Results: []model.SittingMessage{{ID: 3, SittingRequest: 2}},
			})
			return
		}
		next := srv.URL + "/posts/sitting-messages/?cursor=p2"
		writeJSON(t, w, model.Page[model.SittingMessage]{
			Next: &next,
			Results: []model.SittingMessage{
				{ID: 1, SittingRequest: 2},
				{ID: 2, SittingRequest: 5},
			},
		})
	})

	c, s := newTestClient(t, mux)
	srv = s
	msgs, err := c.SittingMessages(context.Background())
	if err != nil {
		t.Fatalf("SittingMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len=%d, want 3 (both pages)", len(msgs))
	}
	if msgs[2].ID != 3 {
		t.Fatalf("last message=%+v", msgs[2])
	}
}

func TestManageRequest_SendsAction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"csrfToken": "c"})
	})
	var gotAction string
	mux.HandleFunc("/posts/requests/manage/12/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotAction = body["action"]
		w.WriteHeader(http.StatusNoContent)
	})

	c, _ := newTestClient(t, mux)
	if err := c.ManageRequest(context.Background(), 12, RequestActionAccept); err != nil {
		t.Fatalf("ManageRequest: %v", err)
	}
	if gotAction != "accept" {
		t.Fatalf("action=%q, want accept", gotAction)
	}
}

func TestAPIError_DetailAndNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts/44/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]string{"detail": "Not found."})
	})

	c, _ := newTestClient(t, mux)
	_, err := c.Post(context.Background(), 44)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound=false for %v", err)
	}
	ae, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if ae.Detail != "Not found." {
		t.Fatalf("detail=%q", ae.Detail)
	}
}

func TestPasswordResetConfirm_SendsUIDTokenAndBothPasswords(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"csrfToken": "c"})
	})
	var got map[string]string
	mux.HandleFunc("/auth/password/reset/confirm/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s, want POST", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	})

	c, _ := newTestClient(t, mux)
	if err := c.PasswordResetConfirm(context.Background(), "uid-1", "tok-9", "newpw", "newpw"); err != nil {
		t.Fatalf("PasswordResetConfirm: %v", err)
	}
	want := map[string]string{
		"uid":           "uid-1",
		"token":         "tok-9",
		"new_password1": "newpw",
		"new_password2": "newpw",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("payload[%s]=%q, want %q (full payload: %v)", k, got[k], v, got)
		}
	}
}

func TestCreatePost_Multipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"csrfToken": "c"})
	})
	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if got := r.FormValue("title"); got != "Need a sitter" {
			t.Errorf("title=%q", got)
		}
		writeJSON(t, w, model.Post{ID: 5, Title: r.FormValue("title")})
	})

	c, _ := newTestClient(t, mux)
	p, err := c.CreatePost(context.Background(), CreatePostInput{Title: "Need a sitter", Category: "weekend"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if p.ID != 5 {
		t.Fatalf("post=%+v", p)
	}
}
