package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/coffeebeans/shop/internal/domain/model"
	pkgAuth "github.com/coffeebeans/shop/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type verifierStub struct {
	userID int64
	err    error
}

func (v *verifierStub) ParseToken(string) (int64, error) {
	return v.userID, v.err
}

type profileStub struct {
	role string
	err  error
}

func (p *profileStub) Profile(_ context.Context, userID int64) (*model.User, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &model.User{ID: userID, Role: p.role}, nil
}

func serve(middlewares []gin.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, *int64) {
	router := gin.New()
	var seenUserID int64
	handlers := append(middlewares, func(c *gin.Context) {
		if val, ok := c.Get(UserIDContextKey); ok {
			seenUserID, _ = val.(int64)
		}
		c.Status(http.StatusOK)
	})
	router.GET("/protected", handlers...)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, &seenUserID
}

func TestAuthRequired(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, _ := serve([]gin.HandlerFunc{AuthRequired(&verifierStub{userID: 1})}, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", resp.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad")
		resp, _ := serve([]gin.HandlerFunc{AuthRequired(&verifierStub{err: pkgAuth.ErrInvalidToken})}, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", resp.Code)
		}
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, userID := serve([]gin.HandlerFunc{AuthRequired(&verifierStub{userID: 42})}, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
		if *userID != 42 {
			t.Fatalf("expected user 42 in context, got %d", *userID)
		}
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: "good"})
		resp, userID := serve([]gin.HandlerFunc{AuthRequired(&verifierStub{userID: 7})}, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
		if *userID != 7 {
			t.Fatalf("expected user 7 in context, got %d", *userID)
		}
	})
}

func TestAuthOptional(t *testing.T) {
	t.Run("anonymous passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, userID := serve([]gin.HandlerFunc{AuthOptional(&verifierStub{userID: 1})}, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
		if *userID != 0 {
			t.Fatalf("expected no user in context, got %d", *userID)
		}
	})

	t.Run("invalid token passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad")
		resp, userID := serve([]gin.HandlerFunc{AuthOptional(&verifierStub{err: pkgAuth.ErrInvalidToken})}, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
		if *userID != 0 {
			t.Fatalf("expected no user in context, got %d", *userID)
		}
	})

	t.Run("valid token attaches user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		_, userID := serve([]gin.HandlerFunc{AuthOptional(&verifierStub{userID: 9})}, req)
		if *userID != 9 {
			t.Fatalf("expected user 9 in context, got %d", *userID)
		}
	})
}

func TestAdminRequired(t *testing.T) {
	authed := func(role string, err error) []gin.HandlerFunc {
		return []gin.HandlerFunc{
			AuthRequired(&verifierStub{userID: 1}),
			AdminRequired(&profileStub{role: role, err: err}),
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, _ := serve(authed(AdminRole, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for admin, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, _ = serve(authed("customer", nil), req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-admin, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, _ = serve([]gin.HandlerFunc{AdminRequired(&profileStub{role: AdminRole})}, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without prior auth, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, _ = serve(authed("", errors.New("boom")), req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 on profile error, got %d", resp.Code)
	}
}

func TestSetAuthCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SetAuthCookie(c, "tok-1")

	if got := w.Header().Get("Authorization"); got != "Bearer tok-1" {
		t.Fatalf("expected auth header, got %q", got)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != authCookieName || cookies[0].Value != "tok-1" {
		t.Fatalf("expected token cookie, got %v", cookies)
	}
}
