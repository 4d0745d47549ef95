package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/models"
	"github.com/Micolomike/Xchange/internal/services"
)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	r.POST("/users", handler.CreateUser)
	r.GET("/users", handler.ListUsers)
	r.GET("/users/:id", handler.GetUser)
	r.PUT("/users/:id", handler.UpdateUser)
	r.DELETE("/users/:id", handler.DeleteUser)
	return r
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		svc := &mockUserService{
			createUserFn: func(input services.CreateUserInput) (*models.User, error) {
				if input.FirstName != "Ada" || input.Email != "ada@example.com" {
					t.Errorf("unexpected input: %+v", input)
				}
				return &models.User{Base: models.Base{ID: 2}}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc))

		rec := doRequest(r, "POST", "/users",
			`{"username":"ada","password":"secret","email":"ada@example.com","firstname":"Ada","lastname":"L"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["id"] != float64(2) {
			t.Error("expected id 2")
		}
	})

	t.Run("returns 400 on bad username", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/users", `{"username":"a b","password":"secret"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad email", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/users", `{"username":"ada","password":"secret","email":"nope"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	svc := &mockUserService{
		listUsersFn: func() ([]models.User, error) {
			return []models.User{
				{Base: models.Base{ID: 1}, Username: "a", Password: "hash-a"},
				{Base: models.Base{ID: 2}, Username: "b", Password: "hash-b"},
			}, nil
		},
	}
	r := setupUserRouter(NewUserHandler(svc))

	rec := doRequest(r, "GET", "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, `"password"`) {
		t.Errorf("response must not contain password: %s", body)
	}
}

func TestUserHandler_GetUser(t *testing.T) {
	svc := &mockUserService{
		getUserByIDFn: func(uint) (*models.User, error) { return nil, apperrors.ErrUserNotFound },
	}
	r := setupUserRouter(NewUserHandler(svc))

	rec := doRequest(r, "GET", "/users/9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
}

func TestUserHandler_UpdateUser(t *testing.T) {
	t.Run("passes only supplied fields", func(t *testing.T) {
		svc := &mockUserService{
			updateUserFn: func(id uint, input services.UpdateUserInput) (*models.User, error) {
				if input.Email == nil || *input.Email != "new@example.com" {
					t.Errorf("expected email to be set, got %v", input.Email)
				}
				if input.Username != nil || input.Password != nil || input.FirstName != nil {
					t.Error("expected omitted fields to be nil")
				}
				return &models.User{}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc))

		rec := doRequest(r, "PUT", "/users/3", `{"email":"new@example.com"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on bad email", func(t *testing.T) {
		svc := &mockUserService{
			updateUserFn: func(uint, services.UpdateUserInput) (*models.User, error) {
				t.Error("service must not be called with an invalid email")
				return &models.User{}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc))

		rec := doRequest(r, "PUT", "/users/3", `{"email":"nope"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("allows clearing email", func(t *testing.T) {
		svc := &mockUserService{
			updateUserFn: func(id uint, input services.UpdateUserInput) (*models.User, error) {
				if input.Email == nil || *input.Email != "" {
					t.Errorf("expected empty email, got %v", input.Email)
				}
				return &models.User{}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(svc))

		rec := doRequest(r, "PUT", "/users/3", `{"email":""}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 on duplicate username", func(t *testing.T) {
		svc := &mockUserService{
			updateUserFn: func(uint, services.UpdateUserInput) (*models.User, error) {
				return nil, apperrors.ErrUsernameTaken
			},
		}
		r := setupUserRouter(NewUserHandler(svc))

		rec := doRequest(r, "PUT", "/users/3", `{"username":"taken"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	var deleted uint
	svc := &mockUserService{
		deleteUserFn: func(id uint) error {
			deleted = id
			return nil
		},
	}
	r := setupUserRouter(NewUserHandler(svc))

	rec := doRequest(r, "DELETE", "/users/6", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != 6 {
		t.Errorf("expected user 6 to be deleted, got %d", deleted)
	}
}
