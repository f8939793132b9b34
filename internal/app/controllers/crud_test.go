package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
)

type note struct {
	Name string `json:"name"`
}

// fakeStore records calls and returns canned results.
type fakeStore struct {
	docs       []note
	findErr    error
	lastValues url.Values
	lastExtra  bson.M
	lastPatch  bson.M
	created    *note
	deletedID  string
}

func (s *fakeStore) Find(ctx context.Context, values url.Values, extra bson.M) ([]note, error) {
	s.lastValues = values
	s.lastExtra = extra
	return s.docs, s.findErr
}

func (s *fakeStore) FindByID(ctx context.Context, id string) (*note, error) {
	for i := range s.docs {
		if s.docs[i].Name == id {
			return &s.docs[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("No document found with that ID")
}

func (s *fakeStore) Create(ctx context.Context, doc *note) error {
	s.created = doc
	return nil
}

func (s *fakeStore) UpdateByID(ctx context.Context, id string, patch bson.M) (*note, error) {
	s.lastPatch = patch
	if name, ok := patch["name"].(string); ok {
		return &note{Name: name}, nil
	}
	return nil, apperrors.NewNotFoundError("No document found with that ID")
}

func (s *fakeStore) DeleteByID(ctx context.Context, id string) error {
	if id == "missing" {
		return apperrors.NewNotFoundError("No document found with that ID")
	}
	s.deletedID = id
	return nil
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Envelope {
	t.Helper()
	var env dto.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

func TestGetAllWrapsListEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{docs: []note{{Name: "one"}, {Name: "two"}}}
	router := gin.New()
	router.GET("/notes", GetAll[note](store, "notes"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes?sort=name", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, w)
	if env.Status != "success" {
		t.Errorf("envelope status = %q", env.Status)
	}
	if env.Results == nil || *env.Results != 2 {
		t.Errorf("results = %v, want 2", env.Results)
	}
	if store.lastValues.Get("sort") != "name" {
		t.Error("query values should reach the store untouched")
	}
}

func TestGetAllForwardsListFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	router := gin.New()
	router.GET("/notes",
		func(c *gin.Context) { SetListFilter(c, bson.M{"tour": "abc"}) },
		GetAll[note](store, "notes"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))

	if store.lastExtra == nil || store.lastExtra["tour"] != "abc" {
		t.Errorf("extra filter = %#v, want tour=abc", store.lastExtra)
	}
}

func TestGetOneNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	router := gin.New()
	router.GET("/notes/:id", GetOne[note](store, "note"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if env := decodeEnvelope(t, w); env.Status != "fail" {
		t.Errorf("envelope status = %q, want fail", env.Status)
	}
}

func TestCreateOneAnswers201(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	router := gin.New()
	router.POST("/notes", CreateOne[note](store, "note"))

	body := strings.NewReader(`{"name":"fresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/notes", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if store.created == nil || store.created.Name != "fresh" {
		t.Errorf("created = %#v", store.created)
	}
}

func TestCreateOneRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	router := gin.New()
	router.POST("/notes", CreateOne[note](store, "note"))

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if store.created != nil {
		t.Error("store must not be reached on malformed input")
	}
}

func TestUpdateOnePassesPatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	router := gin.New()
	router.PATCH("/notes/:id", UpdateOne[note](store, "note"))

	body := strings.NewReader(`{"name":"renamed"}`)
	req := httptest.NewRequest(http.MethodPatch, "/notes/abc", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if store.lastPatch["name"] != "renamed" {
		t.Errorf("patch = %#v", store.lastPatch)
	}
}

func TestDeleteOneAnswers204(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	router := gin.New()
	router.DELETE("/notes/:id", DeleteOne[note](store))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notes/abc", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Body.Len() != 0 {
		t.Error("delete response must have no body")
	}
	if store.deletedID != "abc" {
		t.Errorf("deleted id = %q, want abc", store.deletedID)
	}
}

func TestDeleteOneMissingIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeStore{}
	router := gin.New()
	router.DELETE("/notes/:id", DeleteOne[note](store))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notes/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
