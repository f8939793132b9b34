package controllers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/middleware"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
)

var validate = validator.New()

// listFilterKey carries a narrowing filter from route middleware into the
// list handler (nested routes).
const listFilterKey = "listFilter"

// Store is the persistence capability the handler factory needs. The
// repository generic store satisfies it; tests substitute fakes.
type Store[T any] interface {
	Find(ctx context.Context, values url.Values, extra bson.M) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc *T) error
	UpdateByID(ctx context.Context, id string, patch bson.M) (*T, error)
	DeleteByID(ctx context.Context, id string) error
}

// GetAll builds the list handler for a resource. The response keys the
// collection by the plural resource name and carries its count.
func GetAll[T any](store Store[T], resource string) gin.HandlerFunc {
	return middleware.Wrap(func(c *gin.Context) error {
		docs, err := store.Find(c.Request.Context(), c.Request.URL.Query(), ListFilter(c))
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.List(gin.H{resource: docs}, len(docs)))
		return nil
	})
}

// GetOne builds the single-document handler for a resource.
func GetOne[T any](store Store[T], resource string) gin.HandlerFunc {
	return middleware.Wrap(func(c *gin.Context) error {
		doc, err := store.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.Success(gin.H{resource: doc}))
		return nil
	})
}

// CreateOne builds the create handler for a resource.
func CreateOne[T any](store Store[T], resource string) gin.HandlerFunc {
	return middleware.Wrap(func(c *gin.Context) error {
		doc := new(T)
		if err := bindJSON(c, doc); err != nil {
			return err
		}
		if err := store.Create(c.Request.Context(), doc); err != nil {
			return err
		}
		c.JSON(http.StatusCreated, dto.Success(gin.H{resource: doc}))
		return nil
	})
}

// UpdateOne builds the partial-update handler for a resource. The body is a
// flat patch; absent fields stay untouched.
func UpdateOne[T any](store Store[T], resource string) gin.HandlerFunc {
	return middleware.Wrap(func(c *gin.Context) error {
		patch := bson.M{}
		if err := bindJSON(c, &patch); err != nil {
			return err
		}
		doc, err := store.UpdateByID(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.Success(gin.H{resource: doc}))
		return nil
	})
}

// DeleteOne builds the delete handler for a resource. Success answers 204
// with no body.
func DeleteOne[T any](store Store[T]) gin.HandlerFunc {
	return middleware.Wrap(func(c *gin.Context) error {
		if err := store.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
			return err
		}
		c.Status(http.StatusNoContent)
		return nil
	})
}

// SetListFilter stores a narrowing filter for the downstream list handler.
func SetListFilter(c *gin.Context, filter bson.M) {
	c.Set(listFilterKey, filter)
}

// ListFilter returns the narrowing filter set by route middleware, if any.
func ListFilter(c *gin.Context) bson.M {
	if value, exists := c.Get(listFilterKey); exists {
		if filter, ok := value.(bson.M); ok {
			return filter
		}
	}
	return nil
}

// bindJSON decodes the request body, reporting malformed input as an
// operational 400.
func bindJSON(c *gin.Context, target interface{}) error {
	if err := c.ShouldBindJSON(target); err != nil {
		return apperrors.NewBadRequestError("Invalid request body")
	}
	return nil
}

// bindAndValidate decodes and validates a request DTO.
func bindAndValidate(c *gin.Context, target interface{}) error {
	if err := bindJSON(c, target); err != nil {
		return err
	}
	return validate.Struct(target)
}
