package apierrors

import (
	"errors"
	"net/http"

	"revenue-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Mapping ties a domain sentinel error to the response a client sees
type Mapping struct {
	Err     error
	Status  int
	Code    string
	Message string
}

// storeMappings apply after the handler's own mappings
var storeMappings = []Mapping{
	{Err: store.ErrNotFound, Status: http.StatusNotFound, Code: CodeNotFound, Message: "Resource not found"},
	{Err: store.ErrConflict, Status: http.StatusConflict, Code: CodeConflict, Message: "Resource was modified concurrently, retry"},
	{Err: store.ErrDuplicate, Status: http.StatusConflict, Code: CodeConflict, Message: "Resource already exists"},
}

// RespondWithError sends the response of the first mapping whose error matches
// err. Validation errors become a 400 and anything unmapped a sanitized 500.
//
//	if err != nil {
//	    apierrors.RespondWithError(c, err, errorMappings...)
//	    return
//	}
func RespondWithError(c *gin.Context, err error, mappings ...Mapping) {
	if err == nil {
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(c, err)
		return
	}

	if m, ok := Lookup(err, mappings...); ok {
		respond(c, m.Status, m.Code, m.Message)
		return
	}
	InternalError(c, err)
}

// Lookup finds the mapping for err among mappings, then the store defaults
func Lookup(err error, mappings ...Mapping) (Mapping, bool) {
	for _, list := range [][]Mapping{mappings, storeMappings} {
		for _, m := range list {
			if errors.Is(err, m.Err) {
				return m, true
			}
		}
	}
	return Mapping{}, false
}
