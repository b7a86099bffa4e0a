package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"

	"github.com/gorilla/mux"
)

// decodeAndValidate reads a JSON body into req and validates it. On failure
// the error response is already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}

	return true
}

// decodeOptional reads a JSON body that may be absent.
func decodeOptional(r *http.Request, req interface{}) error {
	err := json.NewDecoder(r.Body).Decode(req)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func pathID(w http.ResponseWriter, r *http.Request, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional positive id from the query string.
func queryID(w http.ResponseWriter, r *http.Request, name string) (*uint, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// pageQuery reads page and limit. Missing or malformed values fall back to
// the defaults applied downstream.
func pageQuery(r *http.Request) dto.PageQuery {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return dto.PageQuery{Page: page, Limit: limit}
}

func respondPage[T any](w http.ResponseWriter, message string, page *dto.Paginated[T]) {
	meta := response.NewMeta(page.Page, page.Limit, page.Total)
	response.SuccessWithMeta(w, http.StatusOK, message, page.Items, meta)
}
