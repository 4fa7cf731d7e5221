package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spendwise/SpendWise/internal/finance/domain"
)

func testPreferences() *domain.UserPreferences {
	return &domain.UserPreferences{
		Currency: domain.CurrencyEUR,
		Categories: domain.CategorySet{
			{ID: "c1", Name: "Food"},
			{ID: "c2", Name: "Other"},
		},
	}
}

func TestGetPreferences_Success(t *testing.T) {
	req := authedRequest(http.MethodGet, "/preferences", "")
	w := httptest.NewRecorder()

	handler := NewCategoryHandler(&MockCategoryService{preferences: testPreferences()}, respondJSON, respondError)
	handler.GetPreferences(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response struct {
		Data domain.UserPreferences `json:"data"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, domain.CurrencyEUR, response.Data.Currency)
	assert.Len(t, response.Data.Categories, 2)
}

func TestAddCategory_Success_HTTP(t *testing.T) {
	req := authedRequest(http.MethodPost, "/categories", `{"name":"Gadgets"}`)
	w := httptest.NewRecorder()

	handler := NewCategoryHandler(&MockCategoryService{preferences: testPreferences()}, respondJSON, respondError)
	handler.AddCategory(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var response struct {
		Data domain.Category `json:"data"`
	}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "Gadgets", response.Data.Name)
}

func TestAddCategory_Duplicate(t *testing.T) {
	req := authedRequest(http.MethodPost, "/categories", `{"name":"food"}`)
	w := httptest.NewRecorder()

	handler := NewCategoryHandler(&MockCategoryService{addErr: domain.ErrDuplicateCategoryName}, respondJSON, respondError)
	handler.AddCategory(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusConflict, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "Category already exists", response["message"])
}

func TestAddCategory_BlankName(t *testing.T) {
	req := authedRequest(http.MethodPost, "/categories", `{"name":"   "}`)
	w := httptest.NewRecorder()

	handler := NewCategoryHandler(&MockCategoryService{addErr: domain.ErrBlankCategoryName}, respondJSON, respondError)
	handler.AddCategory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestRemoveCategory_NotFound(t *testing.T) {
	req := authedRequest(http.MethodDelete, "/categories/missing", "")
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler := NewCategoryHandler(&MockCategoryService{removeErr: domain.ErrCategoryNotFound}, respondJSON, respondError)
	handler.RemoveCategory(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestUpdateCurrency_Success(t *testing.T) {
	req := authedRequest(http.MethodPut, "/preferences/currency", `{"currency":"rsd"}`)
	w := httptest.NewRecorder()

	handler := NewCategoryHandler(&MockCategoryService{preferences: testPreferences()}, respondJSON, respondError)
	handler.UpdateCurrency(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestUpdateCurrency_Unsupported(t *testing.T) {
	req := authedRequest(http.MethodPut, "/preferences/currency", `{"currency":"GBP"}`)
	w := httptest.NewRecorder()

	handler := NewCategoryHandler(&MockCategoryService{preferences: testPreferences()}, respondJSON, respondError)
	handler.UpdateCurrency(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "Invalid currency code", response["message"])
}
