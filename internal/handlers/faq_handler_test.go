package handlers

import (
	"net/http"
	"testing"

	"job-portal-api/internal/auth"
	"job-portal-api/internal/cache"
	"job-portal-api/internal/middleware"
	"job-portal-api/internal/models"

	"github.com/stretchr/testify/require"
)

func faqRoutes(e *testEnv) {
	e.api.GET("/faqs", e.h.GetFAQs)
	e.api.GET("/faqs/search",
		middleware.ResponseCache(e.h.Cache, middleware.WithTTL(e.h.TTL.FAQTTL), middleware.WithTags(cache.TagFAQs)),
		e.h.SearchFAQs)
	e.api.POST("/admin/faqs", e.h.CreateFAQ)
	e.api.DELETE("/admin/faqs/:id", e.h.DeleteFAQ)
}

func TestGetFAQs_OrderedAndCached(t *testing.T) {
	e := newTestEnv(t)
	faqRoutes(e)
	require.NoError(t, e.h.DB.Create(&models.FAQ{ID: "f-2", Question: "How do I apply?", Answer: "Click apply", Position: 2}).Error)
	require.NoError(t, e.h.DB.Create(&models.FAQ{ID: "f-1", Question: "What is this?", Answer: "A job portal", Position: 1}).Error)

	w := e.do(http.MethodGet, "/api/faqs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	faqs := decode(t, w)["faqs"].([]any)
	require.Len(t, faqs, 2)
	require.Equal(t, "f-1", faqs[0].(map[string]any)["id"])
	require.True(t, e.h.Cache.Has(cache.FAQKey))

	w = e.do(http.MethodGet, "/api/faqs", "", nil)
	require.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestCreateFAQ_InvalidatesListingAndSearch(t *testing.T) {
	e := newTestEnv(t)
	faqRoutes(e)
	admin := e.token(t, "admin-1", auth.RoleAdmin)

	e.do(http.MethodGet, "/api/faqs", "", nil)
	w := e.do(http.MethodGet, "/api/faqs/search?q=resume", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 0, decode(t, w)["count"])
	require.Equal(t, 2, e.h.Cache.Len())

	w = e.do(http.MethodPost, "/api/admin/faqs", admin, map[string]any{
		"question": "Can I upload a resume?",
		"answer":   "Yes, as PDF",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 0, e.h.Cache.Len())

	w = e.do(http.MethodGet, "/api/faqs/search?q=resume", "", nil)
	require.Equal(t, "MISS", w.Header().Get("X-Cache"))
	require.EqualValues(t, 1, decode(t, w)["count"])
}

func TestSearchFAQs_RequiresQuery(t *testing.T) {
	e := newTestEnv(t)
	faqRoutes(e)

	w := e.do(http.MethodGet, "/api/faqs/search", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 0, e.h.Cache.Len())
}

func TestDeleteFAQ(t *testing.T) {
	e := newTestEnv(t)
	faqRoutes(e)
	admin := e.token(t, "admin-1", auth.RoleAdmin)
	require.NoError(t, e.h.DB.Create(&models.FAQ{ID: "f-1", Question: "q", Answer: "a"}).Error)
	e.do(http.MethodGet, "/api/faqs", "", nil)

	w := e.do(http.MethodDelete, "/api/admin/faqs/f-1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, e.h.Cache.Has(cache.FAQKey))

	w = e.do(http.MethodDelete, "/api/admin/faqs/f-1", admin, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
