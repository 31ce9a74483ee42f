package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/middleware"
	"github.com/flamedough/api/internal/session"
)

const testSessionID = "sess-1"

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(middleware.SessionHeader, testSessionID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}

// storefrontRouter mounts register behind the session middleware, the way
// the server mounts /api.
func storefrontRouter(register func(chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(session.NewStore(), session.NewVerifier("")))
		register(r)
	})
	return r
}

// --- Catalog fixture ---

type staticCatalog struct {
	categories []catalog.Category
	restaurant *catalog.Restaurant
}

func (s *staticCatalog) PublishedCategories() []catalog.Category  { return s.categories }
func (s *staticCatalog) PublishedRestaurant() *catalog.Restaurant { return s.restaurant }

func testCatalog() *staticCatalog {
	adana := catalog.MenuItem{
		ID:          "adana",
		Name:        "Adana Kebap",
		Description: "Acılı zırh kıyması",
		Price:       180,
		Tags:        []string{"Acılı"},
		MaxQuantity: catalog.DefaultMaxQuantity,
		ModifierGroups: catalog.ModifierGroups{
			catalog.SingleSelectGroup{
				Name:     "Porsiyon",
				Required: true,
				Options: []catalog.ModifierOption{
					{ID: "tam", Name: "Tam", PriceDelta: 0},
					{ID: "bucuk", Name: "1.5 Porsiyon", PriceDelta: 60},
				},
			},
			catalog.MultiSelectGroup{
				Name:          "Ekstralar",
				MaxSelections: 2,
				Options: []catalog.ModifierOption{
					{ID: "cacik", Name: "Cacık", PriceDelta: 15},
					{ID: "ezme", Name: "Ezme", PriceDelta: 10},
				},
			},
			catalog.RemovalGroup{Name: "Çıkar", Ingredients: []string{"Soğan", "Maydanoz"}},
		},
	}
	kusbasi := catalog.MenuItem{
		ID:          "kusbasi",
		Name:        "Kuşbaşı",
		Price:       220,
		SoldOut:     true,
		MaxQuantity: catalog.DefaultMaxQuantity,
	}
	ayran := catalog.MenuItem{
		ID:          "ayran",
		Name:        "Ayran",
		Price:       20,
		MaxQuantity: catalog.DefaultMaxQuantity,
	}
	return &staticCatalog{
		categories: []catalog.Category{
			{ID: "kebaplar", Name: "Kebaplar", Items: []catalog.MenuItem{adana, kusbasi}},
			{ID: "icecekler", Name: "İçecekler", Items: []catalog.MenuItem{ayran}},
		},
		restaurant: &catalog.Restaurant{
			Name:              "Lezzet Kebap",
			IsOpen:            true,
			MinOrder:          80,
			DeliveryFee:       15,
			DeliveryAvailable: true,
			PickupAvailable:   true,
		},
	}
}
