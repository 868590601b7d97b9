package api

import (
	"net/http"
	"testing"
)

// createTestProfile creates a profile via the API and returns its ID.
func createTestProfile(t *testing.T, handler http.Handler, name, spec string) string {
	t.Helper()

	rec, body := doJSON(t, handler, http.MethodPost, "/api/v1/profiles/",
		map[string]any{"name": name, "spec": spec})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create profile status = %d, want %d: %v", rec.Code, http.StatusCreated, body)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		t.Fatalf("created profile has no ID: %v", body)
	}
	return id
}

func TestHandleCreateProfile(t *testing.T) {
	_, handler := newTestServer(t)

	t.Run("creates with generated id and slug", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodPost, "/api/v1/profiles/",
			map[string]any{"name": "GPU Workers", "spec": "/job:worker/gpu:*"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %v", rec.Code, http.StatusCreated, body)
		}
		if body["slug"] != "gpu-workers" {
			t.Errorf("slug = %v, want gpu-workers", body["slug"])
		}
		// Spec is stored canonicalised
		if body["spec"] != "/job:worker/device:GPU:*" {
			t.Errorf("spec = %v, want canonical form", body["spec"])
		}
	})

	t.Run("rejects invalid spec", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodPost, "/api/v1/profiles/",
			map[string]any{"name": "Broken", "spec": "/nope:1"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d: %v", rec.Code, http.StatusBadRequest, body)
		}
	})

	t.Run("rejects missing name", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/profiles/",
			map[string]any{"spec": "/job:worker"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("conflict on duplicate slug", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/profiles/",
			map[string]any{"name": "GPU Workers", "spec": "/job:other"})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})
}

func TestHandleGetProfile(t *testing.T) {
	_, handler := newTestServer(t)
	id := createTestProfile(t, handler, "Parameter Servers", "/job:ps")

	t.Run("by id", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/"+id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if body["name"] != "Parameter Servers" {
			t.Errorf("name = %v, want Parameter Servers", body["name"])
		}
	})

	t.Run("by slug", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/slug/parameter-servers", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if body["id"] != id {
			t.Errorf("id = %v, want %v", body["id"], id)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/no-such-id", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/slug/no-such-slug", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandleListProfiles(t *testing.T) {
	_, handler := newTestServer(t)
	createTestProfile(t, handler, "Workers", "/job:worker")
	createTestProfile(t, handler, "Servers", "/job:ps")

	rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestHandleUpdateProfile(t *testing.T) {
	_, handler := newTestServer(t)
	id := createTestProfile(t, handler, "GPU Workers", "/job:worker/device:GPU:*")

	t.Run("partial update of spec", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodPatch, "/api/v1/profiles/"+id,
			map[string]any{"spec": "/job:worker/task:0/gpu:1"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %v", rec.Code, http.StatusOK, body)
		}
		if body["spec"] != "/job:worker/task:0/device:GPU:1" {
			t.Errorf("spec = %v, want canonical form", body["spec"])
		}
		// Name untouched by partial update
		if body["name"] != "GPU Workers" {
			t.Errorf("name = %v, want GPU Workers", body["name"])
		}
	})

	t.Run("id in body cannot override path", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodPatch, "/api/v1/profiles/"+id,
			map[string]any{"id": "hijacked", "description": "updated"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if body["id"] != id {
			t.Errorf("id = %v, want %v", body["id"], id)
		}
	})

	t.Run("rejects invalid spec", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodPatch, "/api/v1/profiles/"+id,
			map[string]any{"spec": "/task:abc"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodPatch, "/api/v1/profiles/no-such-id",
			map[string]any{"name": "Ghost"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandleDeleteProfile(t *testing.T) {
	_, handler := newTestServer(t)
	id := createTestProfile(t, handler, "Short Lived", "/job:worker")

	rec, _ := doJSON(t, handler, http.MethodDelete, "/api/v1/profiles/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec, _ = doJSON(t, handler, http.MethodGet, "/api/v1/profiles/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, "/api/v1/profiles/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleResolveProfile(t *testing.T) {
	_, handler := newTestServer(t)
	id := createTestProfile(t, handler, "GPU Workers", "/job:worker/device:GPU:*")

	t.Run("empty candidate yields profile spec", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/"+id+"/resolve", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %v", rec.Code, http.StatusOK, body)
		}
		if body["canonical"] != "/job:worker/device:GPU:*" {
			t.Errorf("canonical = %v, want /job:worker/device:GPU:*", body["canonical"])
		}
	})

	t.Run("candidate fills absent fields", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodGet,
			"/api/v1/profiles/"+id+"/resolve?device=/task:3", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %v", rec.Code, http.StatusOK, body)
		}
		if body["canonical"] != "/job:worker/task:3/device:GPU:*" {
			t.Errorf("canonical = %v, want /job:worker/task:3/device:GPU:*", body["canonical"])
		}
	})

	t.Run("candidate overrides profile fields", func(t *testing.T) {
		rec, body := doJSON(t, handler, http.MethodGet,
			"/api/v1/profiles/"+id+"/resolve?device=/job:ps/gpu:2", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %v", rec.Code, http.StatusOK, body)
		}
		if body["canonical"] != "/job:ps/device:GPU:2" {
			t.Errorf("canonical = %v, want /job:ps/device:GPU:2", body["canonical"])
		}
	})

	t.Run("malformed candidate", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodGet,
			"/api/v1/profiles/"+id+"/resolve?device=/bogus:1", nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/no-such-id/resolve", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}
