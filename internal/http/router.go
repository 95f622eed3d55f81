package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux (avoids pulling in a
// third-party routing dependency).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler supports the http.Handler interface (static files etc.)
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/v1/auth/signup", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Signup(w, req)
	})

	r.Handle("/api/v1/auth/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})

	r.Handle("/api/v1/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, req)
	})
}

func (r *Router) RegisterReadingRoutes(h *ReadingsHandler) {
	// list / submit
	r.Handle("/api/v1/tires", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.SearchTires(w, req)
		case http.MethodPost:
			h.SubmitReading(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// tires/{tireNo}/history
	r.Handle("/api/v1/tires/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/tires/")
		tireNo, tail, _ := strings.Cut(rest, "/")
		if tireNo == "" || tail != "history" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.TireHistory(w, req, tireNo)
	})

	// vehicles/{vehicleNo}/status
	r.Handle("/api/v1/vehicles/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/vehicles/")
		vehicleNo, tail, _ := strings.Cut(rest, "/")
		if vehicleNo == "" || tail != "status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.VehicleStatus(w, req, vehicleNo)
	})

	r.Handle("/api/v1/reports/readings.xlsx", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ExportReadings(w, req)
	})
}

func (r *Router) RegisterChecklistRoutes(h *ChecklistHandler) {
	r.Handle("/api/v1/checklist/today", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.DueToday(w, req)
	})

	r.Handle("/api/v1/checklist/confirm", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ConfirmCheck(w, req)
	})
}

func (r *Router) RegisterProfileRoutes(h *ProfileHandler) {
	r.Handle("/api/v1/profile", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.GetProfile(w, req)
		case http.MethodPut, http.MethodPost:
			h.UpdateProfile(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/api/v1/profile/picture", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.UploadPicture(w, req)
	})
}

// RegisterStaticRoutes serves uploaded blobs (profile pictures) from disk.
func (r *Router) RegisterStaticRoutes(prefix, dir string) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	r.HandleHandler(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(dir))))
}
