package router

import (
	"net/http"
	"strings"

	"umbrella-customizer/app/controller"
)

type Controllers struct {
	Customizer *controller.CustomizerController
	Asset      *controller.AssetController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Customizer page
	mux.HandleFunc("/", controllers.Customizer.Page)

	// Base umbrella images
	mux.HandleFunc("/assets/umbrella/", controllers.Asset.BaseImage)

	// Create session
	mux.HandleFunc("/api/sessions", controllers.Customizer.CreateSession)

	// Session actions
	mux.HandleFunc("/api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		id, action := controller.SplitSessionPath(r.URL.Path)
		if id == "" {
			http.Error(w, "session id is required", http.StatusBadRequest)
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			controllers.Customizer.GetSession(w, r)
		case action == "" && r.Method == http.MethodDelete:
			controllers.Customizer.DeleteSession(w, r)
		case action == "color" && r.Method == http.MethodPost:
			controllers.Customizer.SelectColor(w, r)
		case action == "size" && r.Method == http.MethodPost:
			controllers.Customizer.SetSize(w, r)
		case action == "logo" && r.Method == http.MethodPost:
			controllers.Customizer.UploadLogo(w, r)
		case action == "logo" && r.Method == http.MethodDelete:
			controllers.Customizer.RemoveLogo(w, r)
		case action == "logo/image" && r.Method == http.MethodGet:
			controllers.Customizer.LogoImage(w, r)
		case action == "reset" && r.Method == http.MethodPost:
			controllers.Customizer.Reset(w, r)
		case action == "export" && r.Method == http.MethodPost:
			controllers.Customizer.Export(w, r)
		case action == "notifications" && r.Method == http.MethodGet:
			controllers.Customizer.Notifications(w, r)
		case isKnownAction(action):
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}

func isKnownAction(action string) bool {
	switch strings.TrimSuffix(action, "/") {
	case "", "color", "size", "logo", "logo/image", "reset", "export", "notifications":
		return true
	}
	return false
}
