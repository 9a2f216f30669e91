package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"umbrella-customizer/config"
	"umbrella-customizer/logger"
	"umbrella-customizer/models"
	"umbrella-customizer/repository"
	"umbrella-customizer/service"
	"umbrella-customizer/templates"
	"umbrella-customizer/utils"
)

const (
	sessionCookie = "umbrella_session"
	sessionsPath  = "/api/sessions/"
	// multipart overhead allowed on top of the upload limit
	uploadSlack = 1 << 20
)

// CustomizerController handles HTTP requests for customizer sessions
type CustomizerController struct {
	sessions    *repository.SessionRepository[*service.Customizer]
	renderer    *service.Renderer
	themes      config.Themes
	exports     *service.ExportWriter
	sessionOpts service.CustomizerOptions
	log         *logger.Logger
}

// NewCustomizerController creates a new CustomizerController.
// exports may be nil when exported previews are not archived.
func NewCustomizerController(
	sessions *repository.SessionRepository[*service.Customizer],
	renderer *service.Renderer,
	themes config.Themes,
	exports *service.ExportWriter,
	sessionOpts service.CustomizerOptions,
	log *logger.Logger,
) *CustomizerController {
	return &CustomizerController{
		sessions:    sessions,
		renderer:    renderer,
		themes:      themes,
		exports:     exports,
		sessionOpts: sessionOpts,
		log:         log,
	}
}

// LogoURL is where the page loads a session's logo from
func LogoURL(sessionID string, revision uint64) string {
	return fmt.Sprintf("%s%s/logo/image?rev=%d", sessionsPath, sessionID, revision)
}

// SplitSessionPath splits /api/sessions/{id}/{action...} into id and action
func SplitSessionPath(path string) (string, string) {
	rest := strings.Trim(strings.TrimPrefix(path, sessionsPath), "/")
	id, action, _ := strings.Cut(rest, "/")
	return id, action
}

func (c *CustomizerController) newSession(ctx context.Context) (*service.Customizer, error) {
	session := service.NewCustomizer(uuid.NewString(), c.renderer, c.sessionOpts)
	if err := c.sessions.Put(ctx, session); err != nil {
		session.Close()
		return nil, err
	}
	c.log.Info("🆕 session created", "session", session.ID(), "live", c.sessions.Count())
	return session, nil
}

func (c *CustomizerController) session(r *http.Request) (*service.Customizer, error) {
	id, _ := SplitSessionPath(r.URL.Path)
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", repository.ErrSessionNotFound)
	}
	return c.sessions.Get(r.Context(), id)
}

func (c *CustomizerController) respond(w http.ResponseWriter, r *http.Request, session *service.Customizer, status int) {
	snap, err := session.Snapshot(r.Context())
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	writeJSON(w, c.log, status, models.SessionResponse{
		ID:       session.ID(),
		Snapshot: snap,
		Preview:  c.renderer.Preview(snap),
	})
}

type swatch struct {
	Color  models.Color
	Label  string
	Accent string
	Active bool
}

// Page handles GET /
// Renders the customizer page, reusing the session from the cookie when it is still alive
func (c *CustomizerController) Page(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	var session *service.Customizer
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		session, _ = c.sessions.Get(ctx, cookie.Value)
	}
	if session == nil {
		var err error
		if session, err = c.newSession(ctx); err != nil {
			writeError(w, c.log, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    session.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	snap, err := session.Snapshot(ctx)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	swatches := make([]swatch, 0, len(models.Colors))
	for _, color := range models.Colors {
		theme := c.themes.For(color)
		swatches = append(swatches, swatch{
			Color:  color,
			Label:  theme.Label,
			Accent: theme.Accent,
			Active: color == snap.Color,
		})
	}

	data := struct {
		SessionID string
		Snapshot  models.Snapshot
		Preview   models.PreviewLayout
		Swatches  []swatch
		MinSize   int
		MaxSize   int
	}{
		SessionID: session.ID(),
		Snapshot:  snap,
		Preview:   c.renderer.Preview(snap),
		Swatches:  swatches,
		MinSize:   service.MinLogoSize,
		MaxSize:   service.MaxLogoSize,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Customizer.Execute(w, data); err != nil {
		c.log.Error(err, "❌ failed to render page")
	}
}

// CreateSession handles POST /api/sessions
func (c *CustomizerController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.newSession(r.Context())
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	c.respond(w, r, session, http.StatusCreated)
}

// GetSession handles GET /api/sessions/:id
// Returns the snapshot and the on-screen preview layout
func (c *CustomizerController) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	c.respond(w, r, session, http.StatusOK)
}

// DeleteSession handles DELETE /api/sessions/:id
func (c *CustomizerController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, _ := SplitSessionPath(r.URL.Path)
	if err := c.sessions.Delete(r.Context(), id); err != nil {
		writeError(w, c.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectColor handles POST /api/sessions/:id/color
func (c *CustomizerController) SelectColor(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	var req models.ColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := session.SelectColor(r.Context(), req.Color); err != nil {
		writeError(w, c.log, err)
		return
	}
	c.respond(w, r, session, http.StatusOK)
}

// SetSize handles POST /api/sessions/:id/size
// Out of range sizes are clamped, never rejected
func (c *CustomizerController) SetSize(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	var req models.SizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if _, err := session.SetLogoSize(r.Context(), req.Size); err != nil {
		writeError(w, c.log, err)
		return
	}
	c.respond(w, r, session, http.StatusOK)
}

// UploadLogo handles POST /api/sessions/:id/logo with a multipart "logo" file
func (c *CustomizerController) UploadLogo(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+uploadSlack)
	file, header, err := r.FormFile("logo")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, c.log, fmt.Errorf("%w: request body over %d bytes", service.ErrTooLarge, maxErr.Limit))
			return
		}
		http.Error(w, fmt.Sprintf("logo file is required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadBytes+1))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read upload: %v", err), http.StatusBadRequest)
		return
	}

	upload := service.Upload{
		Data:      data,
		MimeType:  header.Header.Get("Content-Type"),
		SizeBytes: header.Size,
		FileName:  utils.SanitizeFileName(header.Filename),
	}
	c.log.Debug("📥 logo upload received", "session", session.ID(), "file", upload.FileName, "bytes", upload.SizeBytes)

	if err := session.UploadLogo(r.Context(), upload); err != nil {
		writeError(w, c.log, err)
		return
	}
	c.respond(w, r, session, http.StatusOK)
}

// RemoveLogo handles DELETE /api/sessions/:id/logo
func (c *CustomizerController) RemoveLogo(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	if err := session.RemoveLogo(r.Context()); err != nil {
		writeError(w, c.log, err)
		return
	}
	c.respond(w, r, session, http.StatusOK)
}

// LogoImage handles GET /api/sessions/:id/logo/image
func (c *CustomizerController) LogoImage(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	logo, err := session.Logo(r.Context())
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	if logo == nil {
		http.Error(w, "No logo uploaded", http.StatusNotFound)
		return
	}

	data, err := service.OptimizeImage(logo.Image, service.SizeThumb)
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// Reset handles POST /api/sessions/:id/reset
func (c *CustomizerController) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	if err := session.Reset(r.Context()); err != nil {
		writeError(w, c.log, err)
		return
	}
	c.respond(w, r, session, http.StatusOK)
}

// Export handles POST /api/sessions/:id/export
// Returns the composited PNG as a download
func (c *CustomizerController) Export(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	export, err := session.Export(r.Context())
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	if c.exports != nil {
		if _, err := c.exports.Save(export); err != nil {
			c.log.Warn("⚠️  failed to archive export", "file", export.FileName, "error", err.Error())
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		c.log.Error(err, "❌ failed to write export response")
	}
}

// Notifications handles GET /api/sessions/:id/notifications
func (c *CustomizerController) Notifications(w http.ResponseWriter, r *http.Request) {
	session, err := c.session(r)
	if err != nil {
		writeError(w, c.log, err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, session.Notifications())
}
