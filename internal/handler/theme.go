package handler

import (
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/SABADAZO23/APP-POO-Gestion/internal/domain"
	"github.com/SABADAZO23/APP-POO-Gestion/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxLogoUpload = 8 << 20

type ThemeHandler struct {
	Service service.ThemeService
}

// RegisterRoutes expects to be mounted under /stores/{storeID}.
func (h ThemeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/theme", h.get)
	r.Get("/theme.css", h.css)
}

func (h ThemeHandler) RegisterOwnerRoutes(r chi.Router) {
	r.Put("/theme", h.save)
}

func (h ThemeHandler) get(w http.ResponseWriter, r *http.Request) {
	theme := h.Service.LoadTheme(r.Context(), chi.URLParam(r, "storeID"))
	writeJSON(w, http.StatusOK, themePayload(theme))
}

func (h ThemeHandler) css(w http.ResponseWriter, r *http.Request) {
	theme := h.Service.LoadTheme(r.Context(), chi.URLParam(r, "storeID"))
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = io.WriteString(w, service.RenderCSS(theme))
}

// save accepts JSON with a base64 logo, or a multipart form with a "logo" file part.
func (h ThemeHandler) save(w http.ResponseWriter, r *http.Request) {
	var (
		palette []string
		dark    bool
		logo    []byte
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxLogoUpload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		palette = service.ParsePalette(r.FormValue("palette"))
		dark, _ = strconv.ParseBool(r.FormValue("darkMode"))
		if file, _, err := r.FormFile("logo"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				writeError(w, http.StatusBadRequest, "could not read logo")
				return
			}
			logo = data
		}
	} else {
		var req struct {
			Palette    []string `json:"palette"`
			DarkMode   bool     `json:"darkMode"`
			LogoBase64 string   `json:"logoBase64" validate:"omitempty,base64"`
		}
		if msg, ok := decodeJSON(r, &req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		palette, dark = req.Palette, req.DarkMode
		if req.LogoBase64 != "" {
			data, err := base64.StdEncoding.DecodeString(req.LogoBase64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "logoBase64 is not base64")
				return
			}
			logo = data
		}
	}

	storeID := chi.URLParam(r, "storeID")
	if err := h.Service.SaveTheme(r.Context(), storeID, palette, dark, logo); err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "save theme", err)
		return
	}
	writeJSON(w, http.StatusOK, themePayload(h.Service.LoadTheme(r.Context(), storeID)))
}

func themePayload(t domain.Theme) map[string]any {
	return map[string]any{
		"palette":    t.Palette,
		"darkMode":   t.DarkMode,
		"logoBase64": t.LogoB64,
		"css":        service.RenderCSS(t),
	}
}
