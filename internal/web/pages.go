package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"church-site/internal/content"
	"church-site/internal/model"
)

const featuredLimit = 3

type homeData struct {
	Home       model.HomePage
	Events     []model.Event
	Ministries []model.Ministry
	Sermon     *model.Sermon
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	home, err := h.content.HomePage(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	events, err := h.content.FeaturedEvents(ctx, featuredLimit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	sermons, err := h.content.Sermons(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	ministries := home.FeaturedMinistries
	if len(ministries) == 0 {
		all, err := h.content.Ministries(ctx)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		ministries = all
	}
	if len(ministries) > featuredLimit {
		ministries = ministries[:featuredLimit]
	}

	data := homeData{Home: home, Events: events, Ministries: ministries}
	if len(sermons) > 0 {
		data.Sermon = &sermons[0]
	}
	h.render(w, r, http.StatusOK, "home", "", data)
}

func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	pastor, err := h.content.PastorWelcome(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "about", "About Us", pastor)
}

func (h *Handler) handleMinistries(w http.ResponseWriter, r *http.Request) {
	list, err := h.content.Ministries(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "ministries", "Ministries", list)
}

func (h *Handler) handleMinistry(w http.ResponseWriter, r *http.Request) {
	m, err := h.content.Ministry(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, content.ErrNotFound) {
		h.handleNotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "ministry", m.Name, m)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.content.UpcomingEvents(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "events", "Events", events)
}

type sermonsData struct {
	Sermons []model.Sermon
	Series  []model.SermonSeries
}

func (h *Handler) handleSermons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sermons, err := h.content.Sermons(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	series, err := h.content.SermonSeries(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "sermons", "Sermons", sermonsData{Sermons: sermons, Series: series})
}

type galleryData struct {
	Images     []model.GalleryImage
	Categories []string
	Selected   string
}

func (h *Handler) handleGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all, err := h.content.Gallery(ctx, "")
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := galleryData{Images: all, Categories: content.GalleryCategories(all)}
	if cat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))); cat != "" {
		data.Selected = cat
		data.Images, err = h.content.Gallery(ctx, cat)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	h.render(w, r, http.StatusOK, "gallery", "Gallery", data)
}

func (h *Handler) handleGive(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "give", "Give", nil)
}

func (h *Handler) staticPage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, name, title, nil)
	}
}
