package web

import (
	"errors"
	"net"
	"net/http"

	"church-site/internal/contact"
	"church-site/internal/logger"
)

const maxFormBytes = 64 << 10

type contactData struct {
	Form   contact.Submission
	Errors map[string]string
	Notice string
	Sent   bool
}

func (h *Handler) handleContactForm(w http.ResponseWriter, r *http.Request) {
	data := contactData{Sent: r.URL.Query().Get("sent") == "1"}
	h.render(w, r, http.StatusOK, "contact", "Contact Us", data)
}

func (h *Handler) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if h.contact == nil {
		h.render(w, r, http.StatusServiceUnavailable, "contact", "Contact Us",
			contactData{Notice: "The contact form is not available right now. Please call or email us instead."})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "contact", "Contact Us",
			contactData{Notice: "We could not read your message. Please try again."})
		return
	}

	form := contact.Submission{
		Name:       r.PostFormValue("name"),
		Email:      r.PostFormValue("email"),
		Phone:      r.PostFormValue("phone"),
		Subject:    r.PostFormValue("subject"),
		Message:    r.PostFormValue("message"),
		RemoteAddr: clientIP(r),
	}

	_, err := h.contact.Submit(r.Context(), form)
	var verr *contact.ValidationError
	switch {
	case err == nil:
		h.recordContact("ok")
		http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
	case errors.As(err, &verr):
		h.recordContact("invalid")
		h.render(w, r, http.StatusUnprocessableEntity, "contact", "Contact Us",
			contactData{Form: form, Errors: verr.Fields})
	case errors.Is(err, contact.ErrRateLimited):
		h.recordContact("rate_limited")
		h.render(w, r, http.StatusTooManyRequests, "contact", "Contact Us",
			contactData{Form: form, Notice: "You have sent several messages already. Please try again later."})
	default:
		h.recordContact("error")
		logger.FromContext(r.Context()).Error("Storing contact submission failed", logger.Err(err))
		h.render(w, r, http.StatusInternalServerError, "contact", "Contact Us",
			contactData{Form: form, Notice: "Something went wrong sending your message. Please try again."})
	}
}

func (h *Handler) recordContact(outcome string) {
	if h.metrics != nil {
		h.metrics.Contact(outcome)
	}
}

// clientIP strips the port from the remote address set by the RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
