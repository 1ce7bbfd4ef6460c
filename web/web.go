// Package web serves the server-rendered contact book pages.
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	ds "github.com/oaiiae/contactbook/datastores"
	"github.com/oaiiae/contactbook/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	msgNoContact     = "No contact saved"
	msgErrorSaving   = "Error saving contact"
	msgErrorUpdating = "Error updating contact"
	msgErrorDeleting = "Error deleting contact"
)

// Page is the data every template receives.
type Page struct {
	Title    string
	Contacts []ds.Contact
	Alert    string
	Error    string
}

type Pages struct {
	Store  ds.ContactsStore
	Logger *slog.Logger

	views map[string]*template.Template
}

func New(store ds.ContactsStore, logger *slog.Logger) (*Pages, error) {
	funcs := template.FuncMap{"inc": func(i int) int { return i + 1 }}
	views := make(map[string]*template.Template)
	for _, name := range []string{"home", "about", "contact"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		views[name] = t
	}
	return &Pages{Store: store, Logger: logger, views: views}, nil
}

// Register mounts the pages on mux.
func (p *Pages) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", p.home)
	mux.HandleFunc("GET /about", p.about)
	mux.HandleFunc("GET /contact", p.list)
	mux.HandleFunc("POST /contact/addContact", p.add)
	mux.HandleFunc("POST /contact/updateContact", p.update)
	mux.HandleFunc("POST /contact/deleteContact", p.del)
}

func (p *Pages) home(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, "home", Page{Title: "Home"})
}

func (p *Pages) about(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, "about", Page{Title: "About"})
}

func (p *Pages) list(w http.ResponseWriter, r *http.Request) {
	contacts, err := p.Store.LoadAll(r.Context())
	if err != nil {
		p.logError(r, err)
		p.render(w, r, http.StatusOK, "contact", Page{Title: "Contact", Error: msgNoContact})
		return
	}
	p.render(w, r, http.StatusOK, "contact", Page{Title: "Contact", Contacts: contacts})
}

func (p *Pages) add(w http.ResponseWriter, r *http.Request) {
	contact, ok := p.formContact(w, r)
	if !ok {
		return
	}
	_, err := ds.Add(r.Context(), p.Store, contact)
	p.done(w, r, err, msgErrorSaving)
}

func (p *Pages) update(w http.ResponseWriter, r *http.Request) {
	contact, ok := p.formContact(w, r)
	if !ok {
		return
	}
	_, err := ds.Update(r.Context(), p.Store, r.PostForm.Get("id"), contact)
	p.done(w, r, err, msgErrorUpdating)
}

func (p *Pages) del(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p.logError(r, err)
		p.render(w, r, http.StatusBadRequest, "contact", Page{Title: "Contact", Error: msgErrorDeleting})
		return
	}
	_, err := ds.Delete(r.Context(), p.Store, r.PostForm.Get("id"))
	p.done(w, r, err, msgErrorDeleting)
}

// formContact reads and validates the posted contact. When it reports
// false, the response has already been written.
func (p *Pages) formContact(w http.ResponseWriter, r *http.Request) (ds.Contact, bool) {
	if err := r.ParseForm(); err != nil {
		p.render(w, r, http.StatusBadRequest, "contact", Page{Title: "Contact", Alert: err.Error()})
		return ds.Contact{}, false
	}
	in := validation.Input{
		FullName:    r.PostForm.Get("fullName"),
		Email:       r.PostForm.Get("email"),
		PhoneNumber: r.PostForm.Get("phoneNumber"),
	}.Trim()

	if err := validation.Validate(in); err != nil {
		contacts, loadErr := p.Store.LoadAll(r.Context())
		if loadErr != nil {
			contacts = nil
		}
		p.render(w, r, http.StatusUnprocessableEntity, "contact", Page{
			Title:    "Contact",
			Contacts: contacts,
			Alert:    err.Error(),
		})
		return ds.Contact{}, false
	}
	return ds.Contact{FullName: in.FullName, PhoneNumber: in.PhoneNumber, Email: in.Email}, true
}

// done redirects to the contact list, or renders msg when err is set.
func (p *Pages) done(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if err == nil {
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}
	p.logError(r, err)

	status := http.StatusInternalServerError
	if errors.Is(err, ds.ErrIndexOutOfRange) || errors.Is(err, ds.ErrObjectNotFound) {
		status = http.StatusNotFound
	}
	p.render(w, r, status, "contact", Page{Title: "Contact", Error: msg})
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, view string, page Page) {
	var buf bytes.Buffer
	if err := p.views[view].ExecuteTemplate(&buf, "layout", page); err != nil {
		p.logError(r, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *Pages) logError(r *http.Request, err error) {
	if p.Logger == nil {
		return
	}
	p.Logger.LogAttrs(r.Context(), slog.LevelWarn, "error occurred",
		slog.String("path", r.URL.Path),
		slog.Any("err", err),
	)
}
