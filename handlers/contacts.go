package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/contactbook/datastores"
	"github.com/oaiiae/contactbook/validation"
)

type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	Index int    `json:"index" readOnly:"true" doc:"Position of the contact in the collection"`
	ID    string `json:"id,omitempty" readOnly:"true" doc:"Stable identifier, absent on legacy contacts"`

	ContactInput
}

// ContactInput fields are checked by the validation package, not by the schema.
type ContactInput struct {
	FullName    string `json:"fullName"    required:"false" example:"Jane Doe"`
	PhoneNumber string `json:"phoneNumber" required:"false" example:"081234567890"`
	Email       string `json:"email"       required:"false" example:"jane@example.com"`
}

func newContactModel(i int, c ds.Contact) ContactModel {
	m := ContactModel{Index: i, ContactInput: ContactInput{
		FullName:    c.FullName,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
	}}
	if !c.ID.IsZero() {
		m.ID = c.ID.String()
	}
	return m
}

// validContact trims and validates input and returns it as a contact.
func validContact(input ContactInput) (ds.Contact, error) {
	in := validation.Input{
		FullName:    input.FullName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	}.Trim()
	if err := validation.Validate(in); err != nil {
		return ds.Contact{}, err
	}
	return ds.Contact{FullName: in.FullName, PhoneNumber: in.PhoneNumber, Email: in.Email}, nil
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body []ContactModel
}

// list reports an unreadable store as an empty collection.
func (h *Contacts) list(ctx context.Context, _ *struct{}) (*ContactsListOutput, error) {
	contacts, err := h.Store.LoadAll(ctx)
	switch {
	case ds.IsUnreadable(err):
		if h.ErrorHandler != nil {
			h.ErrorHandler(ctx, err)
		}
		return &ContactsListOutput{Body: []ContactModel{}}, nil
	case err != nil:
		return nil, err
	}

	body := make([]ContactModel, 0, len(contacts))
	for i, contact := range contacts {
		body = append(body, newContactModel(i, contact))
	}

	return &ContactsListOutput{Body: body}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{ref}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsGetOutput struct {
	Body ContactModel
}

type ContactRefInput struct {
	Ref string `path:"ref" example:"0" doc:"Index or ID of the contact"`
}

func (h *Contacts) get(ctx context.Context, input *ContactRefInput) (*ContactsGetOutput, error) {
	contact, i, err := ds.Get(ctx, h.Store, input.Ref)
	switch {
	case err == nil:
		return &ContactsGetOutput{Body: newContactModel(i, contact)}, nil

	case ds.IsUnreadable(err):
		return nil, huma.Error404NotFound("no contact saved", err)

	default:
		return nil, statusError(err, "error reading contact")
	}
}

func (h *Contacts) RegisterPost(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/",
		handlerWithErrorHandler(h.post, h.ErrorHandler),
		opErrors(http.StatusUnprocessableEntity, http.StatusInternalServerError),
		func(o *huma.Operation) { o.DefaultStatus = http.StatusCreated },
	)
}

func (h *Contacts) post(ctx context.Context, input *struct {
	Body ContactInput
}) (*ContactsGetOutput, error) {
	contact, err := validContact(input.Body)
	if err != nil {
		return nil, statusError(err, "")
	}

	contacts, err := ds.Add(ctx, h.Store, contact)
	if err != nil {
		return nil, statusError(err, "error saving contact")
	}

	i := len(contacts) - 1
	return &ContactsGetOutput{Body: newContactModel(i, contacts[i])}, nil
}

func (h *Contacts) RegisterPut(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/{ref}",
		handlerWithErrorHandler(h.put, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Contacts) put(ctx context.Context, input *struct {
	ContactRefInput
	Body ContactInput
}) (*struct{}, error) {
	contact, err := validContact(input.Body)
	if err != nil {
		return nil, statusError(err, "")
	}

	_, err = ds.Update(ctx, h.Store, input.Ref, contact)
	if err != nil {
		return nil, statusError(err, "error updating contact")
	}
	return nil, nil
}

func (h *Contacts) RegisterDel(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{ref}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *ContactRefInput) (*struct{}, error) {
	_, err := ds.Delete(ctx, h.Store, input.Ref)
	if err != nil {
		return nil, statusError(err, "error deleting contact")
	}
	return nil, nil
}
