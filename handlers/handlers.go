package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/contactbook/datastores"
	"github.com/oaiiae/contactbook/validation"
)

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}

	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

// statusError maps store and validation errors to HTTP errors.
// msg is used for failures the client cannot fix.
func statusError(err error, msg string) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return huma.Error422UnprocessableEntity(verrs.Error())
	case errors.Is(err, ds.ErrIndexOutOfRange), errors.Is(err, ds.ErrObjectNotFound):
		return huma.Error404NotFound("contact not found", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
