package main

import (
	"errors"

	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitAPI        = 4
	exitNotSynced  = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// classify maps an error from the admin flows onto an exit code.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}
	var verrs serrors.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return withCode(exitValidation, err)
	case errors.Is(err, services.ErrStatusNotSynced):
		return withCode(exitNotSynced, err)
	}
	if _, ok := apiclient.AsError(err); ok {
		return withCode(exitAPI, err)
	}
	return err
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
