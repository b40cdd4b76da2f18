package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	LoaderErrorBadInput          = "LOADER_BAD_INPUT"
	LoaderErrorAdapterNotFound   = "LOADER_ADAPTER_NOT_FOUND"
	LoaderErrorScriptLoadFailed  = "LOADER_SCRIPT_LOAD_FAILED"
	LoaderErrorAuthDenied        = "LOADER_AUTH_DENIED"
	LoaderErrorNotReady          = "LOADER_NOT_READY"
	LoaderErrorUnknownPermission = "LOADER_UNKNOWN_PERMISSION"
	LoaderErrorInternal          = "LOADER_INTERNAL_ERROR"
)

func loaderErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureLoaderErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "adapter") && strings.Contains(msg, "not registered"):
		return newLoaderError(err.Error(), goerrors.CategoryNotFound, LoaderErrorAdapterNotFound)
	case strings.Contains(msg, "script"), strings.Contains(msg, "inject"):
		return newLoaderError(err.Error(), goerrors.CategoryExternal, LoaderErrorScriptLoadFailed)
	case strings.Contains(msg, "denied"), strings.Contains(msg, "auth response"):
		return newLoaderError(err.Error(), goerrors.CategoryAuth, LoaderErrorAuthDenied)
	case strings.Contains(msg, "not ready"), strings.Contains(msg, "no active load"):
		return newLoaderError(err.Error(), goerrors.CategoryConflict, LoaderErrorNotReady)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newLoaderError(err.Error(), goerrors.CategoryBadInput, LoaderErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureLoaderErrorEnvelope(mapped)
}

func newLoaderError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureLoaderErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureLoaderErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = loaderHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultLoaderTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultLoaderTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return LoaderErrorBadInput
	case goerrors.CategoryNotFound:
		return LoaderErrorAdapterNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return LoaderErrorAuthDenied
	case goerrors.CategoryExternal:
		return LoaderErrorScriptLoadFailed
	case goerrors.CategoryConflict:
		return LoaderErrorNotReady
	default:
		return LoaderErrorInternal
	}
}

func loaderHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewScriptLoadError wraps a failure reported by the script-injection
// collaborator; the cause is preserved unchanged for the caller.
func NewScriptLoadError(cause error, url string) *goerrors.Error {
	return goerrors.Wrap(cause, goerrors.CategoryExternal, "script injection failed for "+url).
		WithCode(http.StatusBadGateway).
		WithTextCode(LoaderErrorScriptLoadFailed)
}

// NewAuthDeniedError marks a vendor login that completed without an auth
// payload, e.g. the user dismissed the permission dialog.
func NewAuthDeniedError(adapterID string) *goerrors.Error {
	return goerrors.New("vendor login returned no auth response for "+adapterID, goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(LoaderErrorAuthDenied)
}

func NewUnknownPermissionError(permission string) *goerrors.Error {
	return goerrors.New("unknown permission name: "+permission, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(LoaderErrorUnknownPermission)
}
