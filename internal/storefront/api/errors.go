package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はリモートエラーの分類。
type Kind int

const (
	KindTransient Kind = iota
	KindNotFound
	KindInvalidState
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindAuthorization:
		return "authorization"
	default:
		return "transient"
	}
}

// Error はサーバー呼び出しの失敗。Status はネットワークエラーなら 0。
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Kind, e.Path, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify はHTTPステータスから分類を決める。
func classify(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindInvalidState
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthorization
	default:
		return KindTransient
	}
}

func AsError(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsKind は err が指定分類のリモートエラーかを判定する。
func IsKind(err error, k Kind) bool {
	ae, ok := AsError(err)
	return ok && ae.Kind == k
}
