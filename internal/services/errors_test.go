package services

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(ErrRemote, "alist", "get file", "/media/metainfo.json", base)
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote tag, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToRemote(t *testing.T) {
	err := Wrap(nil, "alist", "upload", "", nil)
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected default ErrRemote, got %v", err)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Wrap(ErrValidation, "corrections", "apply", "folder is required", nil), http.StatusBadRequest},
		{"configuration", ErrConfiguration, http.StatusBadRequest},
		{"not found", Wrap(ErrNotFound, "corrections", "fetch", "metainfo.json missing", nil), http.StatusNotFound},
		{"remote", ErrRemote, http.StatusInternalServerError},
		{"parse", ErrParse, http.StatusInternalServerError},
		{"auth", ErrAuth, http.StatusInternalServerError},
		{"untagged", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
