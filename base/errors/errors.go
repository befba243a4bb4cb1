// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error functions that are helpful
// for dealing with errors in a logged and concise way. It also
// re-exports the functions of the standard errors package so that
// it can be imported in its place.
package errors

import (
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
)

// Log takes the given error and logs it if it is non-nil.
// The intended usage is:
//
//	errors.Log(MyFunc(v))
//	// or
//	return errors.Log(MyFunc(v))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 takes the given value and error, logs the error if it is
// non-nil, and returns the value. The intended usage is:
//
//	a := errors.Log1(MyFunc(v))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// Must takes the given error and panics if it is non-nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 takes the given value and error and returns the value if
// the error is nil, and panics if the error is non-nil.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Ignore1 ignores an error return value for a function returning
// a value and an error, allowing direct usage of the value.
func Ignore1[T any](v T, err error) T {
	return v
}

// CallerInfo returns string information about the caller
// of the function that called CallerInfo.
func CallerInfo() string {
	pc, file, line, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name() + " " + filepath.Base(file) + ":" + strconv.Itoa(line)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
