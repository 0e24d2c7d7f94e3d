// Copyright 2024 The StratoFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// New returns a plain comparable error, suitable for sentinel values.
func New(msg string) error {
	return errors.New(msg)
}

// tracedError records where an error was raised or annotated.
type tracedError struct {
	cause error
	msg   string
	file  string
	line  int
}

func (e *tracedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.cause.Error()
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *tracedError) Unwrap() error {
	return e.cause
}

func caller(skip int) (file string, line int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown", 0
	}
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file, line
}

// NewErrorf formats a new error and records the caller position.
func NewErrorf(format string, a ...interface{}) error {
	file, line := caller(1)
	return &tracedError{msg: fmt.Sprintf(format, a...), file: file, line: line}
}

// Trace annotates err with a formatted message and the caller position.
// A nil err yields nil.
func Trace(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	file, line := caller(1)
	return &tracedError{cause: err, msg: fmt.Sprintf(format, a...), file: file, line: line}
}

// Stack renders err and every traced annotation beneath it, one frame per line.
func Stack(err error) string {
	if err == nil {
		return ""
	}
	var sb strings.Builder
	for err != nil {
		te, ok := err.(*tracedError)
		if !ok {
			sb.WriteString(err.Error())
			break
		}
		sb.WriteString(te.file)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(te.line))
		sb.WriteString(" ")
		sb.WriteString(te.msg)
		sb.WriteString("\n")
		err = te.cause
	}
	return sb.String()
}

// Cause walks to the innermost error.
func Cause(err error) error {
	for {
		te, ok := err.(*tracedError)
		if !ok || te.cause == nil {
			return err
		}
		err = te.cause
	}
}

// Is reports whether any error in the chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
