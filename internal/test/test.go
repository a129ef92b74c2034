// Package test contains assertion helpers shared by package tests.
package test

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/ava12/lalg"
)

func fatalf(t *testing.T, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func Assert(t *testing.T, cond bool, message string, params ...any) {
	t.Helper()
	if !cond {
		fatalf(t, message, params...)
	}
}

func Expect(t *testing.T, cond bool, expected, got any) {
	t.Helper()
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ExpectBool(t *testing.T, expected, got bool) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectInt(t *testing.T, expected, got int) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

// ExpectErrorCode checks that e is (or wraps) *lalg.Error with given code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	var le *lalg.Error
	if errors.As(e, &le) && le.Code == expected {
		return
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
}

// ExpectCodes checks diagnostic codes in discovery order.
func ExpectCodes(t *testing.T, expected []int, es []*lalg.Error) {
	t.Helper()
	got := make([]int, len(es))
	for i, e := range es {
		got[i] = e.Code
	}

	if len(got) != len(expected) {
		fatalf(t, "expecting codes %v, got %v", expected, got)
	}
	for i, c := range expected {
		if got[i] != c {
			fatalf(t, "expecting codes %v, got %v", expected, got)
		}
	}
}
