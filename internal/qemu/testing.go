// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "github.com/stretchr/testify/assert"

// ArgumentValueAssertionFunc returns an [assert.ComparisonAssertionFunc] that
// asserts the value of the first [Argument] with the given name.
func ArgumentValueAssertionFunc(
	name string,
	assertion assert.ComparisonAssertionFunc,
) assert.ComparisonAssertionFunc {
	return func(t assert.TestingT, actual, expected any, msgAndArgs ...any) bool {
		args, ok := actual.([]Argument)
		if !assert.True(t, ok, "actual should be []Argument") {
			return false
		}

		for _, arg := range args {
			if arg.name == name {
				return assertion(t, arg.value, expected, msgAndArgs...)
			}
		}

		return assert.Fail(t, "argument not found: "+name)
	}
}

// ArgumentAbsentAssertionFunc returns an [assert.ValueAssertionFunc] that
// asserts no [Argument] with the given name is present.
func ArgumentAbsentAssertionFunc(name string) assert.ValueAssertionFunc {
	return func(t assert.TestingT, actual any, msgAndArgs ...any) bool {
		args, ok := actual.([]Argument)
		if !assert.True(t, ok, "actual should be []Argument") {
			return false
		}

		for _, arg := range args {
			if arg.name == name {
				return assert.Fail(t, "argument present: "+arg.String(),
					msgAndArgs...)
			}
		}

		return true
	}
}
