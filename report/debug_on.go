// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

//go:build diagdebug

package report

// debugReports registers the vma report in debug builds.
const debugReports = true
