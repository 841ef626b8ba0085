// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error reporting for the
// deployment pipeline: actionable errors with operation/resource context and
// fix suggestions, plus a catalog of known-issue cards rendered as markdown.
package issue
