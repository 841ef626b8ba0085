// SPDX-License-Identifier: MPL-2.0

// Package deploy implements the deployment spec file and its resolver.
//
// The spec file (qtdeploy.spec) is an INI document with sections app, python,
// qt and nuitka. It is the single source of truth for a deployment: the
// resolver fills every field from explicit caller values, existing file
// values, or filesystem discovery, writes the results back into the spec,
// and the caller persists the file with one explicit Save. The bundler
// consumes the resolved settings downstream.
package deploy
