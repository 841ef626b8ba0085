// SPDX-License-Identifier: MPL-2.0

// qtdeploy packages Qt for Python applications into standalone executables.
package main

func main() {
	Execute()
}
