// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/texbundle/texbundle/cmd/texbundle"

func main() {
	cmd.Execute()
}
