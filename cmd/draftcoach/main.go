// draftcoach — compliance decision support for customer-facing drafts.
package main

import (
	"github.com/complyops/draftcoach/internal/cli"
)

func main() {
	cli.Execute()
}
