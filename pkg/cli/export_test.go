package cli

import (
	"io"

	"github.com/urfave/cli/v3"
)

var (
	GetIndexConfig = getIndexConfig
	RunMigrate     = runMigrate
)

// NewCaseCommandForTest builds the case command writing terminal output to out
func NewCaseCommandForTest(out io.Writer) *cli.Command {
	return newCaseCommand(&caseEnv{out: out})
}
