package http

import (
	"context"

	"github.com/secmon-lab/modcase/pkg/usecase"
)

var (
	VerifySlackSignature = verifySlackSignature
	Tokenize             = tokenize
	ParseUserRef         = parseUserRef
	CommandUsage         = commandUsage
)

// RunCommand parses, binds and runs command text synchronously
func RunCommand(ctx context.Context, uc CaseUseCase, inv usecase.Invocation, text string) error {
	cmd, err := parseCommand(text)
	if err != nil {
		return err
	}
	run, err := bindCommand(cmd)
	if err != nil {
		return err
	}
	return run(ctx, uc, inv)
}
