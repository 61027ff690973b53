package main

import (
	"io"
	"os"
	"os/exec"
	"strconv"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wodbox/internal/app/sequence"
)

// executeHooks runs a list of shell commands. The run state is exposed
// to the commands through WODBOX_* environment variables.
func executeHooks(hooks []string, stage string, s sequence.Snapshot, out io.Writer) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	env := append(os.Environ(),
		"WODBOX_STAGE="+stage,
		"WODBOX_RUN_ID="+s.RunID,
		"WODBOX_KIND="+s.Kind.String(),
		"WODBOX_LABEL="+s.Label,
		"WODBOX_ELAPSED="+strconv.Itoa(s.ElapsedTotal),
	)

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Env = env
		cmd.Stdout = out
		cmd.Stderr = out

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
