package main

import (
	"context"
	"log/slog"

	"jobproof/cmd/jobproof/commands"
	"jobproof/lib/osutil"
	"jobproof/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	shutdown, err := telemetry.Setup(ctx, "jobproof")
	if err != nil {
		slog.Warn("telemetry setup failed", "err", err)
	} else {
		defer shutdown(context.Background())
	}

	commands.ExecuteContext(ctx)
}
