package main

import (
	"context"
	"os"

	"leavex-backend/cmd/leavex-cli/commands"
	"leavex-backend/lib/osutil"
	"leavex-backend/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	telemetry.InitSlog(false)
	err := telemetry.SetupFromEnv(ctx, "leavex-cli")
	if err != nil && !os.IsNotExist(err) {
		osutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
