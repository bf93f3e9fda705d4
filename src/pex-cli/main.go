package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/jack-barr3tt/pex-formatter/src/pex-cli/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cmd.NewRootCmd().ExecuteContext(ctx)
	cancel()
	utils.SyncLogger()

	if err != nil {
		os.Exit(1)
	}
}
