package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gerunddev/vaultsummary/internal/commands"
	"github.com/gerunddev/vaultsummary/internal/notice"
	"github.com/gerunddev/vaultsummary/internal/styles"
)

func main() {
	rootCmd := commands.NewRootCommand()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !commands.Reported(err) {
			fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+notice.Message(err)))
		}
		os.Exit(1)
	}
}
