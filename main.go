package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/dendrascience/precompress/internal/cmd"
	"github.com/dendrascience/precompress/version"
)

func main() {
	root := cmd.NewRootCmd()
	if err := fang.Execute(context.Background(), root,
		fang.WithVersion(version.GetVersion()),
		fang.WithCommit(version.GetCommit()),
	); err != nil {
		os.Exit(1)
	}
}
