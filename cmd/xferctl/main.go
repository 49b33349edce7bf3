package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/jimmicro/version"
	"github.com/jimyag/xfer/internal/xferctl"
)

func main() {
	if err := xferctl.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
