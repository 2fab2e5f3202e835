package main

import (
	"context"

	"github.com/trezcool/kazi/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.lectSvc.SetPassword(context.Background(), core.CleanString(email, true /* lower */), pwd)
}
