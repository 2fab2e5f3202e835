package main

import (
	"context"

	"github.com/trezcool/kazi/core/lecturer"
)

// addLecturer creates a lecturer account, enforcing the same password
// policy as API registration.
func (cli *commandLine) addLecturer(email, pwd string) error {
	data := lecturer.NewLecturer{
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := data.Validate(cli.validate, cli.translator, cli.lectSvc); err != nil {
		return err
	}

	_, err := cli.lectSvc.Register(context.Background(), data)
	return err
}
